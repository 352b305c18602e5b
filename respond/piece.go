package respond

import "github.com/valyala/bytebufferpool"

// Piece is an opaque, cheaply cloneable byte slice of known length. It
// models a zero-copy write: the engine never inspects its bytes, only
// moves it into an Encoder.
type Piece struct {
	b []byte
}

// PieceFromBytes wraps an existing slice without copying it. Callers must
// not mutate b after handing it to a Piece.
func PieceFromBytes(b []byte) Piece {
	return Piece{b: b}
}

// PieceFromString wraps a copy of s's bytes.
func PieceFromString(s string) Piece {
	return Piece{b: []byte(s)}
}

// Len reports the piece's length in bytes.
func (p Piece) Len() int {
	return len(p.b)
}

// Bytes returns the underlying slice. The returned slice must be treated
// as read-only.
func (p Piece) Bytes() []byte {
	return p.b
}

// NewPooledPiece copies src into a pooled buffer and returns the Piece
// together with a release function. Use this on hot paths where pieces
// are produced and consumed within the same connection's lifetime, to
// avoid a fresh heap allocation per chunk.
func NewPooledPiece(src []byte) (Piece, func()) {
	buf := bytebufferpool.Get()
	buf.B = append(buf.B[:0], src...)
	release := func() { bytebufferpool.Put(buf) }
	return Piece{b: buf.B}, release
}
