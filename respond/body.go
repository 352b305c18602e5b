package respond

import (
	"context"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Chunk is one pull result from a Body. When Done is false, Piece carries
// the next slice of data. When Done is true, Piece is empty and Trailers
// (possibly nil) carries the response trailers.
type Chunk struct {
	Piece    Piece
	Done     bool
	Trailers Header
}

// Body is a lazy, finite, consumed-once sequence of Pieces terminated by a
// Chunk with Done set. It is pulled linearly; no rewinding.
//
// A body whose ContentLength is unknown signals chunked/streamed framing
// to the Encoder. When known, the sum of non-Done chunk lengths MUST equal
// it exactly — this is a binding promise, policed by the Responder at
// finish time (I4).
type Body interface {
	// ContentLength returns the a priori body length, if known.
	ContentLength() (uint64, bool)

	// EOF reports whether the body has already yielded its terminating
	// chunk. It must be idempotent once true.
	EOF() bool

	// Next pulls the next chunk. After a Done chunk, further calls are
	// undefined and must not be made by callers that respect this
	// contract (the Responder never does).
	Next(ctx context.Context) (Chunk, error)
}

// ReaderBody adapts an io.Reader into the Body contract, optionally with a
// known content length. It reads in fixed-size windows, each backed by a
// bytebufferpool buffer released on the next window, and is the body
// implementation used by the HTTP/1.1 demo path.
type ReaderBody struct {
	r              io.Reader
	chunkSize      int
	length         *uint64
	eof            bool
	pendingRelease func()
}

// NewReaderBody wraps r. If length is non-nil, it is reported as the
// known content length and callers are responsible for ensuring r yields
// exactly that many bytes.
func NewReaderBody(r io.Reader, length *uint64) *ReaderBody {
	return &ReaderBody{r: r, chunkSize: 32 * 1024, length: length}
}

func (b *ReaderBody) ContentLength() (uint64, bool) {
	if b.length == nil {
		return 0, false
	}
	return *b.length, true
}

func (b *ReaderBody) EOF() bool {
	return b.eof
}

// Next reads one window into a pooled buffer. The Responder always hands a
// returned Piece to the Encoder and finishes that write before Next is
// called again, so it's safe to return the previous window's buffer to the
// pool here rather than the caller having to do it.
func (b *ReaderBody) Next(ctx context.Context) (Chunk, error) {
	if b.pendingRelease != nil {
		b.pendingRelease()
		b.pendingRelease = nil
	}
	if b.eof {
		return Chunk{Done: true}, nil
	}
	select {
	case <-ctx.Done():
		return Chunk{}, ctx.Err()
	default:
	}

	pooled := bytebufferpool.Get()
	if cap(pooled.B) < b.chunkSize {
		pooled.B = make([]byte, b.chunkSize)
	} else {
		pooled.B = pooled.B[:b.chunkSize]
	}

	n, err := b.r.Read(pooled.B)
	// A (0, nil) read means nothing happened, not end of stream.
	for n == 0 && err == nil {
		n, err = b.r.Read(pooled.B)
	}
	if n > 0 {
		piece := PieceFromBytes(pooled.B[:n])
		b.pendingRelease = func() { bytebufferpool.Put(pooled) }
		return Chunk{Piece: piece}, nil
	}
	bytebufferpool.Put(pooled)
	if err == io.EOF || err == nil {
		b.eof = true
		return Chunk{Done: true}, nil
	}
	return Chunk{}, err
}

// StaticBody is a Body over a single in-memory Piece, useful for tests and
// small fixed responses.
type StaticBody struct {
	piece    Piece
	trailers Header
	sent     bool
	done     bool
}

// NewStaticBody returns a Body that yields contents once, then Done with
// the given trailers (may be nil).
func NewStaticBody(contents []byte, trailers Header) *StaticBody {
	return &StaticBody{piece: PieceFromBytes(contents), trailers: trailers}
}

func (b *StaticBody) ContentLength() (uint64, bool) {
	return uint64(b.piece.Len()), true
}

func (b *StaticBody) EOF() bool {
	return b.done
}

func (b *StaticBody) Next(ctx context.Context) (Chunk, error) {
	select {
	case <-ctx.Done():
		return Chunk{}, ctx.Err()
	default:
	}
	if b.done {
		return Chunk{Done: true}, nil
	}
	if !b.sent {
		b.sent = true
		return Chunk{Piece: b.piece}, nil
	}
	b.done = true
	return Chunk{Done: true, Trailers: b.trailers}, nil
}
