// Package h2 adapts the HTTP/2 demultiplexer's per-stream DATA delivery
// to the respond.Body contract.
package h2

import (
	"context"

	"github.com/streamkit-go/respond"
)

// ChunkOrError is the inbox element type: either a Piece delivered by the
// HTTP/2 layer, or an error observed while receiving it.
type ChunkOrError struct {
	Piece respond.Piece
	Err   error
}

// Body implements respond.Body over a single-producer/single-consumer
// inbox of chunk-or-error values. It is created by the HTTP/2 layer when
// request headers are parsed, and dropped when the handler completes.
//
// Trailers are not threaded through the inbox in this adapter; it always
// yields Done with no trailers. Supporting trailers would need either a
// second inbox or a terminator variant carrying them (see DESIGN.md).
type Body struct {
	contentLength *uint64
	eof           bool
	inbox         <-chan ChunkOrError
}

// NewBody constructs an adapter over inbox. contentLength, if non-nil, is
// the a priori length promised by the HTTP/2 layer (from a parsed
// content-length request header).
func NewBody(inbox <-chan ChunkOrError, contentLength *uint64) *Body {
	return &Body{contentLength: contentLength, inbox: inbox}
}

// SetEOF lets the HTTP/2 layer mark the stream done directly, for the
// case where END_STREAM arrives without further DATA frames.
func (b *Body) SetEOF() {
	b.eof = true
}

func (b *Body) ContentLength() (uint64, bool) {
	if b.contentLength == nil {
		return 0, false
	}
	return *b.contentLength, true
}

func (b *Body) EOF() bool {
	return b.eof
}

// Next implements the pull algorithm: once EOF is set, every subsequent
// call returns Done immediately (P5). Otherwise it awaits the next inbox
// message, translating a closed channel into EOF.
func (b *Body) Next(ctx context.Context) (respond.Chunk, error) {
	if b.eof {
		return respond.Chunk{Done: true}, nil
	}

	select {
	case <-ctx.Done():
		return respond.Chunk{}, ctx.Err()
	case item, open := <-b.inbox:
		if !open {
			b.eof = true
			return respond.Chunk{Done: true}, nil
		}
		if item.Err != nil {
			return respond.Chunk{}, item.Err
		}
		return respond.Chunk{Piece: item.Piece}, nil
	}
}
