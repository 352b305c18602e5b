package h2

import (
	"context"
	"fmt"

	"github.com/streamkit-go/respond"
)

// Frame is one logged operation from Encoder's point of view. Real HTTP/2
// frame serialization (HEADERS/CONTINUATION/DATA, HPACK, stream
// multiplexing) is out of scope for this module; Encoder exists so the
// Responder can be driven and observed against a stand-in for a live
// stream, and so a real implementation has a concrete contract to slot
// into.
type Frame struct {
	Kind     string // "response", "chunk", "body_end", "trailers"
	Response respond.Response
	Piece    respond.Piece
	Trailers respond.Header
}

// Encoder is a minimal respond.Encoder over a single HTTP/2 stream,
// recording the frames it would have emitted instead of writing bytes to
// a real connection.
type Encoder struct {
	StreamID uint32
	Frames   []Frame
	closed   bool
}

// NewEncoder returns an Encoder bound to the given HTTP/2 stream
// identifier.
func NewEncoder(streamID uint32) *Encoder {
	return &Encoder{StreamID: streamID}
}

func (e *Encoder) WriteResponse(ctx context.Context, res respond.Response) error {
	if e.closed {
		return fmt.Errorf("h2: stream %d already closed", e.StreamID)
	}
	e.Frames = append(e.Frames, Frame{Kind: "response", Response: res})
	return nil
}

func (e *Encoder) WriteBodyChunk(ctx context.Context, piece respond.Piece) error {
	if e.closed {
		return fmt.Errorf("h2: stream %d already closed", e.StreamID)
	}
	e.Frames = append(e.Frames, Frame{Kind: "chunk", Piece: piece})
	return nil
}

func (e *Encoder) WriteBodyEnd(ctx context.Context) error {
	if e.closed {
		return fmt.Errorf("h2: stream %d already closed", e.StreamID)
	}
	e.Frames = append(e.Frames, Frame{Kind: "body_end"})
	e.closed = true
	return nil
}

func (e *Encoder) WriteTrailers(ctx context.Context, trailers respond.Header) error {
	e.Frames = append(e.Frames, Frame{Kind: "trailers", Trailers: trailers})
	return nil
}
