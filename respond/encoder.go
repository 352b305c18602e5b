package respond

import "context"

// Encoder is the version-specific output sink a Responder drives. Every
// operation may fail with an encoder-defined error, which the Responder
// wraps uniformly into a ResponderError.
//
// Ordering contract observed externally:
//
//	WriteResponse(interim)*   WriteResponse(final)
//	                          WriteBodyChunk*
//	                          WriteBodyEnd
//	                          WriteTrailers?
type Encoder interface {
	// WriteResponse emits headers frame(s) for the status and headers. It
	// may be called multiple times: zero or more interim responses,
	// followed by exactly one final response.
	WriteResponse(ctx context.Context, res Response) error

	// WriteBodyChunk emits a DATA frame or chunked-encoding block for
	// piece.
	WriteBodyChunk(ctx context.Context, piece Piece) error

	// WriteBodyEnd emits the framing terminator: a final zero-length
	// chunk, or END_STREAM.
	WriteBodyEnd(ctx context.Context) error

	// WriteTrailers emits a trailing headers frame. Only meaningful after
	// WriteBodyEnd. Trailer legality against the response (status class,
	// chunked framing, client TE acceptance) is the Encoder's
	// responsibility; the Responder does not enforce it.
	WriteTrailers(ctx context.Context, trailers Header) error
}
