package respond

import "context"

// HeadersResponder is a Responder in the expect-headers phase. It is the
// object a handler receives; it is freshly initialized and uniquely
// owned (I5: at most one final response may ever be written from it).
type HeadersResponder[E Encoder] struct {
	enc E
}

// NewResponder wraps enc in a fresh, headers-phase Responder.
func NewResponder[E Encoder](enc E) HeadersResponder[E] {
	return HeadersResponder[E]{enc: enc}
}

// WriteInterimResponse sends an informational response (100–199). It is
// non-consuming: the same HeadersResponder remains usable afterward, so a
// handler may send several before the final response.
func (r HeadersResponder[E]) WriteInterimResponse(ctx context.Context, res Response) error {
	if !res.IsInformational() {
		return errInterimStatus(res.Status)
	}
	if err := r.enc.WriteResponse(ctx, res); err != nil {
		return errEncoder(err)
	}
	return nil
}

// WriteFinalResponse sends the unique final response and advances to the
// expect-body phase. It records the Content-Length header, if present and
// parseable, as the announced length for I4 accounting.
func (r HeadersResponder[E]) WriteFinalResponse(ctx context.Context, res Response) (BodyResponder[E], error) {
	announced, hasAnnounced := res.Header.ContentLength()
	return r.writeFinalResponseInternal(ctx, res, announced, hasAnnounced)
}

func (r HeadersResponder[E]) writeFinalResponseInternal(ctx context.Context, res Response, announced uint64, hasAnnounced bool) (BodyResponder[E], error) {
	if !res.IsFinal() {
		return BodyResponder[E]{}, errFinalStatus(res.Status)
	}
	if err := r.enc.WriteResponse(ctx, res); err != nil {
		return BodyResponder[E]{}, errEncoder(err)
	}
	return BodyResponder[E]{
		enc:          r.enc,
		announced:    announced,
		hasAnnounced: hasAnnounced,
	}, nil
}

// WriteFinalResponseWithBody sends the final response, adding an
// automatic Content-Length when body reports a known length and the
// caller didn't already set one, then drains body to completion. Any
// error from the body, the chunk writes, or finish_body aborts the
// transition immediately.
func (r HeadersResponder[E]) WriteFinalResponseWithBody(ctx context.Context, res Response, body Body) (DoneResponder[E], error) {
	if clen, ok := body.ContentLength(); ok {
		if res.Header == nil {
			res.Header = Header{}
		}
		res.Header.SetIfAbsent("Content-Length", formatUint(clen))
	}

	announced, hasAnnounced := res.Header.ContentLength()
	this, err := r.writeFinalResponseInternal(ctx, res, announced, hasAnnounced)
	if err != nil {
		return DoneResponder[E]{}, err
	}

	for {
		chunk, err := body.Next(ctx)
		if err != nil {
			return DoneResponder[E]{}, err
		}
		if chunk.Done {
			return this.FinishBody(ctx, chunk.Trailers)
		}
		if err := this.WriteChunk(ctx, chunk.Piece); err != nil {
			return DoneResponder[E]{}, err
		}
	}
}

// BodyResponder is a Responder in the expect-body phase.
type BodyResponder[E Encoder] struct {
	enc          E
	announced    uint64
	hasAnnounced bool
	written      uint64
}

// WriteChunk adds piece's length to the bytes-written counter before
// handing it to the Encoder, so a failed write still accounts for the
// attempted bytes. No check against the announced length happens here;
// overrun is only detected at FinishBody.
func (r *BodyResponder[E]) WriteChunk(ctx context.Context, piece Piece) error {
	r.written += uint64(piece.Len())
	if err := r.enc.WriteBodyChunk(ctx, piece); err != nil {
		return errEncoder(err)
	}
	return nil
}

// FinishBody ends the body, with optional trailers, and advances to Done.
// If an announced length was recorded and the bytes-written counter
// doesn't match it, this returns a content-length mismatch error instead
// of writing anything further.
func (r BodyResponder[E]) FinishBody(ctx context.Context, trailers Header) (DoneResponder[E], error) {
	if r.hasAnnounced && r.written != r.announced {
		return DoneResponder[E]{}, errContentLengthMismatch(r.announced, r.written)
	}
	if err := r.enc.WriteBodyEnd(ctx); err != nil {
		return DoneResponder[E]{}, errEncoder(err)
	}
	if trailers != nil {
		if err := r.enc.WriteTrailers(ctx, trailers); err != nil {
			return DoneResponder[E]{}, errEncoder(err)
		}
	}
	return DoneResponder[E]{enc: r.enc}, nil
}

// DoneResponder is a Responder that has completed its response. Its only
// operation is extracting the owned Encoder.
type DoneResponder[E Encoder] struct {
	enc E
}

// IntoInner returns the owned Encoder.
func (r DoneResponder[E]) IntoInner() E {
	return r.enc
}
