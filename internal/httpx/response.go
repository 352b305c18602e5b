package httpx

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/streamkit-go/respond"
)

// bodyMode records how Encoder1 is framing the body for the response
// currently in flight, decided from the headers passed to WriteResponse.
type bodyMode int

const (
	modeNone bodyMode = iota
	modeFixed
	modeChunked
	modeUntilClose
)

// Encoder1 is the HTTP/1.1 respond.Encoder: it serializes the phase-machine
// calls (response, chunk*, body_end, trailers?) onto the wire in the shape
// net/http clients expect, choosing fixed-length, chunked, or until-close
// framing from the headers of the final response.
type Encoder1 struct {
	ctx context.Context
	bw  *bufio.Writer

	mode           bodyMode
	pendingTrailer bool // chunked "0\r\n" written, final CRLF still owed
}

// NewEncoder1 wraps w for a single response cycle. ctx is checked before
// every write so a canceled connection stops producing output promptly.
func NewEncoder1(ctx context.Context, w io.Writer) *Encoder1 {
	return &Encoder1{ctx: ctx, bw: bufio.NewWriter(w)}
}

func (e *Encoder1) checkCtx() error {
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	default:
		return nil
	}
}

// WriteResponse emits the status line and header block. Called once per
// interim response and once, finally, for the response that opens the body
// phase; the body-framing mode is (re)computed from res.Header each time, so
// only the final call's headers matter to subsequent WriteBodyChunk calls.
func (e *Encoder1) WriteResponse(ctx context.Context, res respond.Response) error {
	if err := e.checkCtx(); err != nil {
		return err
	}

	proto := res.Version.String()
	reason := http.StatusText(res.Status)
	if reason == "" {
		reason = strconv.Itoa(res.Status)
	}
	if _, err := e.bw.WriteString(proto + " " + strconv.Itoa(res.Status) + " " + reason + "\r\n"); err != nil {
		return err
	}

	// One ctx check for the whole block, not per field: a header block is
	// bounded by the ingress header-size limit and cheap to write in full,
	// unlike a body chunk where per-write cancellation actually matters.
	if err := res.Header.Write(e.bw); err != nil {
		return err
	}
	if _, err := e.bw.WriteString("\r\n"); err != nil {
		return err
	}

	e.mode = bodyModeFor(res.Header)
	e.pendingTrailer = false
	return e.bw.Flush()
}

// bodyModeFor inspects Content-Length / Transfer-Encoding to decide framing,
// mirroring the precedence RFC 7230 §3.3.3 gives a server: chunked wins when
// both are present, since Content-Length alone can't bound a streamed body.
func bodyModeFor(h respond.Header) bodyMode {
	if strings.EqualFold(h.Get("Transfer-Encoding"), "chunked") {
		return modeChunked
	}
	if _, ok := h.ContentLength(); ok {
		return modeFixed
	}
	return modeUntilClose
}

// WriteBodyChunk writes piece's bytes, framed per the mode chosen by the
// last WriteResponse: raw for fixed/until-close, or a chunked-encoding block
// ("<hex-size>\r\n<data>\r\n") otherwise.
func (e *Encoder1) WriteBodyChunk(ctx context.Context, piece respond.Piece) error {
	if err := e.checkCtx(); err != nil {
		return err
	}
	data := piece.Bytes()
	if len(data) == 0 {
		return nil
	}

	if e.mode != modeChunked {
		_, err := e.bw.Write(data)
		return err
	}

	if _, err := e.bw.WriteString(strconv.FormatInt(int64(len(data)), 16)); err != nil {
		return err
	}
	if _, err := e.bw.WriteString("\r\n"); err != nil {
		return err
	}
	if _, err := e.bw.Write(data); err != nil {
		return err
	}
	_, err := e.bw.WriteString("\r\n")
	return err
}

// WriteBodyEnd emits the framing terminator. For chunked bodies this is the
// zero-size chunk line "0\r\n"; the final blank line that closes the
// trailer section is deferred to WriteTrailers, or to Finalize if no
// trailers follow. Fixed-length and until-close bodies need no terminator.
func (e *Encoder1) WriteBodyEnd(ctx context.Context) error {
	if err := e.checkCtx(); err != nil {
		return err
	}
	if e.mode == modeChunked {
		if _, err := e.bw.WriteString("0\r\n"); err != nil {
			return err
		}
		e.pendingTrailer = true
	}
	return e.bw.Flush()
}

// WriteTrailers emits trailer header lines followed by the blank line that
// terminates chunked framing. Trailers are only legal once body_end has
// opened the trailer section; non-chunked bodies reject them, since the
// fixed and until-close framings have no trailer section to append to.
func (e *Encoder1) WriteTrailers(ctx context.Context, trailers respond.Header) error {
	if err := e.checkCtx(); err != nil {
		return err
	}
	if e.mode != modeChunked || !e.pendingTrailer {
		return errTrailersNotChunked
	}
	if err := trailers.Write(e.bw); err != nil {
		return err
	}
	if _, err := e.bw.WriteString("\r\n"); err != nil {
		return err
	}
	e.pendingTrailer = false
	return e.bw.Flush()
}

// Finalize closes out any chunked trailer section left open because
// WriteTrailers was never called (the common no-trailers case), and flushes
// the underlying writer. The connection loop calls this once it has
// recovered the Encoder1 from a DoneResponder via IntoInner.
func (e *Encoder1) Finalize() error {
	if e.pendingTrailer {
		if _, err := e.bw.WriteString("\r\n"); err != nil {
			return err
		}
		e.pendingTrailer = false
	}
	return e.bw.Flush()
}
