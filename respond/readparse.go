package respond

import (
	"context"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Parser runs over the currently filled region of a growable buffer. It
// returns the unconsumed rest of buf and the parsed output on success.
// When more input is needed it must return incomplete=true (rest and out
// are ignored in that case). Any other failure is a parse rejection.
type Parser[T any] func(buf []byte) (rest []byte, out T, incomplete bool, err error)

// Reader is the minimal transport surface ReadAndParse needs: a
// cancelable read into a caller-owned slice.
type Reader interface {
	Read(ctx context.Context, p []byte) (int, error)
}

// Leftover carries bytes a successful parse read past the end of its
// message — e.g. the start of the next pipelined request — so the next
// ReadAndParse call can consume them before touching the stream again.
// The zero value means "nothing carried forward".
type Leftover struct {
	b []byte
}

// Bytes returns the carried-forward bytes.
func (l Leftover) Bytes() []byte { return l.b }

// Empty reports whether there is nothing carried forward.
func (l Leftover) Empty() bool { return len(l.b) == 0 }

// ReadAndParse drives parser over data read from stream into a pooled,
// growable buffer, until the parser either succeeds, rejects the input,
// or the buffer reaches maxLen while still incomplete. carry seeds the
// buffer with bytes a prior call already read but didn't consume (pass
// the zero Leftover{} for the first call on a stream).
//
// On success it returns (out, leftover, true, nil), where leftover holds
// whatever the parser left unconsumed — feed it back in as carry on the
// next call so those bytes aren't re-read from the stream or dropped. A
// clean end-of-stream (empty read against an empty buffer) returns
// (zero, Leftover{}, false, nil); any other failure returns a non-nil
// err. Reservation is lazy: the buffer only grows when the parser
// actually asks for more.
func ReadAndParse[T any](ctx context.Context, parser Parser[T], stream Reader, maxLen int, carry Leftover) (out T, leftover Leftover, ok bool, err error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	filled := 0
	if n := len(carry.b); n > 0 {
		if cap(buf.B) < n {
			buf.B = make([]byte, n)
		} else {
			buf.B = buf.B[:n]
		}
		copy(buf.B, carry.b)
		filled = n
	}

	for {
		rest, parsed, incomplete, perr := parser(buf.B[:filled])
		if perr != nil {
			var zero T
			return zero, Leftover{}, false, rpErrParsing()
		}
		if !incomplete {
			// Copy rest out before buf goes back to the pool: the pool may
			// hand this backing array to an unrelated caller right after.
			carried := append([]byte(nil), rest...)
			return parsed, Leftover{b: carried}, true, nil
		}

		if filled >= maxLen {
			var zero T
			return zero, Leftover{}, false, rpErrBufferLimit(maxLen)
		}

		if cap(buf.B) == filled {
			growTo := cap(buf.B) * 2
			if growTo == 0 {
				growTo = 4096
			}
			if growTo > maxLen {
				growTo = maxLen
			}
			grown := make([]byte, filled, growTo)
			copy(grown, buf.B[:filled])
			buf.B = grown
		}

		readLimit := maxLen - filled
		room := cap(buf.B) - filled
		if room < readLimit {
			readLimit = room
		}

		n, rerr := stream.Read(ctx, buf.B[filled:filled+readLimit])
		if rerr != nil {
			var zero T
			return zero, Leftover{}, false, rpErrRead(rerr)
		}
		if n == 0 {
			var zero T
			if filled != 0 {
				return zero, Leftover{}, false, rpErrRead(io.ErrUnexpectedEOF)
			}
			return zero, Leftover{}, false, nil
		}
		filled += n
	}
}
