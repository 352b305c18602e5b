package respond

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind discriminates the taxonomy of errors a Responder can return.
type Kind int

const (
	// KindInterimStatus means an interim response did not carry a 1xx
	// status code.
	KindInterimStatus Kind = iota

	// KindFinalStatus means a final response carried a status code below
	// 200.
	KindFinalStatus

	// KindContentLengthMismatch means the bytes written to the body did
	// not match the announced Content-Length.
	KindContentLengthMismatch

	// KindEncoder means the underlying Encoder failed; the original
	// error is reachable via errors.Is/errors.As (Unwrap yields it
	// wrapped with a stack trace).
	KindEncoder
)

func (k Kind) String() string {
	switch k {
	case KindInterimStatus:
		return "interim-status"
	case KindFinalStatus:
		return "final-status"
	case KindContentLengthMismatch:
		return "content-length-mismatch"
	case KindEncoder:
		return "encoder"
	default:
		return "unknown"
	}
}

// ResponderError is the error type returned by every Responder operation.
type ResponderError struct {
	Kind Kind

	// ActualStatus is set for KindInterimStatus and KindFinalStatus.
	ActualStatus int

	// Announced and Actual are set for KindContentLengthMismatch.
	Announced uint64
	Actual    uint64

	// cause is set for KindEncoder; it always wraps the caller's error
	// with a captured stack (via github.com/pkg/errors) at the point it
	// crossed into the Responder.
	cause error
}

func (e *ResponderError) Error() string {
	switch e.Kind {
	case KindInterimStatus:
		return fmt.Sprintf("interim response must have status code 1xx, got %d", e.ActualStatus)
	case KindFinalStatus:
		return fmt.Sprintf("final response must have status code >= 200, got %d", e.ActualStatus)
	case KindContentLengthMismatch:
		return fmt.Sprintf("content-length mismatch: announced=%d actual=%d", e.Announced, e.Actual)
	case KindEncoder:
		return fmt.Sprintf("encoder error: %s", e.cause)
	default:
		return "responder: unknown error"
	}
}

// Unwrap exposes the underlying encoder error, if any, for errors.Is/As.
func (e *ResponderError) Unwrap() error {
	return e.cause
}

func errInterimStatus(actual int) error {
	return &ResponderError{Kind: KindInterimStatus, ActualStatus: actual}
}

func errFinalStatus(actual int) error {
	return &ResponderError{Kind: KindFinalStatus, ActualStatus: actual}
}

func errContentLengthMismatch(announced, actual uint64) error {
	return &ResponderError{Kind: KindContentLengthMismatch, Announced: announced, Actual: actual}
}

func errEncoder(cause error) error {
	return &ResponderError{Kind: KindEncoder, cause: errors.WithStack(cause)}
}

// ReadAndParseKind discriminates the read-and-parse driver's error
// taxonomy (spec §4.7/§7).
type ReadAndParseKind int

const (
	RPKindAlloc ReadAndParseKind = iota
	RPKindReadError
	RPKindBufferLimitReached
	RPKindParsingError
)

func (k ReadAndParseKind) String() string {
	switch k {
	case RPKindAlloc:
		return "alloc"
	case RPKindReadError:
		return "read-error"
	case RPKindBufferLimitReached:
		return "buffer-limit-reached-while-parsing"
	case RPKindParsingError:
		return "parsing-error"
	default:
		return "unknown"
	}
}

// ReadAndParseError is returned by ReadAndParse.
type ReadAndParseError struct {
	Kind  ReadAndParseKind
	Limit int // set for RPKindBufferLimitReached
	cause error
}

func (e *ReadAndParseError) Error() string {
	switch e.Kind {
	case RPKindAlloc:
		return fmt.Sprintf("buffer allocation failed: %s", e.cause)
	case RPKindReadError:
		return fmt.Sprintf("read error: %s", e.cause)
	case RPKindBufferLimitReached:
		return fmt.Sprintf("buffer limit reached while parsing: limit=%d", e.Limit)
	case RPKindParsingError:
		// Intentionally no parser detail: preserves attack-surface
		// hygiene by not leaking positions or fragments.
		return "parsing error"
	default:
		return "read-and-parse: unknown error"
	}
}

func (e *ReadAndParseError) Unwrap() error {
	return e.cause
}

func rpErrAlloc(cause error) error {
	return &ReadAndParseError{Kind: RPKindAlloc, cause: errors.WithStack(cause)}
}

func rpErrRead(cause error) error {
	return &ReadAndParseError{Kind: RPKindReadError, cause: errors.WithStack(cause)}
}

func rpErrBufferLimit(limit int) error {
	return &ReadAndParseError{Kind: RPKindBufferLimitReached, Limit: limit}
}

func rpErrParsing() error {
	return &ReadAndParseError{Kind: RPKindParsingError}
}
