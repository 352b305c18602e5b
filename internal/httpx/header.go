package httpx

import (
	"errors"
	"fmt"

	"github.com/streamkit-go/respond"
)

// Header is the ingress-side alias for the core engine's headers
// container (respond.Header), so request parsing and response encoding
// share one implementation instead of two.
type Header = respond.Header

// CanonicalHeaderKey returns the canonical format of the HTTP header key,
// delegating to respond.CanonicalHeaderKey.
func CanonicalHeaderKey(s string) string {
	return respond.CanonicalHeaderKey(s)
}

// Sentinel errors for higher-level handling.
var (
	ErrInvalidFieldName    = errors.New("httpx: invalid header field name")
	ErrInvalidValue        = errors.New("httpx: invalid header value")
	ErrHeaderTooLarge      = errors.New("httpx: too many header fields")
	ErrKeyTooLarge         = errors.New("httpx: header key too long")
	ErrValueTooLarge       = errors.New("httpx: header value too long")
	ErrTotalValuesTooLarge = errors.New("httpx: total header values too large")
)

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

type HeaderLimits struct {
	MaxFields           int // maximum distinct header keys allowed
	MaxKeyBytes         int // maximum length of a single header field-name (bytes)
	MaxValueBytes       int // maximum length of a single header field-value (bytes)
	MaxTotalValuesBytes int // cap on sum of all value lengths (optional hard cap)
}

// isValidFieldName reports whether s is a valid HTTP header field name per RFC 7230 §3.2.6.
// Allowed characters: A–Z a–z 0–9 ! # $ % & ' * + - . ^ _ ` | ~
func isValidFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z',
			c >= 'a' && c <= 'z',
			c >= '0' && c <= '9',
			c == '!', c == '#', c == '$', c == '%', c == '&', c == '\'',
			c == '*', c == '+', c == '-', c == '.', c == '^', c == '_',
			c == '`', c == '|', c == '~':
			continue
		default:
			return false
		}
	}
	return true
}

// isValidValue checks that a value contains only printable ASCII or HTAB,
// per RFC 7230 §3.2.6 (no CTL except HTAB).
func isValidValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' {
			continue
		}
		if c < 32 || c == 127 {
			return false
		}
	}
	return true
}

// ValidateHeader enforces field counts, key/value size limits, and valid chars.
func ValidateHeader(h Header, lim HeaderLimits) error {
	if lim.MaxFields > 0 && len(h) > lim.MaxFields {
		return fmt.Errorf("%w: %d fields", ErrHeaderTooLarge, len(h))
	}

	totalBytes := 0
	for k, vals := range h {
		if !isValidFieldName(k) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldName, k)
		}
		if lim.MaxKeyBytes > 0 && len(k) > lim.MaxKeyBytes {
			return fmt.Errorf("%w: %s", ErrKeyTooLarge, k)
		}
		for _, v := range vals {
			if lim.MaxValueBytes > 0 && len(v) > lim.MaxValueBytes {
				return fmt.Errorf("%w: %s", ErrValueTooLarge, k)
			}
			if !isValidValue(v) {
				return fmt.Errorf("%w: %q", ErrInvalidValue, v)
			}
			totalBytes += len(v)
		}
	}
	if lim.MaxTotalValuesBytes > 0 && totalBytes > lim.MaxTotalValuesBytes {
		return fmt.Errorf("%w: %d bytes", ErrTotalValuesTooLarge, totalBytes)
	}
	return nil
}
