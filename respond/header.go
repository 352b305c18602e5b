package respond

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Header is a name-to-values multimap, keyed by canonical header name.
// Name comparison is case-insensitive; insertion order is not observable
// here, since on-wire order is an Encoder decision.
type Header map[string][]string

// CanonicalHeaderKey returns the canonical format of the HTTP header key:
// the first letter and each letter after a hyphen upper-cased, the rest
// lower-cased, as textproto.CanonicalMIMEHeaderKey does for valid field
// names. Unlike the stdlib, keys containing invalid bytes (such as a
// space) are canonicalized too rather than returned unchanged.
func CanonicalHeaderKey(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, "-")
}

// Add appends a value to the header key, canonicalizing the key first.
func (h Header) Add(key, value string) {
	k := CanonicalHeaderKey(key)
	h[k] = append(h[k], value)
}

// Set replaces any existing values for key with a single value.
func (h Header) Set(key, value string) {
	k := CanonicalHeaderKey(key)
	h[k] = []string{value}
}

// Get returns the first value associated with key, or "" if none.
func (h Header) Get(key string) string {
	k := CanonicalHeaderKey(key)
	if v, ok := h[k]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns all values associated with key (the original slice, not
// a copy).
func (h Header) Values(key string) []string {
	return h[CanonicalHeaderKey(key)]
}

// Del deletes the header key (case-insensitive).
func (h Header) Del(key string) {
	delete(h, CanonicalHeaderKey(key))
}

// Has reports whether key has at least one value.
func (h Header) Has(key string) bool {
	v, ok := h[CanonicalHeaderKey(key)]
	return ok && len(v) > 0
}

// SetIfAbsent sets key to value only if it has no existing values, and
// reports whether it made the change. This is the entry-or-insert
// primitive behind the automatic Content-Length header.
func (h Header) SetIfAbsent(key, value string) bool {
	k := CanonicalHeaderKey(key)
	if v, ok := h[k]; ok && len(v) > 0 {
		return false
	}
	h[k] = []string{value}
	return true
}

// ContentLength parses the Content-Length header as an unsigned 64-bit
// integer. It reports ok=false if the header is absent, empty, or not a
// valid non-negative integer.
func (h Header) ContentLength() (n uint64, ok bool) {
	v := h.Get("Content-Length")
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Write serializes headers to wire format: "Key: Value\r\n...".
func (h Header) Write(w io.Writer) error {
	for k, vals := range h {
		for _, v := range vals {
			if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
