package httpx

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/streamkit-go/respond"
)

func mustEqual(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("mismatch:\n--- got ---\n%q\n--- want ---\n%q", got, want)
	}
}

func TestEncoder1_FixedLengthResponse(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder1(context.Background(), &buf)

	h := Header{}
	h.Set("Content-Type", "text/plain")
	h.Set("Content-Length", "11")
	if err := enc.WriteResponse(context.Background(), respond.Response{Status: 200, Header: h}); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyChunk(context.Background(), respond.PieceFromString("hello world")); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyEnd(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("bad status line: %q", got)
	}
	if !strings.Contains(got, "Content-Type: text/plain\r\n") {
		t.Fatalf("missing Content-Type header in:\n%s", got)
	}
	if !strings.Contains(got, "Content-Length: 11\r\n") {
		t.Fatalf("missing Content-Length header in:\n%s", got)
	}
	if !strings.HasSuffix(got, "\r\n\r\nhello world") {
		t.Fatalf("body missing or malformed, got:\n%s", got)
	}
}

func TestEncoder1_ChunkedResponse(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder1(context.Background(), &buf)

	h := Header{}
	h.Set("Transfer-Encoding", "chunked")
	if err := enc.WriteResponse(context.Background(), respond.Response{Status: 200, Header: h}); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyChunk(context.Background(), respond.PieceFromString("Wiki")); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyChunk(context.Background(), respond.PieceFromString("pedia")); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyEnd(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	want := "" +
		"HTTP/1.1 200 OK\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"\r\n" +
		"4\r\nWiki\r\n" +
		"5\r\npedia\r\n" +
		"0\r\n\r\n"
	mustEqual(t, buf.String(), want)
}

func TestEncoder1_ChunkedResponseWithTrailers(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder1(context.Background(), &buf)

	h := Header{}
	h.Set("Transfer-Encoding", "chunked")
	if err := enc.WriteResponse(context.Background(), respond.Response{Status: 200, Header: h}); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyChunk(context.Background(), respond.PieceFromString("ok")); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyEnd(context.Background()); err != nil {
		t.Fatal(err)
	}
	trailers := Header{}
	trailers.Set("X-Checksum", "deadbeef")
	if err := enc.WriteTrailers(context.Background(), trailers); err != nil {
		t.Fatal(err)
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	want := "" +
		"HTTP/1.1 200 OK\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"\r\n" +
		"2\r\nok\r\n" +
		"0\r\n" +
		"X-Checksum: deadbeef\r\n" +
		"\r\n"
	mustEqual(t, buf.String(), want)
}

func TestEncoder1_TrailersRejectedOnFixedLengthBody(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder1(context.Background(), &buf)

	h := Header{}
	h.Set("Content-Length", "2")
	if err := enc.WriteResponse(context.Background(), respond.Response{Status: 200, Header: h}); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyChunk(context.Background(), respond.PieceFromString("ok")); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyEnd(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := enc.WriteTrailers(context.Background(), Header{})
	if !errors.Is(err, errTrailersNotChunked) {
		t.Fatalf("expected errTrailersNotChunked, got %v", err)
	}
}

func TestEncoder1_UntilCloseResponse(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder1(context.Background(), &buf)

	h := Header{}
	h.Set("Content-Type", "text/plain")
	if err := enc.WriteResponse(context.Background(), respond.Response{Status: 200, Header: h}); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyChunk(context.Background(), respond.PieceFromString("abc")); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteBodyEnd(context.Background()); err != nil {
		t.Fatal(err)
	}

	wantPrefix := "" +
		"HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n"
	got := buf.String()
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("headers mismatch:\n--- got ---\n%q\n--- want prefix ---\n%q", got, wantPrefix)
	}
	if got[len(wantPrefix):] != "abc" {
		t.Fatalf("body mismatch: got %q, want %q", got[len(wantPrefix):], "abc")
	}
}

func TestEncoder1_ContextCanceledBeforeWrite(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := NewEncoder1(ctx, &buf)

	err := enc.WriteResponse(context.Background(), respond.Response{Status: 200, Header: Header{}})
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
	if ctx.Err() == nil {
		t.Fatalf("expected ctx.Err() to be non-nil")
	}
}
