package respond

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// bufReader adapts a plain io.Reader into the Reader interface ReadAndParse
// expects, so tests can drive it with bytes.Reader/bytes.Buffer directly.
type bufReader struct {
	r io.Reader
}

func (b bufReader) Read(ctx context.Context, p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

// failReader errors on every Read, used to prove a ReadAndParse call never
// touched the stream because it was satisfied entirely from carry.
type failReader struct{}

func (failReader) Read(p []byte) (int, error) {
	return 0, errors.New("unexpected read")
}

// lineParser treats "\n" as the message terminator, returning everything
// before it.
func lineParser(buf []byte) (rest []byte, out string, incomplete bool, err error) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return nil, "", true, nil
	}
	return buf[i+1:], string(buf[:i]), false, nil
}

func TestReadAndParse_Success(t *testing.T) {
	out, _, ok, err := ReadAndParse[string](context.Background(), lineParser, bufReader{r: bytes.NewBufferString("hello\n")}, 4096, Leftover{})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", out)
}

// P6 — empty transport + empty buffer -> clean end-of-stream, not an error.
func TestReadAndParse_CleanEOF(t *testing.T) {
	_, _, ok, err := ReadAndParse[string](context.Background(), lineParser, bufReader{r: bytes.NewReader(nil)}, 4096, Leftover{})
	require.NoError(t, err)
	require.False(t, ok)
}

// P6 — empty transport + non-empty buffer -> unexpected EOF.
func TestReadAndParse_UnexpectedEOF(t *testing.T) {
	_, _, ok, err := ReadAndParse[string](context.Background(), lineParser, bufReader{r: bytes.NewBufferString("partial, no newline")}, 4096, Leftover{})
	require.Error(t, err)
	require.False(t, ok)
	var rpErr *ReadAndParseError
	require.True(t, errors.As(err, &rpErr))
	require.Equal(t, RPKindReadError, rpErr.Kind)
}

// P6 — input larger than max_len with parser still incomplete.
func TestReadAndParse_BufferLimitReached(t *testing.T) {
	big := bytes.Repeat([]byte("a"), 100)
	_, _, ok, err := ReadAndParse[string](context.Background(), lineParser, bufReader{r: bytes.NewReader(big)}, 32, Leftover{})
	require.Error(t, err)
	require.False(t, ok)
	var rpErr *ReadAndParseError
	require.True(t, errors.As(err, &rpErr))
	require.Equal(t, RPKindBufferLimitReached, rpErr.Kind)
	require.Equal(t, 32, rpErr.Limit)
}

func TestReadAndParse_ParsingError(t *testing.T) {
	failParser := func(buf []byte) (rest []byte, out string, incomplete bool, err error) {
		return nil, "", false, errors.New("nope")
	}
	_, _, ok, err := ReadAndParse[string](context.Background(), failParser, bufReader{r: bytes.NewBufferString("x")}, 4096, Leftover{})
	require.Error(t, err)
	require.False(t, ok)
	var rpErr *ReadAndParseError
	require.True(t, errors.As(err, &rpErr))
	require.Equal(t, RPKindParsingError, rpErr.Kind)
	require.NotContains(t, err.Error(), "nope")
}

// §4.7 step (b): the unconsumed rest of a successful parse must survive
// into the next call, so a pipelined second message already read off the
// wire isn't silently dropped.
func TestReadAndParse_LeftoverFeedsNextParse(t *testing.T) {
	stream := bufReader{r: bytes.NewBufferString("first\nsecond\n")}

	out1, leftover, ok, err := ReadAndParse[string](context.Background(), lineParser, stream, 4096, Leftover{})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "first", out1)
	require.Equal(t, "second\n", string(leftover.Bytes()))

	// A stream that errors on any Read proves the second message is parsed
	// entirely out of the carried-forward leftover, with no further read.
	out2, trailing, ok, err := ReadAndParse[string](context.Background(), lineParser, bufReader{r: failReader{}}, 4096, leftover)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", out2)
	require.True(t, trailing.Empty())
}
