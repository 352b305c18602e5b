package respond

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderBody_KnownLength(t *testing.T) {
	length := uint64(11)
	b := NewReaderBody(strings.NewReader("hello world"), &length)

	clen, ok := b.ContentLength()
	require.True(t, ok)
	require.Equal(t, uint64(11), clen)

	var got []byte
	for {
		chunk, err := b.Next(context.Background())
		require.NoError(t, err)
		if chunk.Done {
			break
		}
		got = append(got, chunk.Piece.Bytes()...)
	}
	require.Equal(t, "hello world", string(got))
	require.True(t, b.EOF())
}

func TestReaderBody_UnknownLength(t *testing.T) {
	b := NewReaderBody(strings.NewReader("x"), nil)
	_, ok := b.ContentLength()
	require.False(t, ok)
}

func TestReaderBody_PooledBufferReusedAcrossWindows(t *testing.T) {
	length := uint64(6)
	b := NewReaderBody(strings.NewReader("abcdef"), &length)
	b.chunkSize = 2

	var got []byte
	for {
		chunk, err := b.Next(context.Background())
		require.NoError(t, err)
		if chunk.Done {
			break
		}
		got = append(got, chunk.Piece.Bytes()...)
	}
	require.Equal(t, "abcdef", string(got))
}

func TestNewPooledPiece_CopiesAndReleases(t *testing.T) {
	src := []byte("borrowed")
	piece, release := NewPooledPiece(src)
	require.Equal(t, "borrowed", string(piece.Bytes()))

	// Mutating src afterward must not affect the piece: NewPooledPiece
	// copies into the pooled buffer rather than aliasing src.
	src[0] = 'X'
	require.Equal(t, "borrowed", string(piece.Bytes()))

	release()
}
