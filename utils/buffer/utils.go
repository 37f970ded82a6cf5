package buffer

import (
	"bufio"
	"bytes"
	"encoding"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// Serializer is the set of methods implemented by every serializable object
// of this module. Equal is used to compare an object with its deserialized copy.
type Serializer[T any] interface {
	BinarySize() int
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Equal(other T) bool
}

// RequireSerializerCorrect checks that input correctly serializes and deserializes
// into output through WriteTo/ReadFrom, through a plain io.Writer/io.Reader pair and
// through MarshalBinary/UnmarshalBinary. output must be allocated with the
// dimensions of input when its type cannot be deserialized from scratch.
func RequireSerializerCorrect[T Serializer[T]](t *testing.T, input, output T) {

	size := input.BinarySize()

	// Fixed size buffer
	buf := NewBufferSize(size)

	n, err := input.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(size), n)

	n, err = output.ReadFrom(NewBuffer(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.True(t, input.Equal(output))

	// Plain io.Writer and io.Reader
	var stream bytes.Buffer
	n, err = input.WriteTo(&stream)
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.Equal(t, buf.Bytes(), stream.Bytes())

	n, err = output.ReadFrom(bufio.NewReader(&stream))
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.True(t, input.Equal(output))

	// MarshalBinary and UnmarshalBinary
	data, err := input.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), data)

	require.NoError(t, output.UnmarshalBinary(data))
	require.True(t, input.Equal(output))
}
