package codec

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhego/tfhe/utils/buffer"
)

func TestTypeUID(t *testing.T) {

	t.Run("WriteAndRead", func(t *testing.T) {
		buf := buffer.NewBufferSize(4)
		n, err := WriteTypeUID(buf, TGswKeyUID)
		require.NoError(t, err)
		require.Equal(t, int64(4), n)
		require.Equal(t, []byte{49, 0, 0, 0}, buf.Bytes())

		n, err = ReadTypeUID(buffer.NewBuffer(buf.Bytes()), TGswKeyUID)
		require.NoError(t, err)
		require.Equal(t, int64(4), n)
	})

	t.Run("Mismatch", func(t *testing.T) {
		_, err := ReadTypeUID(buffer.NewBuffer([]byte{42, 0, 0, 0}), LweKeyUID)
		require.True(t, errors.Is(err, ErrTypeUID))
		require.Contains(t, err.Error(), "LWE_SAMPLE")
	})

	t.Run("Lvl2", func(t *testing.T) {
		require.Equal(t, int32(62), int32(LweSampleLvl2UID))
		require.Equal(t, int32(64), int32(TLweSampleLvl2UID))
		require.Equal(t, int32(67), int32(TGswSampleLvl2UID))
		require.Equal(t, "TypeUID(7)", TypeUID(7).String())
	})
}

func TestProperties(t *testing.T) {

	t.Run("Format", func(t *testing.T) {
		p := NewProperties("LWEPARAMS")
		p.SetInt("n", 500)
		p.SetFloat("alpha_min", 0.25)
		require.Equal(t, "-----BEGIN LWEPARAMS-----\nn = 500\nalpha_min = 0.25\n-----END LWEPARAMS-----\n", p.String())
		require.Equal(t, len(p.String()), p.BinarySize())
		require.Equal(t, []string{"n", "alpha_min"}, p.Names())
	})

	t.Run("WriteAndRead", func(t *testing.T) {

		p := NewProperties("TLWEPARAMS")
		p.SetInt("N", 1024)
		p.SetInt("k", -1)
		p.SetFloat("alpha_min", math.Pow(2, -25))
		p.SetFloat("alpha_max", 0.1+0.2)

		var stream bytes.Buffer
		n, err := p.WriteTo(&stream)
		require.NoError(t, err)
		require.Equal(t, int64(p.BinarySize()), n)

		// Two consecutive blocks on the same stream
		n2, err := p.WriteTo(&stream)
		require.NoError(t, err)

		r := bufio.NewReader(&stream)

		for i := 0; i < 2; i++ {
			q, m, err := ReadProperties(r, "TLWEPARAMS")
			require.NoError(t, err)
			require.Equal(t, n2, m)

			N, err := q.Int("N")
			require.NoError(t, err)
			require.Equal(t, int64(1024), N)

			k, err := q.Int("k")
			require.NoError(t, err)
			require.Equal(t, int64(-1), k)

			a, err := q.Float("alpha_min")
			require.NoError(t, err)
			require.Equal(t, math.Pow(2, -25), a)

			a, err = q.Float("alpha_max")
			require.NoError(t, err)
			require.Equal(t, 0.1+0.2, a)

			require.False(t, q.Has("alpha_lvl21"))
		}
	})

	t.Run("BlankLines", func(t *testing.T) {
		r := bufio.NewReader(strings.NewReader("\n\r\n-----BEGIN X-----\r\na= 1\n-----END X-----\n"))
		p, _, err := ReadProperties(r, "X")
		require.NoError(t, err)
		a, err := p.Int("a")
		require.NoError(t, err)
		require.Equal(t, int64(1), a)
	})

	t.Run("Errors", func(t *testing.T) {

		read := func(s, tag string) error {
			_, _, err := ReadProperties(bufio.NewReader(strings.NewReader(s)), tag)
			return err
		}

		require.True(t, errors.Is(read("-----BEGIN LWEPARAMS-----\n-----END LWEPARAMS-----\n", "TLWEPARAMS"), ErrTypeTag))
		require.True(t, errors.Is(read("LWEPARAMS\n", "LWEPARAMS"), ErrMalformed))
		require.True(t, errors.Is(read("LWEPARAMS-----\nn = 1\n-----END LWEPARAMS-----\n", "LWEPARAMS"), ErrMalformed))
		require.True(t, errors.Is(read("-----BEGIN LWEPARAMS\nn = 1\n-----END LWEPARAMS-----\n", "LWEPARAMS"), ErrMalformed))
		require.True(t, errors.Is(read("-----BEGIN X-----\nn 1\n-----END X-----\n", "X"), ErrMalformed))
		require.True(t, errors.Is(read("-----BEGIN X-----\nn = 1\n", "X"), ErrMalformed))
		require.True(t, errors.Is(read("", "X"), ErrMalformed))
		require.True(t, errors.Is(read(strings.Repeat("a", maxLineLength+1)+"\n", "X"), ErrMalformed))

		p := NewProperties("X")
		p.SetFloat("f", 1.5)
		_, err := p.Int("f")
		require.True(t, errors.Is(err, ErrMalformed))
		_, err = p.Float("g")
		require.True(t, errors.Is(err, ErrMalformed))
	})
}

func TestFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "params.txt")

	p := NewProperties("GATEBOOTSPARAMS")
	p.SetInt("ks_t", 8)
	p.SetInt("ks_basebit", 2)

	require.NoError(t, ExportToFile(path, p))

	q := &propertiesReader{tag: "GATEBOOTSPARAMS"}
	require.NoError(t, ImportFromFile(path, q))
	require.Equal(t, p.String(), q.p.String())

	require.Error(t, ImportFromFile(filepath.Join(t.TempDir(), "missing"), q))
	require.True(t, errors.Is(ImportFromFile(path, &propertiesReader{tag: "LWEPARAMS"}), ErrTypeTag))
}

type propertiesReader struct {
	tag string
	p   *Properties
}

func (pr *propertiesReader) ReadFrom(r io.Reader) (n int64, err error) {
	pr.p, n, err = ReadProperties(bufio.NewReader(r), pr.tag)
	return
}
