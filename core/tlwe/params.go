// Package tlwe implements the ring LWE layer over Z[X]/(X^N+1) with torus
// coefficients: parameters, keys made of k binary polynomials, samples made
// of k mask polynomials and a body, their FFT representation, and the
// extraction of LWE samples and keys.
package tlwe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/utils"
	"github.com/tfhego/tfhe/utils/buffer"
)

// ParametersTag is the type tag of the text block of TLWE parameters.
const ParametersTag = "TLWEPARAMS"

// ParametersLiteral is a literal representation of TLWE parameters.
// See [NewParametersFromLiteral].
type ParametersLiteral struct {
	N          int
	K          int
	AlphaMin   float64
	AlphaMax   float64
	AlphaLvl21 float64 `json:",omitempty"`
}

// Parameters is a set of TLWE parameters: the degree N of the ring, the
// number k of mask polynomials and the bounds of the noise standard
// deviation. It owns the LWE parameters of the samples extracted from its
// TLWE samples.
type Parameters struct {
	n          int
	k          int
	alphaMin   float64
	alphaMax   float64
	alphaLvl21 float64
	extracted  *lwe.Parameters
}

// NewParameters returns a new set of TLWE parameters, or an error if they
// are invalid. N must be a power of two and k at least 1.
func NewParameters(N, k int, alphaMin, alphaMax float64) (*Parameters, error) {
	return NewParametersFromLiteral(ParametersLiteral{N: N, K: k, AlphaMin: alphaMin, AlphaMax: alphaMax})
}

// NewParametersFromLiteral instantiates a set of TLWE parameters from a
// [ParametersLiteral], or returns an error if it is invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (params *Parameters, err error) {

	if pl.N < 2 || !utils.IsPowerOfTwo(pl.N) {
		return nil, fmt.Errorf("cannot NewParameters: N=%d must be a power of two greater or equal to 2", pl.N)
	}

	if pl.K < 1 {
		return nil, fmt.Errorf("cannot NewParameters: k=%d must be at least 1", pl.K)
	}

	params = &Parameters{
		n:          pl.N,
		k:          pl.K,
		alphaMin:   pl.AlphaMin,
		alphaMax:   pl.AlphaMax,
		alphaLvl21: pl.AlphaLvl21,
	}

	if params.extracted, err = lwe.NewParametersFromLiteral(lwe.ParametersLiteral{
		N:          pl.K * pl.N,
		AlphaMin:   pl.AlphaMin,
		AlphaMax:   pl.AlphaMax,
		AlphaLvl21: pl.AlphaLvl21,
	}); err != nil {
		return nil, fmt.Errorf("cannot NewParameters: %w", err)
	}

	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		N:          p.n,
		K:          p.k,
		AlphaMin:   p.alphaMin,
		AlphaMax:   p.alphaMax,
		AlphaLvl21: p.alphaLvl21,
	}
}

// N returns the degree of the ring.
func (p Parameters) N() int {
	return p.n
}

// K returns the number of mask polynomials of a sample.
func (p Parameters) K() int {
	return p.k
}

// AlphaMin returns the smallest noise standard deviation that keeps the samples secure.
func (p Parameters) AlphaMin() float64 {
	return p.alphaMin
}

// AlphaMax returns the largest noise standard deviation that keeps the samples decryptable.
func (p Parameters) AlphaMax() float64 {
	return p.alphaMax
}

// AlphaLvl21 returns the noise standard deviation of the key switching from
// the 64-bit level, or zero if it is not set.
func (p Parameters) AlphaLvl21() float64 {
	return p.alphaLvl21
}

// Extracted returns the LWE parameters of dimension k*N of the extracted samples.
func (p Parameters) Extracted() *lwe.Parameters {
	return p.extracted
}

// Equal checks two Parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return other != nil && cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// Properties returns the text block of the parameters.
func (p Parameters) Properties() *codec.Properties {
	props := codec.NewProperties(ParametersTag)
	props.SetInt("N", int64(p.n))
	props.SetInt("k", int64(p.k))
	props.SetFloat("alpha_min", p.alphaMin)
	props.SetFloat("alpha_max", p.alphaMax)
	if p.alphaLvl21 != 0 {
		props.SetFloat("alpha_lvl21", p.alphaLvl21)
	}
	return props
}

// NewParametersFromProperties instantiates a set of TLWE parameters from its text block.
func NewParametersFromProperties(props *codec.Properties) (*Parameters, error) {

	if props.Tag != ParametersTag {
		return nil, fmt.Errorf("%w: expected %s but read %s", codec.ErrTypeTag, ParametersTag, props.Tag)
	}

	var pl ParametersLiteral

	N, err := props.Int("N")
	if err != nil {
		return nil, err
	}

	k, err := props.Int("k")
	if err != nil {
		return nil, err
	}

	pl.N, pl.K = int(N), int(k)

	if pl.AlphaMin, err = props.Float("alpha_min"); err != nil {
		return nil, err
	}

	if pl.AlphaMax, err = props.Float("alpha_max"); err != nil {
		return nil, err
	}

	if props.Has("alpha_lvl21") {
		if pl.AlphaLvl21, err = props.Float("alpha_lvl21"); err != nil {
			return nil, err
		}
	}

	return NewParametersFromLiteral(pl)
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return
	}
	params, err := NewParametersFromLiteral(pl)
	if err != nil {
		return
	}
	*p = *params
	return
}

// BinarySize returns the serialized size of the object in bytes.
func (p Parameters) BinarySize() int {
	return p.Properties().BinarySize()
}

// WriteTo writes the TLWEPARAMS text block of the parameters on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	return p.Properties().WriteTo(w)
}

// ReadFrom reads a TLWEPARAMS text block from r on the object.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var props *codec.Properties
		if props, n, err = codec.ReadProperties(r, ParametersTag); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		var params *Parameters
		if params, err = NewParametersFromProperties(props); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		*p = *params

		return

	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p Parameters) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Parameters.MarshalBinary] or [Parameters.WriteTo] on the object.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}
