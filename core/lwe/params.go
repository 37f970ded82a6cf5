// Package lwe implements the scalar LWE layer: parameters, binary secret keys,
// samples over the 32-bit and 64-bit torus, and their encryption, decryption
// and linear combinations.
package lwe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/utils/buffer"
)

// ParametersTag is the type tag of the text block of LWE parameters.
const ParametersTag = "LWEPARAMS"

// ParametersLiteral is a literal representation of LWE parameters. It has
// public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The [NewParametersFromLiteral] function is used
// to generate the actual checked parameters from the literal representation.
//
// AlphaLvl21 is the noise of the key switching from the 64-bit level and is
// optional.
type ParametersLiteral struct {
	N          int
	AlphaMin   float64
	AlphaMax   float64
	AlphaLvl21 float64 `json:",omitempty"`
}

// Parameters is a set of LWE parameters: the dimension n of the secret key
// and the bounds of the noise standard deviation of the samples. Its fields
// are private and immutable; a *Parameters is shared by every key and sample
// built on it.
type Parameters struct {
	n          int
	alphaMin   float64
	alphaMax   float64
	alphaLvl21 float64
}

// NewParameters returns a new set of LWE parameters of dimension n and noise
// bounds alphaMin and alphaMax, or an error if they are invalid.
func NewParameters(n int, alphaMin, alphaMax float64) (*Parameters, error) {
	return NewParametersFromLiteral(ParametersLiteral{N: n, AlphaMin: alphaMin, AlphaMax: alphaMax})
}

// NewParametersFromLiteral instantiates a set of LWE parameters from a
// [ParametersLiteral], or returns an error if it is invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (*Parameters, error) {

	if pl.N < 1 {
		return nil, fmt.Errorf("cannot NewParameters: n=%d must be at least 1", pl.N)
	}

	if err := CheckNoise(pl.AlphaMin, pl.AlphaMax, pl.AlphaLvl21); err != nil {
		return nil, fmt.Errorf("cannot NewParameters: %w", err)
	}

	return &Parameters{
		n:          pl.N,
		alphaMin:   pl.AlphaMin,
		alphaMax:   pl.AlphaMax,
		alphaLvl21: pl.AlphaLvl21,
	}, nil
}

// CheckNoise returns an error if the noise bounds are negative, not finite,
// or if alphaMin > alphaMax.
func CheckNoise(alphaMin, alphaMax, alphaLvl21 float64) error {
	for _, a := range []float64{alphaMin, alphaMax, alphaLvl21} {
		if a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("invalid noise standard deviation %v", a)
		}
	}
	if alphaMin > alphaMax {
		return fmt.Errorf("alpha_min=%v is larger than alpha_max=%v", alphaMin, alphaMax)
	}
	return nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		N:          p.n,
		AlphaMin:   p.alphaMin,
		AlphaMax:   p.alphaMax,
		AlphaLvl21: p.alphaLvl21,
	}
}

// N returns the dimension of the secret key.
func (p Parameters) N() int {
	return p.n
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

// Equal checks two Parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return other != nil && cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// Properties returns the text block of the parameters.
func (p Parameters) Properties() *codec.Properties {
	props := codec.NewProperties(ParametersTag)
	props.SetInt("n", int64(p.n))
	props.SetFloat("alpha_min", p.alphaMin)
	props.SetFloat("alpha_max", p.alphaMax)
	if p.alphaLvl21 != 0 {
		props.SetFloat("alpha_lvl21", p.alphaLvl21)
	}
	return props
}

// NewParametersFromProperties instantiates a set of LWE parameters from its text block.
func NewParametersFromProperties(props *codec.Properties) (*Parameters, error) {

	if props.Tag != ParametersTag {
		return nil, fmt.Errorf("%w: expected %s but read %s", codec.ErrTypeTag, ParametersTag, props.Tag)
	}

	n, err := props.Int("n")
	if err != nil {
		return nil, err
	}

	var pl = ParametersLiteral{N: int(n)}

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

// WriteTo writes the LWEPARAMS text block of the parameters on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	return p.Properties().WriteTo(w)
}

// ReadFrom reads a LWEPARAMS text block from r on the object.
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
