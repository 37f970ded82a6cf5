// Package tgsw implements the gadget layer: TGSW samples made of l*(k+1) TLWE
// samples encrypting the successive gadget-scaled copies of a message, the
// gadget decomposition of TLWE samples and the external product.
package tgsw

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/core/tlwe"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
)

// ParametersTag is the type tag of the text block of TGSW parameters.
const ParametersTag = "TGSWPARAMS"

// ParametersLiteral is a literal representation of TGSW parameters.
// See [NewParametersFromLiteral].
type ParametersLiteral struct {
	L     int
	Bgbit int
	TLwe  tlwe.ParametersLiteral
}

// Parameters is a set of TGSW parameters: the number l of digits and the
// base 2^Bgbit of the gadget decomposition, over a set of TLWE parameters.
// The gadget constants are derived at construction.
type Parameters struct {
	l      int
	bgbit  int
	tlwe   *tlwe.Parameters
	bg     int32
	halfBg int32
	kpl    int

	h32      []torus.Torus32
	offset32 uint32
	h64      []torus.Torus64
	offset64 uint64
}

// NewParameters returns a new set of TGSW parameters over tlweParams, or an
// error if they are invalid. The parameters reference tlweParams without
// owning it.
func NewParameters(l, Bgbit int, tlweParams *tlwe.Parameters) (p *Parameters, err error) {

	if tlweParams == nil {
		return nil, fmt.Errorf("cannot NewParameters: tlwe parameters are nil")
	}

	if l < 1 {
		return nil, fmt.Errorf("cannot NewParameters: l=%d must be at least 1", l)
	}

	if Bgbit < 1 || Bgbit > 30 {
		return nil, fmt.Errorf("cannot NewParameters: Bgbit=%d must be in [1, 30]", Bgbit)
	}

	if l*Bgbit > 64 {
		return nil, fmt.Errorf("cannot NewParameters: l*Bgbit=%d is larger than 64", l*Bgbit)
	}

	p = &Parameters{
		l:      l,
		bgbit:  Bgbit,
		tlwe:   tlweParams,
		bg:     1 << Bgbit,
		halfBg: 1 << (Bgbit - 1),
		kpl:    l * (tlweParams.K() + 1),
		h32:    make([]torus.Torus32, l),
		h64:    make([]torus.Torus64, l),
	}

	for i := 0; i < l; i++ {

		if shift := 32 - (i+1)*Bgbit; shift >= 0 {
			p.h32[i] = torus.Torus32(uint32(1) << shift)
			p.offset32 += uint32(p.halfBg) << shift
		}

		shift := 64 - (i+1)*Bgbit
		p.h64[i] = torus.Torus64(uint64(1) << shift)
		p.offset64 += uint64(p.halfBg) << shift
	}

	return
}

// NewParametersFromLiteral instantiates a set of TGSW parameters, and the
// TLWE parameters it is built on, from a [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (*Parameters, error) {
	tlweParams, err := tlwe.NewParametersFromLiteral(pl.TLwe)
	if err != nil {
		return nil, err
	}
	return NewParameters(pl.L, pl.Bgbit, tlweParams)
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{L: p.l, Bgbit: p.bgbit, TLwe: p.tlwe.ParametersLiteral()}
}

// L returns the number of digits of the decomposition.
func (p Parameters) L() int {
	return p.l
}

// Bgbit returns the log2 of the decomposition base.
func (p Parameters) Bgbit() int {
	return p.bgbit
}

// Bg returns the decomposition base.
func (p Parameters) Bg() int32 {
	return p.bg
}

// HalfBg returns half the decomposition base.
func (p Parameters) HalfBg() int32 {
	return p.halfBg
}

// MaskMod returns Bg-1.
func (p Parameters) MaskMod() int32 {
	return p.bg - 1
}

// KPL returns l*(k+1), the number of TLWE samples of a TGSW sample.
func (p Parameters) KPL() int {
	return p.kpl
}

// TLweParameters returns the TLWE parameters of the rows of the samples.
func (p Parameters) TLweParameters() *tlwe.Parameters {
	return p.tlwe
}

// H returns the gadget 2^(32-(i+1)*Bgbit) for i in [0, l). Entries whose
// exponent is negative are zero.
func (p Parameters) H() []torus.Torus32 {
	return append([]torus.Torus32{}, p.h32...)
}

// H64 returns the gadget 2^(64-(i+1)*Bgbit) for i in [0, l).
func (p Parameters) H64() []torus.Torus64 {
	return append([]torus.Torus64{}, p.h64...)
}

// Offset returns sum halfBg*H()[i], the offset that centers the digits of the decomposition.
func (p Parameters) Offset() uint32 {
	return p.offset32
}

// Offset64 is the 64-bit counterpart of [Parameters.Offset].
func (p Parameters) Offset64() uint64 {
	return p.offset64
}

// gadget returns the gadget vector and the decomposition offset over the torus T.
func gadget[T torus.Torus](p *Parameters) (h []T, offset uint64) {
	var t T
	switch any(t).(type) {
	case torus.Torus32:
		if p.l*p.bgbit > 32 {
			panic(fmt.Errorf("gadget decomposition of depth l*Bgbit=%d does not fit on the 32-bit torus", p.l*p.bgbit))
		}
		return any(p.h32).([]T), uint64(p.offset32)
	default:
		return any(p.h64).([]T), p.offset64
	}
}

// Equal checks two Parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return other != nil && p.l == other.l && p.bgbit == other.bgbit && p.tlwe.Equal(other.tlwe)
}

// Properties returns the TGSWPARAMS text block of the parameters, which
// does not include the TLWE parameters.
func (p Parameters) Properties() *codec.Properties {
	props := codec.NewProperties(ParametersTag)
	props.SetInt("l", int64(p.l))
	props.SetInt("Bgbit", int64(p.bgbit))
	return props
}

// NewParametersFromProperties instantiates a set of TGSW parameters over
// tlweParams from its TGSWPARAMS text block.
func NewParametersFromProperties(props *codec.Properties, tlweParams *tlwe.Parameters) (*Parameters, error) {

	if props.Tag != ParametersTag {
		return nil, fmt.Errorf("%w: expected %s but read %s", codec.ErrTypeTag, ParametersTag, props.Tag)
	}

	l, err := props.Int("l")
	if err != nil {
		return nil, err
	}

	Bgbit, err := props.Int("Bgbit")
	if err != nil {
		return nil, err
	}

	return NewParameters(int(l), int(Bgbit), tlweParams)
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
	return p.tlwe.BinarySize() + p.Properties().BinarySize()
}

// WriteTo writes the TLWEPARAMS text block of the TLWE parameters followed
// by the TGSWPARAMS text block on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = p.tlwe.WriteTo(w); err != nil {
			return n, fmt.Errorf("tlwe.Parameters.WriteTo: %w", err)
		}

		var inc int64
		if inc, err = p.Properties().WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("codec.Properties.WriteTo: %w", err)
		}

		return n + inc, nil

	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads TGSW parameters from r on the object. The TLWE parameters
// they are built on are read from the stream and registered in [registry.Default].
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	return p.readFrom(r, registry.Default())
}

// ReadParameters reads TGSW parameters from r. The TLWE parameters they are
// built on are read from the stream and registered in reg.
func ReadParameters(r io.Reader, reg *registry.Registry) (p *Parameters, n int64, err error) {
	p = new(Parameters)
	if n, err = p.readFrom(r, reg); err != nil {
		return nil, n, err
	}
	return
}

func (p *Parameters) readFrom(r io.Reader, reg *registry.Registry) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		tlweParams := new(tlwe.Parameters)
		if n, err = tlweParams.ReadFrom(r); err != nil {
			return
		}

		props, inc, err := codec.ReadProperties(r, ParametersTag)
		n += inc
		if err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		params, err := NewParametersFromProperties(props, tlweParams)
		if err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		reg.Register(tlweParams)
		*p = *params

		return n, nil

	default:
		return p.readFrom(bufio.NewReader(r), reg)
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
