// Package tfhe implements the gate bootstrapping parameter sets and secret
// key sets of the TFHE scheme, and the encryption of boolean messages as LWE
// samples. The bootstrapping procedure itself is provided by the callers of
// the TLWE and TGSW layers.
package tfhe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/core/tgsw"
	"github.com/tfhego/tfhe/utils/buffer"
)

// ParametersTag is the type tag of the text block of gate bootstrapping parameters.
const ParametersTag = "GATEBOOTSPARAMS"

// ParametersLiteral is a literal representation of a gate bootstrapping
// parameter set. The lvl2 fields are optional and must be given together.
type ParametersLiteral struct {
	KsT       int
	KsBasebit int
	InOut     lwe.ParametersLiteral
	TGsw      tgsw.ParametersLiteral

	KsTbar         int                     `json:",omitempty"`
	KsBasebitLvl21 int                     `json:",omitempty"`
	TGswLvl2       *tgsw.ParametersLiteral `json:",omitempty"`
}

// Parameters is a gate bootstrapping parameter set: the key switching
// decomposition, the LWE parameters of the input and output samples of the
// gates and the TGSW parameters of the bootstrapping key. An optional second
// level adds a TGSW parameter set over a 64-bit torus together with the
// decomposition of the key switching from level 2 to level 1.
type Parameters struct {
	ksT       int
	ksBasebit int
	inOut     *lwe.Parameters
	tgsw      *tgsw.Parameters

	ksTbar         int
	ksBasebitLvl21 int
	tgswLvl2       *tgsw.Parameters
}

// NewParameters returns a new gate bootstrapping parameter set, or an error
// if the parameters are invalid. The parameter set references inOut and
// tgswParams without owning them.
func NewParameters(ksT, ksBasebit int, inOut *lwe.Parameters, tgswParams *tgsw.Parameters) (*Parameters, error) {

	if inOut == nil || tgswParams == nil {
		return nil, fmt.Errorf("cannot NewParameters: lwe and tgsw parameters must not be nil")
	}

	if err := checkKeySwitch(ksT, ksBasebit, 32); err != nil {
		return nil, fmt.Errorf("cannot NewParameters: %w", err)
	}

	return &Parameters{ksT: ksT, ksBasebit: ksBasebit, inOut: inOut, tgsw: tgswParams}, nil
}

// WithLvl2 returns a copy of the parameter set with a second level: the TGSW
// parameters tgswLvl2 and the key switching decomposition from level 2 to level 1.
func (p Parameters) WithLvl2(ksTbar, ksBasebitLvl21 int, tgswLvl2 *tgsw.Parameters) (*Parameters, error) {

	if tgswLvl2 == nil {
		return nil, fmt.Errorf("cannot WithLvl2: lvl2 tgsw parameters must not be nil")
	}

	if err := checkKeySwitch(ksTbar, ksBasebitLvl21, 64); err != nil {
		return nil, fmt.Errorf("cannot WithLvl2: %w", err)
	}

	p.ksTbar, p.ksBasebitLvl21, p.tgswLvl2 = ksTbar, ksBasebitLvl21, tgswLvl2
	return &p, nil
}

func checkKeySwitch(t, basebit, w int) error {
	if t < 1 || basebit < 1 {
		return fmt.Errorf("key switching length t=%d and base bit %d must be at least 1", t, basebit)
	}
	if t*basebit > w {
		return fmt.Errorf("key switching decomposition t*basebit=%d exceeds %d bits", t*basebit, w)
	}
	return nil
}

// NewParametersFromLiteral instantiates a gate bootstrapping parameter set,
// and the LWE, TLWE and TGSW parameters it is built on, from a [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (params *Parameters, err error) {

	inOut, err := lwe.NewParametersFromLiteral(pl.InOut)
	if err != nil {
		return nil, err
	}

	tgswParams, err := tgsw.NewParametersFromLiteral(pl.TGsw)
	if err != nil {
		return nil, err
	}

	if params, err = NewParameters(pl.KsT, pl.KsBasebit, inOut, tgswParams); err != nil {
		return nil, err
	}

	if pl.TGswLvl2 == nil {
		if pl.KsTbar != 0 || pl.KsBasebitLvl21 != 0 {
			return nil, fmt.Errorf("cannot NewParametersFromLiteral: lvl2 key switching without lvl2 tgsw parameters")
		}
		return
	}

	tgswLvl2, err := tgsw.NewParametersFromLiteral(*pl.TGswLvl2)
	if err != nil {
		return nil, err
	}

	return params.WithLvl2(pl.KsTbar, pl.KsBasebitLvl21, tgswLvl2)
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	pl := ParametersLiteral{
		KsT:       p.ksT,
		KsBasebit: p.ksBasebit,
		InOut:     p.inOut.ParametersLiteral(),
		TGsw:      p.tgsw.ParametersLiteral(),
	}
	if p.tgswLvl2 != nil {
		lvl2 := p.tgswLvl2.ParametersLiteral()
		pl.KsTbar, pl.KsBasebitLvl21, pl.TGswLvl2 = p.ksTbar, p.ksBasebitLvl21, &lvl2
	}
	return pl
}

// KsT returns the number of digits of the key switching decomposition.
func (p Parameters) KsT() int {
	return p.ksT
}

// KsBasebit returns the log2 of the base of the key switching decomposition.
func (p Parameters) KsBasebit() int {
	return p.ksBasebit
}

// InOutParameters returns the LWE parameters of the samples encrypting bits.
func (p Parameters) InOutParameters() *lwe.Parameters {
	return p.inOut
}

// TGswParameters returns the TGSW parameters of the bootstrapping key.
func (p Parameters) TGswParameters() *tgsw.Parameters {
	return p.tgsw
}

// HasLvl2 returns true if the parameter set has a second level.
func (p Parameters) HasLvl2() bool {
	return p.tgswLvl2 != nil
}

// KsTbar returns the number of digits of the key switching from level 2 to level 1.
func (p Parameters) KsTbar() int {
	return p.ksTbar
}

// KsBasebitLvl21 returns the log2 of the base of the key switching from level 2 to level 1.
func (p Parameters) KsBasebitLvl21() int {
	return p.ksBasebitLvl21
}

// TGswParametersLvl2 returns the TGSW parameters of the second level, or nil.
func (p Parameters) TGswParametersLvl2() *tgsw.Parameters {
	return p.tgswLvl2
}

// Equal checks two Parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	if other == nil || p.HasLvl2() != other.HasLvl2() {
		return false
	}

	eq := p.ksT == other.ksT && p.ksBasebit == other.ksBasebit
	eq = eq && p.inOut.Equal(other.inOut) && p.tgsw.Equal(other.tgsw)

	if p.HasLvl2() {
		eq = eq && p.ksTbar == other.ksTbar && p.ksBasebitLvl21 == other.ksBasebitLvl21
		eq = eq && p.tgswLvl2.Equal(other.tgswLvl2)
	}

	return eq
}

// Properties returns the GATEBOOTSPARAMS text block of the parameter set.
// The lvl2 properties are present only if the set has a second level.
func (p Parameters) Properties() *codec.Properties {
	props := codec.NewProperties(ParametersTag)
	props.SetInt("ks_t", int64(p.ksT))
	props.SetInt("ks_basebit", int64(p.ksBasebit))
	if p.HasLvl2() {
		props.SetInt("ks_tbar", int64(p.ksTbar))
		props.SetInt("ks_basebitlvl21", int64(p.ksBasebitLvl21))
	}
	return props
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
func (p Parameters) BinarySize() (size int) {
	size = p.Properties().BinarySize() + p.inOut.BinarySize() + p.tgsw.BinarySize()
	if p.HasLvl2() {
		size += p.tgswLvl2.BinarySize()
	}
	return
}

// WriteTo writes the parameter set on w: the GATEBOOTSPARAMS text block,
// the LWE parameters, the TGSW parameters and, if present, the lvl2 TGSW parameters.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = p.Properties().WriteTo(w); err != nil {
			return n, fmt.Errorf("codec.Properties.WriteTo: %w", err)
		}

		var inc int64
		if inc, err = p.inOut.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("lwe.Parameters.WriteTo: %w", err)
		}
		n += inc

		if inc, err = p.tgsw.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("tgsw.Parameters.WriteTo: %w", err)
		}
		n += inc

		if p.HasLvl2() {
			if inc, err = p.tgswLvl2.WriteTo(w); err != nil {
				return n + inc, fmt.Errorf("tgsw.Parameters.WriteTo: %w", err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads a parameter set from r on the object. The LWE, TLWE and
// TGSW parameters it is built on are registered in [registry.Default].
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	return p.readFrom(r, registry.Default())
}

// ReadParameters reads a parameter set from r. The LWE, TLWE and TGSW
// parameters it is built on are registered in reg.
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

		props, n, err := codec.ReadProperties(r, ParametersTag)
		if err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		var ksT, ksBasebit int64
		if ksT, err = props.Int("ks_t"); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}
		if ksBasebit, err = props.Int("ks_basebit"); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		// Dependencies are registered once the whole set is validated
		deps := registry.New()

		inOut := new(lwe.Parameters)
		var inc int64
		if inc, err = inOut.ReadFrom(r); err != nil {
			return n + inc, err
		}
		n += inc
		deps.Register(inOut)

		tgswParams, inc, err := tgsw.ReadParameters(r, deps)
		if n += inc; err != nil {
			return n, err
		}
		deps.Register(tgswParams)

		params, err := NewParameters(int(ksT), int(ksBasebit), inOut, tgswParams)
		if err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		if props.Has("ks_tbar") {

			var ksTbar, ksBasebitLvl21 int64
			if ksTbar, err = props.Int("ks_tbar"); err != nil {
				return n, fmt.Errorf("cannot ReadFrom: %w", err)
			}
			if ksBasebitLvl21, err = props.Int("ks_basebitlvl21"); err != nil {
				return n, fmt.Errorf("cannot ReadFrom: %w", err)
			}

			tgswLvl2, inc, err := tgsw.ReadParameters(r, deps)
			if n += inc; err != nil {
				return n, err
			}
			deps.Register(tgswLvl2)

			if params, err = params.WithLvl2(int(ksTbar), int(ksBasebitLvl21), tgswLvl2); err != nil {
				return n, fmt.Errorf("cannot ReadFrom: %w", err)
			}
		}

		for _, obj := range deps.Objects() {
			reg.Register(obj)
		}

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
