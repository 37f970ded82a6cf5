package tfhe

import (
	"math"

	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/core/tgsw"
	"github.com/tfhego/tfhe/core/tlwe"
)

// maxStdev is the largest noise standard deviation a gate input can carry
// while still being correctly bootstrapped.
const maxStdev = 0.012467

var (
	// DefaultParameters80 is the gate bootstrapping parameter set with n=500
	// and N=1024, offering 80 bits of security.
	DefaultParameters80 = ParametersLiteral{
		KsT:       8,
		KsBasebit: 2,
		InOut:     lwe.ParametersLiteral{N: 500, AlphaMin: 2.44e-5, AlphaMax: maxStdev},
		TGsw: tgsw.ParametersLiteral{
			L:     2,
			Bgbit: 10,
			TLwe:  tlwe.ParametersLiteral{N: 1024, K: 1, AlphaMin: 7.18e-9, AlphaMax: maxStdev},
		},
	}

	// DefaultParameters128 is the gate bootstrapping parameter set with n=630
	// and N=1024, offering 128 bits of security.
	DefaultParameters128 = ParametersLiteral{
		KsT:       8,
		KsBasebit: 2,
		InOut:     lwe.ParametersLiteral{N: 630, AlphaMin: math.Exp2(-15), AlphaMax: maxStdev},
		TGsw: tgsw.ParametersLiteral{
			L:     3,
			Bgbit: 7,
			TLwe:  tlwe.ParametersLiteral{N: 1024, K: 1, AlphaMin: math.Exp2(-25), AlphaMax: maxStdev},
		},
	}

	// DefaultParametersLvl2 extends DefaultParameters128 with a second level
	// over the 64-bit torus with N=2048, used for bootstrappings with a
	// larger message space.
	DefaultParametersLvl2 = ParametersLiteral{
		KsT:       8,
		KsBasebit: 2,
		InOut:     lwe.ParametersLiteral{N: 630, AlphaMin: math.Exp2(-15), AlphaMax: maxStdev},
		TGsw: tgsw.ParametersLiteral{
			L:     3,
			Bgbit: 7,
			TLwe:  tlwe.ParametersLiteral{N: 1024, K: 1, AlphaMin: math.Exp2(-25), AlphaMax: maxStdev, AlphaLvl21: math.Exp2(-31)},
		},
		KsTbar:         10,
		KsBasebitLvl21: 3,
		TGswLvl2: &tgsw.ParametersLiteral{
			L:     4,
			Bgbit: 9,
			TLwe:  tlwe.ParametersLiteral{N: 2048, K: 1, AlphaMin: math.Exp2(-44), AlphaMax: maxStdev},
		},
	}
)
