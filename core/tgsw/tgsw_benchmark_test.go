package tgsw

import (
	"math"
	"testing"

	"github.com/tfhego/tfhe/core/tlwe"
)

func BenchmarkTGSW(b *testing.B) {

	// Gate bootstrapping key parameters at the 80-bit level
	params, err := NewParametersFromLiteral(ParametersLiteral{
		L:     2,
		Bgbit: 10,
		TLwe:  tlwe.ParametersLiteral{N: 1024, K: 1, AlphaMin: math.Exp2(-25), AlphaMax: 0.012467},
	})
	if err != nil {
		b.Fatal(err)
	}

	tc, err := NewTestContext(params)
	if err != nil {
		b.Fatal(err)
	}

	ct, _ := tc.newMessage()

	gsw := NewSample(params)
	tc.enc.EncryptInt(gsw, 1, params.TLweParameters().AlphaMin())
	gswFFT := NewSampleFFT(params)
	tc.eval.ToFFT(gswFFT, gsw)

	digits := NewDecomposition(params)
	res := tlwe.NewSample(params.TLweParameters())

	b.Run(testString(params, "Decompose"), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Decompose(params, digits, ct)
		}
	})

	b.Run(testString(params, "ExternalProduct"), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			tc.eval.ExternalProduct(res, gswFFT, ct)
		}
	})

	b.Run(testString(params, "EncryptInt"), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			tc.enc.EncryptInt(gsw, 1, params.TLweParameters().AlphaMin())
		}
	})
}
