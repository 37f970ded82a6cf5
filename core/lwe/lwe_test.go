package lwe

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
	"github.com/tfhego/tfhe/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides the default test parameters.")

// <<<<!Insecure parameters!>>>>
var testParams = []ParametersLiteral{
	{N: 64, AlphaMin: math.Exp2(-15), AlphaMax: math.Exp2(-10)},
	{N: 500, AlphaMin: math.Exp2(-15), AlphaMax: 0.012467, AlphaLvl21: math.Exp2(-31)},
}

func testString(params *Parameters, opname string) string {
	return fmt.Sprintf("%s/n=%d", opname, params.N())
}

type TestContext struct {
	params *Parameters
	src    *sampling.Source
	key    *Key
	enc    *Encryptor
	dec    *Decryptor
}

func NewTestContext(params *Parameters) (tc *TestContext, err error) {

	tc = &TestContext{params: params}

	if tc.src, err = sampling.NewSeededSource([]byte("lwe"), []byte{byte(params.N())}); err != nil {
		return nil, err
	}

	tc.key = NewKeyGenerator(params).WithSource(tc.src).GenKeyNew()
	tc.enc = NewEncryptor(tc.key).WithSource(tc.src)
	tc.dec = NewDecryptor(tc.key)

	return
}

func TestLWE(t *testing.T) {

	var err error

	paramsLiterals := testParams

	if *flagParamString != "" {
		var pl ParametersLiteral
		if err = json.Unmarshal([]byte(*flagParamString), &pl); err != nil {
			t.Fatal(err)
		}
		paramsLiterals = []ParametersLiteral{pl}
	}

	for _, pl := range paramsLiterals {

		var params *Parameters
		if params, err = NewParametersFromLiteral(pl); err != nil {
			t.Fatal(err)
		}

		tc, err := NewTestContext(params)
		require.NoError(t, err)

		for _, testSet := range []func(tc *TestContext, t *testing.T){
			testParameters,
			testKeyGenerator,
			testEncryptor,
			testOperations,
			testWriteAndRead,
		} {
			testSet(tc, t)
		}
	}
}

func testParameters(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "Parameters/JSON"), func(t *testing.T) {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		var other Parameters
		require.NoError(t, json.Unmarshal(data, &other))
		require.True(t, params.Equal(&other))
	})

	t.Run(testString(params, "Parameters/Invalid"), func(t *testing.T) {
		_, err := NewParameters(0, 0, 1)
		require.Error(t, err)
		_, err = NewParameters(10, 0.5, 0.1)
		require.Error(t, err)
		_, err = NewParameters(10, math.NaN(), 0.1)
		require.Error(t, err)
		_, err = NewParametersFromLiteral(ParametersLiteral{N: 10, AlphaMax: 1, AlphaLvl21: -1})
		require.Error(t, err)
		require.Error(t, json.Unmarshal([]byte(`{"N":-3}`), new(Parameters)))
	})

	t.Run(testString(params, "Parameters/Properties"), func(t *testing.T) {
		props := params.Properties()
		require.Equal(t, ParametersTag, props.Tag)
		require.Equal(t, params.AlphaLvl21() != 0, props.Has("alpha_lvl21"))
		other, err := NewParametersFromProperties(props)
		require.NoError(t, err)
		require.True(t, params.Equal(other))

		_, err = NewParametersFromProperties(codec.NewProperties("TLWEPARAMS"))
		require.True(t, errors.Is(err, codec.ErrTypeTag))

		incomplete := codec.NewProperties(ParametersTag)
		incomplete.SetInt("n", 10)
		_, err = NewParametersFromProperties(incomplete)
		require.True(t, errors.Is(err, codec.ErrMalformed))
	})
}

func testKeyGenerator(tc *TestContext, t *testing.T) {

	t.Run(testString(tc.params, "KeyGenerator"), func(t *testing.T) {

		key := tc.key
		require.Equal(t, tc.params.N(), len(key.Bits))
		require.Same(t, tc.params, key.Params())

		var ones int
		for _, b := range key.Bits {
			require.True(t, b == 0 || b == 1)
			ones += int(b)
		}

		require.Greater(t, ones, 0)
		require.Less(t, ones, len(key.Bits))

		src0, err := sampling.NewSeededSource([]byte("seed"))
		require.NoError(t, err)
		src1, err := sampling.NewSeededSource([]byte("seed"))
		require.NoError(t, err)

		kgen := NewKeyGenerator(tc.params)
		require.True(t, kgen.WithSource(src0).GenKeyNew().Equal(kgen.WithSource(src1).GenKeyNew()))
	})

	t.Run(testString(tc.params, "KeyGenerator/Default"), func(t *testing.T) {

		previous := sampling.Default()
		defer sampling.SetDefault(previous)

		kgen := NewKeyGenerator(tc.params)

		require.NoError(t, sampling.Reseed([]byte("default")))
		k0 := kgen.GenKeyNew()
		require.NoError(t, sampling.Reseed([]byte("default")))
		k1 := kgen.GenKeyNew()

		require.True(t, k0.Equal(k1))
	})
}

func testEncryptor(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "Encryptor/Torus32"), func(t *testing.T) {

		ct := NewSample(params)
		alpha := params.AlphaMin()

		for mu := int32(0); mu < 8; mu++ {
			m := torus.ModSwitchToTorus32(mu, 8)
			tc.enc.Encrypt(ct, m, alpha)
			require.Equal(t, alpha*alpha, ct.Variance)
			require.Equal(t, m, tc.dec.Decrypt(ct, 8))
			require.Equal(t, mu, torus.ModSwitchFromTorus32(tc.dec.Phase(ct), 8))
		}
	})

	t.Run(testString(params, "Encryptor/Torus64"), func(t *testing.T) {

		ct := NewSample64(params)
		alpha := math.Exp2(-40)

		for mu := int64(0); mu < 16; mu++ {
			m := torus.ModSwitchToTorus64(mu, 16)
			tc.enc.Encrypt64(ct, m, alpha)
			require.Equal(t, alpha*alpha, ct.Variance)
			require.Equal(t, m, tc.dec.Decrypt64(ct, 16))
			require.Less(t, math.Abs(torus.PhaseError(tc.dec.Phase64(ct), m)), 1e-9)
		}
	})

	t.Run(testString(params, "Encryptor/ExternalNoise"), func(t *testing.T) {
		ct := NewSample(params)
		m := torus.ModSwitchToTorus32(3, 8)
		tc.enc.EncryptWithExternalNoise(ct, m, 0.01, 0.02)
		require.Equal(t, m+torus.DoubleToTorus32(0.01), tc.dec.Phase(ct))
		require.Equal(t, 0.02*0.02, ct.Variance)
	})

	t.Run(testString(params, "Encryptor/NoiseDistribution"), func(t *testing.T) {

		alpha := math.Exp2(-10)
		ct := NewSample(params)
		errs := make([]float64, 2000)

		for i := range errs {
			EncryptT(tc.enc, ct, 0, alpha)
			errs[i] = torus.PhaseError(PhaseT(tc.dec, ct), 0)
		}

		ns, err := torus.NewNoiseStats(errs)
		require.NoError(t, err)
		require.Equal(t, len(errs), ns.Samples)
		require.InDelta(t, 0, ns.Mean, 4*alpha/math.Sqrt(float64(len(errs))))
		require.InDelta(t, alpha, ns.StdDev, 0.1*alpha)
		require.Less(t, ns.MaxAbs, 8*alpha)
	})

	t.Run(testString(params, "Encryptor/DimensionMismatch"), func(t *testing.T) {
		other, err := NewParameters(params.N()+1, 0, 0)
		require.NoError(t, err)
		require.Panics(t, func() { tc.enc.Encrypt(NewSample(other), 0, 0) })
		require.Panics(t, func() { tc.dec.Phase(NewSample(other)) })
	})
}

func testOperations(tc *TestContext, t *testing.T) {

	params := tc.params
	alpha := params.AlphaMin()

	encrypt := func(mu int32) *Sample[torus.Torus32] {
		ct := NewSample(params)
		tc.enc.Encrypt(ct, torus.ModSwitchToTorus32(mu, 16), alpha)
		return ct
	}

	t.Run(testString(params, "Operations/Linear"), func(t *testing.T) {

		a, b := encrypt(3), encrypt(5)
		v := alpha * alpha

		res := a.CopyNew()
		res.AddTo(b)
		require.Equal(t, torus.ModSwitchToTorus32(8, 16), tc.dec.Decrypt(res, 16))
		require.Equal(t, 2*v, res.Variance)

		res.SubTo(b)
		require.Equal(t, torus.ModSwitchToTorus32(3, 16), tc.dec.Decrypt(res, 16))
		require.Equal(t, 3*v, res.Variance)

		res.Copy(a)
		res.AddMulTo(3, b)
		require.Equal(t, torus.ModSwitchToTorus32(18, 16), tc.dec.Decrypt(res, 16))
		require.Equal(t, 10*v, res.Variance)

		res.SubMulTo(2, b)
		require.Equal(t, torus.ModSwitchToTorus32(8, 16), tc.dec.Decrypt(res, 16))
		require.Equal(t, 14*v, res.Variance)

		res.Negate(a)
		require.Equal(t, torus.ModSwitchToTorus32(-3, 16), tc.dec.Decrypt(res, 16))
		require.Equal(t, v, res.Variance)
	})

	t.Run(testString(params, "Operations/Trivial"), func(t *testing.T) {

		m := torus.ModSwitchToTorus32(5, 16)

		res := encrypt(1)
		res.NoiselessTrivial(m)
		require.Equal(t, m, tc.dec.Phase(res))
		require.Equal(t, 0.0, res.Variance)

		res.Clear()
		require.True(t, NewSample(params).Equal(res))
	})
}

func testWriteAndRead(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "WriteAndRead/Parameters"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, params, new(Parameters))
	})

	t.Run(testString(params, "WriteAndRead/Key"), func(t *testing.T) {

		previous := registry.SetDefault(registry.New())
		defer registry.SetDefault(previous)

		buffer.RequireSerializerCorrect(t, tc.key, new(Key))
		require.Equal(t, 3, registry.Default().Len())

		data, err := tc.key.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, tc.key.BinarySize(), len(data))

		reg := registry.New()
		key, n, err := ReadKey(bytes.NewReader(data), reg)
		require.NoError(t, err)
		require.Equal(t, int64(len(data)), n)
		require.True(t, tc.key.Equal(key))
		require.NotSame(t, tc.params, key.Params())
		require.True(t, reg.Contains(key.Params()))
		require.Equal(t, 1, reg.Len())
	})

	t.Run(testString(params, "WriteAndRead/KeyOwnership"), func(t *testing.T) {

		const count = 4

		var stream bytes.Buffer
		for i := 0; i < count; i++ {
			other, err := NewParametersFromLiteral(params.ParametersLiteral())
			require.NoError(t, err)
			_, err = NewKeyGenerator(other).WithSource(tc.src).GenKeyNew().WriteTo(&stream)
			require.NoError(t, err)
		}

		reg := registry.New()
		r := buffer.NewBuffer(stream.Bytes())

		var total int64
		keys := make([]*Key, count)
		for i := range keys {
			var n int64
			var err error
			keys[i], n, err = ReadKey(r, reg)
			require.NoError(t, err)
			total += n
		}
		require.Equal(t, int64(stream.Len()), total)
		require.Zero(t, r.Size())

		// One parameters object per key, none shared
		require.Equal(t, count, reg.Len())
		for i, key := range keys {
			require.True(t, reg.Contains(key.Params()))
			for _, other := range keys[:i] {
				require.NotSame(t, other.Params(), key.Params())
			}
		}
	})

	t.Run(testString(params, "WriteAndRead/Sample"), func(t *testing.T) {

		ct := NewSample(params)
		tc.enc.Encrypt(ct, torus.ModSwitchToTorus32(1, 8), params.AlphaMin())
		require.Equal(t, 4+4*(params.N()+1)+8, ct.BinarySize())
		buffer.RequireSerializerCorrect(t, ct, NewSample(params))

		ct64 := NewSample64(params)
		tc.enc.Encrypt64(ct64, torus.ModSwitchToTorus64(1, 8), params.AlphaMin())
		require.Equal(t, 4+8*(params.N()+1)+8, ct64.BinarySize())
		buffer.RequireSerializerCorrect(t, ct64, NewSample64(params))
	})

	t.Run(testString(params, "WriteAndRead/Layout"), func(t *testing.T) {

		ct := NewSample(params)
		ct.A[0] = 1
		ct.B = -2
		ct.Variance = 0.5

		data, err := ct.MarshalBinary()
		require.NoError(t, err)

		require.Equal(t, []byte{42, 0, 0, 0, 1, 0, 0, 0}, data[:8])
		require.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff}, data[4+4*params.N():8+4*params.N()])
		require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xe0, 0x3f}, data[len(data)-8:])
	})

	t.Run(testString(params, "WriteAndRead/TypeUIDMismatch"), func(t *testing.T) {

		data, err := NewSample(params).MarshalBinary()
		require.NoError(t, err)

		err = NewSample64(params).UnmarshalBinary(data)
		require.True(t, errors.Is(err, codec.ErrTypeUID))

		data, err = tc.key.MarshalBinary()
		require.NoError(t, err)
		err = NewSample(params).UnmarshalBinary(data)
		require.Error(t, err)

		// A 32-bit sample tagged as a TLWE sample
		data, err = NewSample(params).MarshalBinary()
		require.NoError(t, err)
		data[0] = 44
		err = NewSample(params).UnmarshalBinary(data)
		require.True(t, errors.Is(err, codec.ErrTypeUID))

		// Wrong record after the parameters block
		data, err = params.MarshalBinary()
		require.NoError(t, err)
		data = append(data, 44, 0, 0, 0)
		_, _, err = ReadKey(bytes.NewReader(data), registry.New())
		require.True(t, errors.Is(err, codec.ErrTypeUID))
	})

	t.Run(testString(params, "WriteAndRead/Truncated"), func(t *testing.T) {
		data, err := NewSample(params).MarshalBinary()
		require.NoError(t, err)
		require.Error(t, NewSample(params).UnmarshalBinary(data[:len(data)-1]))
	})
}

func TestEncryptSerializeDecrypt(t *testing.T) {

	params, err := NewParameters(500, math.Exp2(-15), math.Exp2(-4))
	require.NoError(t, err)

	src, err := sampling.NewSeededSource([]byte("lwe"), []byte("roundtrip"))
	require.NoError(t, err)

	key := NewKeyGenerator(params).WithSource(src).GenKeyNew()

	ct := NewSample(params)
	NewEncryptor(key).WithSource(src).Encrypt(ct, torus.ModSwitchToTorus32(1, 2), params.AlphaMin())

	data, err := ct.MarshalBinary()
	require.NoError(t, err)

	other := NewSample(params)
	require.NoError(t, other.UnmarshalBinary(data))
	require.True(t, ct.Equal(other))

	phase := NewDecryptor(key).Decrypt(other, 2)
	require.Equal(t, int32(1), torus.ModSwitchFromTorus32(phase, 2))
}
