package tfhe

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/utils/buffer"
	"github.com/tfhego/tfhe/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides the default test parameters.")

var testParams = []ParametersLiteral{DefaultParameters80, DefaultParameters128, DefaultParametersLvl2}

func testString(params *Parameters, opname string) string {
	return fmt.Sprintf("%s/n=%d/N=%d/lvl2=%t", opname, params.InOutParameters().N(), params.TGswParameters().TLweParameters().N(), params.HasLvl2())
}

type TestContext struct {
	params *Parameters
	src    *sampling.Source
	sk     *SecretKeySet
	enc    *Encryptor
	dec    *Decryptor
	eval   *Evaluator
}

func NewTestContext(params *Parameters) (tc *TestContext, err error) {

	tc = &TestContext{params: params}

	if tc.src, err = sampling.NewSeededSource([]byte("tfhe"), []byte(fmt.Sprint(params.InOutParameters().N(), params.HasLvl2()))); err != nil {
		return nil, err
	}

	tc.sk = NewKeyGenerator(params).WithSource(tc.src).GenSecretKeySetNew()
	tc.enc = NewEncryptor(tc.sk).WithSource(tc.src)
	tc.dec = NewDecryptor(tc.sk)
	tc.eval = NewEvaluator(params)

	return
}

func TestTFHE(t *testing.T) {

	paramsLiterals := testParams

	if *flagParamString != "" {
		var pl ParametersLiteral
		if err := json.Unmarshal([]byte(*flagParamString), &pl); err != nil {
			t.Fatal(err)
		}
		paramsLiterals = []ParametersLiteral{pl}
	}

	for _, pl := range paramsLiterals {

		params, err := NewParametersFromLiteral(pl)
		require.NoError(t, err)

		tc, err := NewTestContext(params)
		require.NoError(t, err)

		for _, testSet := range []func(tc *TestContext, t *testing.T){
			testParameters,
			testKeyGenerator,
			testEncryptor,
			testEvaluator,
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
		require.Equal(t, params.ParametersLiteral(), other.ParametersLiteral())
	})

	t.Run(testString(params, "Parameters/Properties"), func(t *testing.T) {
		props := params.Properties()
		if params.HasLvl2() {
			require.Equal(t, []string{"ks_t", "ks_basebit", "ks_tbar", "ks_basebitlvl21"}, props.Names())
		} else {
			require.Equal(t, []string{"ks_t", "ks_basebit"}, props.Names())
		}
	})

	t.Run(testString(params, "Parameters/Invalid"), func(t *testing.T) {

		pl := params.ParametersLiteral()
		pl.KsT = 17
		_, err := NewParametersFromLiteral(pl)
		require.Error(t, err)

		pl = params.ParametersLiteral()
		pl.KsBasebit = 0
		_, err = NewParametersFromLiteral(pl)
		require.Error(t, err)

		pl = params.ParametersLiteral()
		pl.TGswLvl2, pl.KsTbar, pl.KsBasebitLvl21 = nil, 10, 3
		_, err = NewParametersFromLiteral(pl)
		require.Error(t, err)

		_, err = NewParameters(8, 2, nil, params.TGswParameters())
		require.Error(t, err)

		_, err = params.WithLvl2(10, 3, nil)
		require.Error(t, err)
	})
}

func testKeyGenerator(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "KeyGenerator"), func(t *testing.T) {

		sk := tc.sk

		require.Same(t, params.InOutParameters(), sk.LweKey.Params())
		require.Same(t, params.TGswParameters(), sk.TGswKey.Params())

		if params.HasLvl2() {
			require.NotNil(t, sk.TGswKeyLvl2)
			require.Same(t, params.TGswParametersLvl2(), sk.TGswKeyLvl2.Params())
		} else {
			require.Nil(t, sk.TGswKeyLvl2)
		}

		var ones int
		for _, b := range sk.LweKey.Bits {
			require.True(t, b == 0 || b == 1)
			ones += int(b)
		}
		require.Greater(t, ones, 0)
		require.Less(t, ones, len(sk.LweKey.Bits))

		other := NewKeyGenerator(params).WithSource(tc.src).GenSecretKeySetNew()
		require.False(t, sk.Equal(other))
		require.True(t, sk.Equal(sk))
	})
}

func testEncryptor(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "Encryptor/Bits"), func(t *testing.T) {

		ct := NewCiphertext(params)

		for i := 0; i < 64; i++ {
			bit := tc.src.Uint64()&1 == 1
			tc.enc.Encrypt(ct, bit)
			require.Equal(t, bit, tc.dec.Decrypt(ct))

			alpha := params.InOutParameters().AlphaMin()
			require.Equal(t, alpha*alpha, ct.Variance)
		}
	})

	t.Run(testString(params, "Encryptor/BitsVector"), func(t *testing.T) {

		bits := []bool{true, false, false, true, true, true, false, true}

		cts := tc.enc.EncryptBitsNew(bits)
		require.Len(t, cts, len(bits))
		require.Equal(t, bits, tc.dec.DecryptBits(cts))

		data, err := cts.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, 8+len(bits)*cts[0].BinarySize())

		other := NewCiphertexts(params, len(bits))
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, cts.Equal(other))

		short := NewCiphertexts(params, len(bits)-1)
		require.Error(t, short.UnmarshalBinary(data))
	})

	t.Run(testString(params, "Encryptor/Encoding"), func(t *testing.T) {
		require.Equal(t, int32(1)<<29, int32(encode(true)))
		require.Equal(t, -int32(1)<<29, int32(encode(false)))
	})
}

func testEvaluator(tc *TestContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "Evaluator/Constant"), func(t *testing.T) {
		res := NewCiphertext(params)
		for _, bit := range []bool{true, false} {
			tc.eval.Constant(res, bit)
			require.Equal(t, bit, tc.dec.Decrypt(res))
			require.Zero(t, res.Variance)
		}
	})

	t.Run(testString(params, "Evaluator/NotCopy"), func(t *testing.T) {

		res := NewCiphertext(params)

		for _, bit := range []bool{true, false} {

			ct := tc.enc.EncryptNew(bit)

			tc.eval.Not(res, ct)
			require.Equal(t, !bit, tc.dec.Decrypt(res))
			require.Equal(t, ct.Variance, res.Variance)

			tc.eval.Copy(res, ct)
			require.True(t, ct.Equal(res))
		}

		require.Same(t, params, tc.eval.Parameters())
	})
}

func testWriteAndRead(tc *TestContext, t *testing.T) {

	params := tc.params

	// LWE, TLWE and TGSW parameters, and the lvl2 TLWE and TGSW parameters
	deps := 3
	if params.HasLvl2() {
		deps += 2
	}

	t.Run(testString(params, "WriteAndRead/Parameters"), func(t *testing.T) {

		previous := registry.SetDefault(registry.New())
		defer registry.SetDefault(previous)

		buffer.RequireSerializerCorrect(t, params, new(Parameters))

		data, err := params.MarshalBinary()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(data), "-----BEGIN GATEBOOTSPARAMS-----\nks_t = 8\nks_basebit = 2\n"))

		reg := registry.New()
		other, _, err := ReadParameters(bytes.NewReader(data), reg)
		require.NoError(t, err)
		require.True(t, params.Equal(other))
		require.Equal(t, deps, reg.Len())
		require.True(t, reg.Contains(other.InOutParameters()))
		require.True(t, reg.Contains(other.TGswParameters()))
		require.True(t, reg.Contains(other.TGswParameters().TLweParameters()))
		require.False(t, reg.Contains(other))
	})

	t.Run(testString(params, "WriteAndRead/SecretKeySet"), func(t *testing.T) {

		previous := registry.SetDefault(registry.New())
		defer registry.SetDefault(previous)

		buffer.RequireSerializerCorrect(t, tc.sk, new(SecretKeySet))

		data, err := tc.sk.MarshalBinary()
		require.NoError(t, err)

		reg := registry.New()
		sk, _, err := ReadSecretKeySet(bytes.NewReader(data), reg)
		require.NoError(t, err)
		require.True(t, tc.sk.Equal(sk))
		require.Equal(t, deps+1, reg.Len())
		require.True(t, reg.Contains(sk.Params()))

		// Parameters are written once
		offset := params.BinarySize()
		require.Equal(t, []byte{43, 0, 0, 0}, data[offset:offset+4])
		offset += 4 + 4*params.InOutParameters().N()
		require.Equal(t, []byte{49, 0, 0, 0}, data[offset:offset+4])
	})

	t.Run(testString(params, "WriteAndRead/Errors"), func(t *testing.T) {

		data, err := tc.sk.MarshalBinary()
		require.NoError(t, err)

		reg := registry.New()

		_, _, err = ReadSecretKeySet(bytes.NewReader(data[:len(data)-1]), reg)
		require.Error(t, err)

		offset := params.BinarySize()
		corrupted := append([]byte{}, data...)
		corrupted[offset] = 42
		_, _, err = ReadSecretKeySet(bytes.NewReader(corrupted), reg)
		require.True(t, errors.Is(err, codec.ErrTypeUID))

		// Nothing is registered by failed reads
		require.Zero(t, reg.Len())

		_, _, err = ReadParameters(bytes.NewReader(data[len("-----BEGIN GATEBOOTSPARAMS-----\n"):]), reg)
		require.True(t, errors.Is(err, codec.ErrMalformed))

		tlweData, err := params.TGswParameters().TLweParameters().MarshalBinary()
		require.NoError(t, err)
		_, _, err = ReadParameters(bytes.NewReader(tlweData), reg)
		require.True(t, errors.Is(err, codec.ErrTypeTag))
	})

	t.Run(testString(params, "WriteAndRead/File"), func(t *testing.T) {

		previous := registry.SetDefault(registry.New())
		defer registry.SetDefault(previous)

		dir := t.TempDir()

		ct := tc.enc.EncryptNew(true)
		require.NoError(t, codec.ExportToFile(filepath.Join(dir, "params"), params))
		require.NoError(t, codec.ExportToFile(filepath.Join(dir, "ct"), ct))

		other := new(Parameters)
		require.NoError(t, codec.ImportFromFile(filepath.Join(dir, "params"), other))
		require.True(t, params.Equal(other))

		res := NewCiphertext(other)
		require.NoError(t, codec.ImportFromFile(filepath.Join(dir, "ct"), res))
		require.True(t, tc.dec.Decrypt(res))
		require.Equal(t, deps, registry.Default().Len())
	})
}
