package sampling

import (
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
)

const sourceBufferSize = 1024

// Source turns a PRNG into a stream of uniform integers, uniform floats and
// standard normal floats. It implements rand.Source of golang.org/x/exp/rand.
// A Source is not safe for concurrent use.
type Source struct {
	prng   PRNG
	buffer []byte
	ptr    int
	rand   *rand.Rand
}

// NewSource creates a new Source reading its randomness from prng.
func NewSource(prng PRNG) (s *Source) {
	s = &Source{
		prng:   prng,
		buffer: make([]byte, sourceBufferSize),
		ptr:    sourceBufferSize,
	}
	s.rand = rand.New(s)
	return
}

// NewSeededSource creates a new deterministic Source from arbitrary seed material.
func NewSeededSource(seed ...[]byte) (*Source, error) {
	prng, err := NewSeededPRNG(seed...)
	if err != nil {
		return nil, err
	}
	return NewSource(prng), nil
}

// PRNG returns the underlying PRNG.
func (s *Source) PRNG() PRNG {
	return s.prng
}

// Uint64 returns a uniform uint64.
func (s *Source) Uint64() uint64 {
	if s.ptr+8 > len(s.buffer) {
		if _, err := s.prng.Read(s.buffer); err != nil {
			panic(fmt.Errorf("cannot Uint64: %w", err))
		}
		s.ptr = 0
	}
	x := binary.LittleEndian.Uint64(s.buffer[s.ptr:])
	s.ptr += 8
	return x
}

// Uint32 returns a uniform uint32.
func (s *Source) Uint32() uint32 {
	return uint32(s.Uint64() >> 32)
}

// Bit returns a uniform value in {0, 1}.
func (s *Source) Bit() int32 {
	return int32(s.Uint64() >> 63)
}

// Float64 returns a uniform float64 in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// NormFloat64 returns a normally distributed float64 with mean 0 and
// standard deviation 1.
func (s *Source) NormFloat64() float64 {
	return s.rand.NormFloat64()
}

// Seed re-keys the Source with a deterministic PRNG derived from seed.
func (s *Source) Seed(seed uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	prng, err := NewSeededPRNG(b[:])
	if err != nil {
		panic(err)
	}
	s.prng = prng
	s.ptr = len(s.buffer)
}

var (
	defaultMutex  sync.Mutex
	defaultSource = newDefaultSource()
)

func newDefaultSource() *Source {
	prng, err := NewPRNG()
	if err != nil {
		panic(err)
	}
	return NewSource(prng)
}

// Default returns the process-wide Source used by key generators and encryptors
// that were not given an explicit one. It is not safe to draw from it
// concurrently.
func Default() *Source {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	return defaultSource
}

// SetDefault replaces the process-wide Source and returns the previous one.
func SetDefault(s *Source) (previous *Source) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	previous, defaultSource = defaultSource, s
	return
}

// Reseed replaces the process-wide Source with a deterministic Source derived
// from seed.
func Reseed(seed ...[]byte) error {
	s, err := NewSeededSource(seed...)
	if err != nil {
		return err
	}
	SetDefault(s)
	return nil
}
