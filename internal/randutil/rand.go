// Package randutil centralises RNG construction so that every shuffle in
// the engine draws from the same, well-seeded source.
package randutil

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided
// int64. Used by tests that need reproducible deals.
func New(seed int64) *mrand.Rand {
	u := uint64(seed)
	return mrand.New(mrand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewCrypto returns a *rand.Rand whose PCG state is seeded from the
// operating system CSPRNG. Deck shuffles use this so that card order is
// not predictable by clients.
func NewCrypto() *mrand.Rand {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the OS entropy source is broken.
		panic("randutil: crypto/rand unavailable: " + err.Error())
	}
	s1 := binary.LittleEndian.Uint64(buf[0:8])
	s2 := binary.LittleEndian.Uint64(buf[8:16])
	return mrand.New(mrand.NewPCG(s1, s2))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
