// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sampler

import (
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
)

// Xoshiro256pp is the xoshiro256++ generator of Blackman and Vigna.
// The output sequence is fixed for a given seed on every platform.
type Xoshiro256pp struct {
	s [4]uint64
}

var _ rand.Source = (*Xoshiro256pp)(nil)

// NewXoshiro256pp seeds the generator from 32 bytes read as four little-endian words.
// An all-zero seed would get the generator stuck at zero, so it is expanded with
// SplitMix64 starting from 0 instead.
func NewXoshiro256pp(seed Seed) *Xoshiro256pp {
	if seed == (Seed{}) {
		var sm splitMix64
		for i := 0; i < 4; i++ {
			binary.LittleEndian.PutUint64(seed[i*8:], sm.next())
		}
	}
	var x Xoshiro256pp
	for i := range x.s {
		x.s[i] = binary.LittleEndian.Uint64(seed[i*8:])
	}
	return &x
}

// Uint64 returns the next 64 bits.
func (x *Xoshiro256pp) Uint64() uint64 {
	s := &x.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]

	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// Uint32 returns the upper 32 bits of the next output.
func (x *Xoshiro256pp) Uint32() uint32 {
	return uint32(x.Uint64() >> 32)
}

type splitMix64 struct {
	state uint64
}

func (sm *splitMix64) next() uint64 {
	sm.state += 0x9e3779b97f4a7c15
	z := sm.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
