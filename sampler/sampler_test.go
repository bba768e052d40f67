// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sampler

import (
	"encoding/binary"
	"fmt"
	"slices"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/reverts"
)

// base64url of the bytes 0x00..0x1f
const countingTx = bundlr.TransactionID("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8")

func countingSeed() Seed {
	var seed Seed
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func addresses(n int) []bundlr.Address {
	addrs := make([]bundlr.Address, 0, n)
	for i := 1; i <= n; i++ {
		addrs = append(addrs, bundlr.Address(fmt.Sprintf("a%d", i)))
	}
	return addrs
}

func TestXoshiroReferenceVector(t *testing.T) {
	var seed Seed
	for i, w := range []byte{1, 2, 3, 4} {
		seed[i*8] = w
	}
	rng := NewXoshiro256pp(seed)

	expected := []uint64{
		41943041, 58720359, 3588806011781223, 3591011842654386,
		9228616714210784205, 9973669472204895162, 14011001112246962877,
		12406186145184390807, 15849039046786891736, 10450023813501588000,
	}
	for i, want := range expected {
		assert.Equal(t, want, rng.Uint64(), "output %d", i)
	}
}

func TestXoshiroZeroSeed(t *testing.T) {
	rng := NewXoshiro256pp(Seed{})
	assert.Equal(t, uint64(5987356902031041503), rng.Uint64())
}

func TestXoshiroUint32(t *testing.T) {
	rng := NewXoshiro256pp(countingSeed())
	assert.Equal(t, uint32(1663256601371677457>>32), rng.Uint32())
	assert.Equal(t, uint64(11682512382921186587), rng.Uint64())
}

func TestSeedFromTransaction(t *testing.T) {
	seed, err := SeedFromTransaction(countingTx)
	require.NoError(t, err)
	assert.Equal(t, countingSeed(), seed)

	// longer ids only use their first 32 bytes
	seed, err = SeedFromTransaction(countingTx + "AAAA")
	require.NoError(t, err)
	assert.Equal(t, countingSeed(), seed)

	// 5 characters cannot be produced by unpadded base64
	_, err = SeedFromTransaction("abcde")
	assert.True(t, reverts.Is(err, reverts.KindParseError))

	_, err = SeedFromTransaction("tx1")
	assert.True(t, reverts.Is(err, reverts.KindRuntimeError))
}

func TestNominateAllWhenFewCandidates(t *testing.T) {
	candidates := []bundlr.Address{"c", "a", "b"}

	assert.Equal(t, []bundlr.Address{"a", "b", "c"}, Nominate(countingSeed(), candidates, 3))
	assert.Equal(t, []bundlr.Address{"a", "b", "c"}, Nominate(countingSeed(), candidates, 10))
	assert.Equal(t, []bundlr.Address{"c", "a", "b"}, candidates, "input must not be reordered")
	assert.Empty(t, Nominate(countingSeed(), nil, 10))
}

func TestNominateFixedSequence(t *testing.T) {
	nominees := Nominate(countingSeed(), addresses(13), 10)

	assert.Equal(t, []bundlr.Address{"a10", "a11", "a6", "a8", "a2", "a3", "a13", "a7", "a4", "a1"}, nominees)
}

func TestNominateIgnoresInputOrder(t *testing.T) {
	addrs := addresses(13)
	reversed := slices.Clone(addrs)
	slices.Reverse(reversed)

	assert.Equal(t, Nominate(countingSeed(), addrs, 5), Nominate(countingSeed(), reversed, 5))
}

func TestNominateProperties(t *testing.T) {
	f := fuzz.NewWithSeed(42).NilChance(0).NumElements(1, 64)

	for range 200 {
		var (
			seed  Seed
			names []string
			k     uint8
		)
		f.Fuzz(&seed)
		f.Fuzz(&names)
		f.Fuzz(&k)

		candidates := make([]bundlr.Address, 0, len(names))
		for _, n := range names {
			candidates = append(candidates, bundlr.Address(n))
		}
		distinct := slices.Compact(slices.Sorted(slices.Values(candidates)))

		first := Nominate(seed, candidates, int(k))
		second := Nominate(seed, candidates, int(k))
		require.Equal(t, first, second, "same seed and set must give the same nominees")

		require.Len(t, first, min(int(k), len(distinct)))
		seen := make(map[bundlr.Address]bool, len(first))
		for _, n := range first {
			require.False(t, seen[n], "nominee %q drawn twice", n)
			require.True(t, slices.Contains(distinct, n))
			seen[n] = true
		}
	}
}

func TestNominateIsRoughlyUniform(t *testing.T) {
	addrs := addresses(8)
	counts := make(map[bundlr.Address]int)

	const rounds = 4000
	for i := range rounds {
		var num [8]byte
		binary.BigEndian.PutUint64(num[:], uint64(i))
		seed := Seed(bundlr.Blake2b(num[:]))
		for _, n := range Nominate(seed, addrs, 2) {
			counts[n]++
		}
	}

	// each address is expected rounds*2/8 = 1000 times
	for _, a := range addrs {
		assert.InDelta(t, 1000, counts[a], 150, "address %s", a)
	}
}

func TestCachedNominator(t *testing.T) {
	calls := 0
	next := NominatorFunc(func(seed Seed, candidates []bundlr.Address, k int) []bundlr.Address {
		calls++
		return Nominate(seed, candidates, k)
	})
	c, err := NewCached(next, 8)
	require.NoError(t, err)

	addrs := addresses(13)
	first := c.Nominate(countingSeed(), addrs, 10)
	first[0] = "mutated"

	second := c.Nominate(countingSeed(), addrs, 10)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Nominate(countingSeed(), addrs, 10), second)

	c.Nominate(countingSeed(), addrs, 9)
	assert.Equal(t, 2, calls)

	_, hit, miss := c.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)
}

func TestCacheKeySeparatesCandidates(t *testing.T) {
	seed := countingSeed()
	assert.NotEqual(t, cacheKey(seed, []bundlr.Address{"ab", "c"}, 1), cacheKey(seed, []bundlr.Address{"a", "bc"}, 1))
	assert.Equal(t, cacheKey(seed, []bundlr.Address{"b", "a"}, 1), cacheKey(seed, []bundlr.Address{"a", "b"}, 1))
}
