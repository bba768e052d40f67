// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sampler picks the nominated validators of an epoch.
package sampler

import (
	"slices"

	"github.com/bundlr/validators/bundlr"
)

// Nominator selects at most k nominees among candidates.
type Nominator interface {
	Nominate(seed Seed, candidates []bundlr.Address, k int) []bundlr.Address
}

// NominatorFunc adapts a function to Nominator.
type NominatorFunc func(seed Seed, candidates []bundlr.Address, k int) []bundlr.Address

func (f NominatorFunc) Nominate(seed Seed, candidates []bundlr.Address, k int) []bundlr.Address {
	return f(seed, candidates, k)
}

// Default is the uncached nominator.
var Default Nominator = NominatorFunc(Nominate)

// Nominate picks k distinct candidates uniformly with a partial Fisher-Yates shuffle driven by
// xoshiro256++. Candidates are sorted by address first, so the result only depends on the seed and
// the candidate set. If there are no more than k candidates, all of them are returned in address
// order.
func Nominate(seed Seed, candidates []bundlr.Address, k int) []bundlr.Address {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b bundlr.Address) int { return a.Compare(b) })
	sorted = slices.Compact(sorted)

	n := len(sorted)
	if k < 0 {
		k = 0
	}
	if n <= k {
		return sorted
	}

	rng := NewXoshiro256pp(seed)
	nominees := make([]bundlr.Address, 0, k)
	for i := 0; i < k; i++ {
		// positions before i are already drawn
		r := int(uint64(rng.Uint32())%uint64(n-i)) + i
		sorted[i], sorted[r] = sorted[r], sorted[i]
		nominees = append(nominees, sorted[i])
	}
	return nominees
}
