// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sampler

import (
	"encoding/binary"
	"io"
	"slices"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/cache"
)

// Cached memoizes nominations. Nominating is a pure function of its inputs, so a cached
// result is indistinguishable from a recomputed one.
type Cached struct {
	next  Nominator
	cache *cache.LRU[bundlr.Bytes32, []bundlr.Address]
}

// NewCached wraps next with an LRU cache of the given size.
func NewCached(next Nominator, size int) (*Cached, error) {
	c, err := cache.NewLRU[bundlr.Bytes32, []bundlr.Address](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: c}, nil
}

// Nominate implements Nominator. The returned slice is owned by the caller.
func (c *Cached) Nominate(seed Seed, candidates []bundlr.Address, k int) []bundlr.Address {
	key := cacheKey(seed, candidates, k)
	if nominees, ok := c.cache.Get(key); ok {
		return slices.Clone(nominees)
	}
	nominees := c.next.Nominate(seed, candidates, k)
	c.cache.Add(key, slices.Clone(nominees))
	return nominees
}

// Stats returns the cache hit/miss counters.
func (c *Cached) Stats() *cache.Stats {
	return c.cache.Stats()
}

func cacheKey(seed Seed, candidates []bundlr.Address, k int) bundlr.Bytes32 {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b bundlr.Address) int { return a.Compare(b) })

	return bundlr.Blake2bFn(func(w io.Writer) {
		var num [8]byte
		w.Write(seed[:])
		binary.BigEndian.PutUint64(num[:], uint64(k))
		w.Write(num[:])
		for _, c := range sorted {
			// length prefix keeps ("ab","c") and ("a","bc") apart
			binary.BigEndian.PutUint64(num[:], uint64(len(c)))
			w.Write(num[:])
			w.Write([]byte(c))
		}
	})
}
