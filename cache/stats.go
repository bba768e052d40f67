// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats is a utility for collecting cache hit/miss.
type Stats struct {
	hit, miss atomic.Int64
	flag      atomic.Int32
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// HitRate returns hits per lookup, 0 before the first lookup.
func (cs *Stats) HitRate() float64 {
	hit := cs.hit.Load()
	lookups := hit + cs.miss.Load()
	if lookups == 0 {
		return 0
	}
	return float64(hit) / float64(lookups)
}

// Stats returns the number of hits and misses and whether
// the hit rate (in permille) changed since the last call.
func (cs *Stats) Stats() (bool, int64, int64) {
	flag := int32(cs.HitRate() * 1000)
	return cs.flag.Swap(flag) != flag, cs.hit.Load(), cs.miss.Load()
}
