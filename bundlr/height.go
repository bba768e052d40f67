// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundlr

import (
	"math"
	"math/bits"
)

// AddHeight returns height + delta, saturating at math.MaxUint64.
func AddHeight(height, delta uint64) uint64 {
	sum, carry := bits.Add64(height, delta, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}
