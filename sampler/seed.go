// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sampler

import (
	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/reverts"
)

// SeedLength is the number of bytes needed to seed the generator.
const SeedLength = 32

// Seed seeds the nominee sampler.
type Seed [SeedLength]byte

// SeedFromTransaction derives the seed from the binary form of a transaction id.
// Ids that decode to fewer than 32 bytes cannot seed the sampler.
func SeedFromTransaction(tx bundlr.TransactionID) (Seed, error) {
	b, err := tx.Bytes()
	if err != nil {
		return Seed{}, reverts.ParseError("transaction id %s: %v", tx, err)
	}
	if len(b) < SeedLength {
		return Seed{}, reverts.RuntimeError("could not extract %d bytes from transaction id %s", SeedLength, tx)
	}
	var seed Seed
	copy(seed[:], b)
	return seed, nil
}
