// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"math/big"

	"github.com/bundlr/validators/bundlr"
)

// Tally is the stake weighted evaluation of a set of votes.
type Tally struct {
	Total   bundlr.Amount // stake of every registered validator
	Voted   bundlr.Amount // stake of the voters
	For     bundlr.Amount
	Against bundlr.Amount
}

// Evaluate weights votes by the voters' current stake. A voter that is no longer registered
// weighs nothing.
func Evaluate(stakes Stakes, votes map[bundlr.Address]Vote) Tally {
	t := Tally{Total: stakes.TotalStake()}
	for addr, vote := range votes {
		stake := stakes.StakeOf(addr)
		t.Voted = t.Voted.Add(stake)
		switch vote {
		case VoteFor:
			t.For = t.For.Add(stake)
		case VoteAgainst:
			t.Against = t.Against.Add(stake)
		}
	}
	return t
}

// Result is the signed difference For - Against.
func (t Tally) Result() *big.Int {
	return new(big.Int).Sub(t.For.Big(), t.Against.Big())
}

// Outcome is VoteFor only when the result is strictly positive.
func (t Tally) Outcome() Vote {
	return VoteOf(t.For.Cmp(t.Against) > 0)
}

// Conclusive reports whether the remaining stake can no longer change the outcome.
func (t Tally) Conclusive() bool {
	if t.Voted.Cmp(t.Total) >= 0 {
		return true
	}
	remaining := t.Total.Sub(t.Voted)
	var margin bundlr.Amount
	if t.For.Cmp(t.Against) >= 0 {
		margin = t.For.Sub(t.Against)
	} else {
		margin = t.Against.Sub(t.For)
	}
	return remaining.Cmp(margin) < 0
}

// Quorum reports whether strictly more than 75% of the total stake voted.
func (t Tally) Quorum() bool {
	voted := new(big.Int).Mul(t.Voted.Big(), big.NewInt(4))
	total := new(big.Int).Mul(t.Total.Big(), big.NewInt(3))
	return voted.Cmp(total) > 0
}
