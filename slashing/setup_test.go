// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/epoch"
	"github.com/bundlr/validators/registry"
)

var fixtureStakes = []struct {
	addr  string
	stake uint64
}{
	{"a1", 10000},
	{"a2", 20000},
	{"a3", 10000},
	{"a4", 15000},
	{"a5", 10000},
	{"a6", 10000},
	{"a7", 10010},
	{"a8", 10000},
	{"a9", 10010},
	{"a10", 10000},
	{"a11", 10000},
	{"a12", 30000},
	{"a13", 15000},
}

type fixture struct {
	reg     *registry.Registry
	epoch   epoch.Epoch
	params  Params
	records Records
}

func addr(s string) bundlr.Address {
	return bundlr.MustParseAddress(s)
}

func txid(s string) bundlr.TransactionID {
	return bundlr.MustParseTransactionID(s)
}

func proposal(id string, block uint64, validator string) Proposal {
	return Proposal{
		ID:        id,
		Size:      100,
		Fee:       bundlr.NewAmount(100),
		Currency:  "BTC",
		Block:     block,
		Validator: validator,
		Signature: "foo",
	}
}

func votes(pairs ...any) map[bundlr.Address]Vote {
	m := make(map[bundlr.Address]Vote, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[addr(pairs[i].(string))] = pairs[i+1].(Vote)
	}
	return m
}

// newFixture builds 13 validators holding 170020 in total, at epoch 5 (height 2522), with
// one closed proposal (tx1) and two open ones (tx2, tx3) made at height 2350.
func newFixture(t *testing.T) *fixture {
	validators := make([]registry.Validator, 0, len(fixtureStakes))
	for _, s := range fixtureStakes {
		validators = append(validators, registry.Validator{
			Address: addr(s.addr),
			Stake:   bundlr.NewAmount(s.stake),
			URL:     fmt.Sprintf("https://%s.example.com", s.addr),
		})
	}
	reg, err := registry.New(validators...)
	require.NoError(t, err)

	closed := make(map[bundlr.Address]Ballot)
	for a, v := range votes("a1", VoteFor, "a2", VoteFor, "a3", VoteFor, "a4", VoteFor, "a5", VoteFor, "a6", VoteFor, "a12", VoteFor) {
		closed[a] = Ballot{Vote: v, Stake: reg.StakeOf(a)}
	}

	records := Records{
		txid("tx1"): {
			Proposal: proposal("tx1", 1900, "a1"),
			Proposer: addr("a1"),
			Height:   2350,
			Tx:       txid("proposal_tx_id_1"),
			Voting:   NewClosedVoting(closed, VoteFor),
		},
		txid("tx2"): {
			Proposal: proposal("tx2", 1900, "a3"),
			Proposer: addr("a3"),
			Height:   2350,
			Tx:       txid("proposal_tx_id_2"),
			Voting: NewOpenVoting(votes(
				"a3", VoteFor, "a1", VoteFor, "a2", VoteAgainst, "a4", VoteFor, "a5", VoteFor,
				"a6", VoteFor, "a10", VoteFor, "a11", VoteFor, "a7", VoteFor,
			)),
		},
		txid("tx3"): {
			Proposal: proposal("tx3", 2300, "a4"),
			Proposer: addr("a3"),
			Height:   2350,
			Tx:       txid("proposal_tx_id_2"),
			Voting: NewOpenVoting(votes(
				"a4", VoteFor, "a1", VoteFor, "a2", VoteAgainst, "a3", VoteFor, "a6", VoteFor,
				"a5", VoteAgainst, "a9", VoteFor, "a7", VoteAgainst, "a8", VoteAgainst,
				"a10", VoteAgainst, "a12", VoteFor, "a11", VoteAgainst,
			)),
		},
	}

	return &fixture{
		reg:     reg,
		epoch:   epoch.Epoch{Seq: 5, Tx: txid("epoch_update_tx_id"), Height: 2522},
		params:  Params{EpochDuration: 500, Lifetime: 300},
		records: records,
	}
}

type outcome struct {
	subject bundlr.TransactionID
	final   Vote
}

// recordingHooks remembers every closed voting in call order.
type recordingHooks struct {
	outcomes []outcome
}

func (h *recordingHooks) OnPositive(subject bundlr.TransactionID, _ *Record) {
	h.outcomes = append(h.outcomes, outcome{subject, VoteFor})
}

func (h *recordingHooks) OnNegative(subject bundlr.TransactionID, _ *Record) {
	h.outcomes = append(h.outcomes, outcome{subject, VoteAgainst})
}
