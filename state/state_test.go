// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/epoch"
	"github.com/bundlr/validators/registry"
	"github.com/bundlr/validators/slashing"
)

func newTestState(t *testing.T) *State {
	reg, err := registry.New(
		registry.Validator{Address: "a1", Stake: bundlr.NewAmount(10000), URL: "https://a1.example.com"},
		registry.Validator{Address: "a2", Stake: bundlr.NewAmount(20000), URL: "https://a2.example.com"},
		registry.Validator{Address: "a3", Stake: bundlr.NewAmount(15000), URL: "https://a3.example.com"},
	)
	require.NoError(t, err)

	st := New()
	st.Bundler = "bundler"
	st.BundlersContract = "bundlers_contract"
	st.Token = "token_address"
	st.Epoch = epoch.Epoch{Seq: 2, Tx: "epoch_tx", Height: 1000}
	st.MinimumStake = bundlr.NewAmount(100)
	st.Validators = reg
	st.NominatedValidators = []bundlr.Address{"a2", "a1"}
	st.SlashProposals["tx1"] = &slashing.Record{
		Proposal: slashing.Proposal{ID: "tx1", Size: 10, Fee: bundlr.NewAmount(5), Currency: "BTC", Block: 900, Validator: "a3", Signature: "sig"},
		Proposer: "a1",
		Height:   1001,
		Tx:       "proposal_tx",
		Voting:   slashing.NewOpenVoting(map[bundlr.Address]slashing.Vote{"a1": slashing.VoteFor}),
	}
	require.NoError(t, st.Validate())
	return st
}

func TestNewUsesDefaults(t *testing.T) {
	st := New()
	assert.Equal(t, bundlr.EpochDuration(), st.EpochDuration)
	assert.Equal(t, bundlr.MaxNominatedValidators(), st.MaxNumNominatedValidators)
	assert.Equal(t, bundlr.SlashProposalLifetime(), st.SlashProposalLifetime)
	assert.Zero(t, st.Validators.Len())
	assert.NoError(t, st.Validate())
}

func TestClone(t *testing.T) {
	st := newTestState(t)
	hash := st.Hash()

	cpy := st.Clone()
	assert.Equal(t, st, cpy)
	assert.Equal(t, hash, cpy.Hash())

	cpy.Validators.Remove("a3")
	cpy.NominatedValidators[0] = "a3"
	cpy.SlashProposals["tx1"].Height = 5
	cpy.Epoch = cpy.Epoch.Next("next_tx", 1500)

	assert.True(t, st.Validators.Contains("a3"))
	assert.Equal(t, bundlr.Address("a2"), st.NominatedValidators[0])
	assert.Equal(t, uint64(1001), st.SlashProposals["tx1"].Height)
	assert.Equal(t, uint64(2), st.Epoch.Seq)
	assert.Equal(t, hash, st.Hash())
	assert.NotEqual(t, hash, cpy.Hash())
}

func TestJSON(t *testing.T) {
	st := newTestState(t)

	var buf bytes.Buffer
	require.NoError(t, st.Save(&buf))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{
		"bundler", "bundlersContract", "token", "epoch", "epochDuration", "minimumStake",
		"maxNumNominatedValidators", "slashProposalLifetime", "validators", "nominatedValidators", "slashProposals",
	} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `"100"`, string(raw["minimumStake"]))
	assert.JSONEq(t, `{"seq":"2","tx":"epoch_tx","height":"1000"}`, string(raw["epoch"]))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, st, loaded)
	assert.Equal(t, st.Hash(), loaded.Hash())
}

func TestLoadFillsEmptyCollections(t *testing.T) {
	st, err := Load(strings.NewReader(`{"epochDuration": 500, "maxNumNominatedValidators": 10, "slashProposalLifetime": 300}`))
	require.NoError(t, err)
	assert.NotNil(t, st.Validators)
	assert.NotNil(t, st.NominatedValidators)
	assert.NotNil(t, st.SlashProposals)
	assert.Equal(t, New().Hash(), st.Hash())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(st *State)
	}{
		{"zero epoch duration", func(st *State) { st.EpochDuration = 0 }},
		{"zero nominees", func(st *State) { st.MaxNumNominatedValidators = 0 }},
		{"unregistered nominee", func(st *State) { st.NominatedValidators = append(st.NominatedValidators, "a9") }},
		{"duplicated nominee", func(st *State) { st.NominatedValidators = append(st.NominatedValidators, "a1") }},
		{"too many nominees", func(st *State) { st.MaxNumNominatedValidators = 1 }},
		{"mismatching proposal id", func(st *State) { st.SlashProposals["tx2"] = st.SlashProposals["tx1"] }},
		{"malformed proposal key", func(st *State) {
			r := st.SlashProposals["tx1"].Copy()
			r.Proposal.ID = "bad key"
			st.SlashProposals["bad key"] = r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState(t)
			tt.modify(st)
			assert.Error(t, st.Validate())
		})
	}
}

func TestHashIsCanonical(t *testing.T) {
	a := newTestState(t)
	b := newTestState(t)
	assert.Equal(t, a.Hash(), b.Hash())

	// nominees keep their order, it is part of the state
	b.NominatedValidators = []bundlr.Address{"a1", "a2"}
	assert.NotEqual(t, a.Hash(), b.Hash())

	c := newTestState(t)
	c.MinimumStake = bundlr.NewAmount(101)
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestSlashingParams(t *testing.T) {
	st := newTestState(t)
	assert.Equal(t, slashing.Params{EpochDuration: st.EpochDuration, Lifetime: st.SlashProposalLifetime}, st.SlashingParams())
	assert.True(t, st.IsNominated("a1"))
	assert.False(t, st.IsNominated("a3"))
}
