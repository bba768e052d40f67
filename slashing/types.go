// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slashing keeps proposals to slash the bundler and runs the stake weighted votes on them.
package slashing

import (
	"encoding/json"
	"fmt"

	"github.com/bundlr/validators/bundlr"
)

// Proposal is the evidence a validator submits against the bundler.
// ID names the bundle transaction the bundler failed to deliver.
type Proposal struct {
	ID        string        `json:"id"`
	Size      uint64        `json:"size"`
	Fee       bundlr.Amount `json:"fee"`
	Currency  string        `json:"currency"`
	Block     uint64        `json:"block,string"`
	Validator string        `json:"validator"`
	Signature string        `json:"signature"`
}

// Vote is a ballot on a proposal.
type Vote uint8

const (
	VoteFor Vote = iota + 1
	VoteAgainst
)

// VoteOf maps a stake weighted result to a vote. A tie is against.
func VoteOf(positive bool) Vote {
	if positive {
		return VoteFor
	}
	return VoteAgainst
}

func (v Vote) String() string {
	switch v {
	case VoteFor:
		return "for"
	case VoteAgainst:
		return "against"
	default:
		return fmt.Sprintf("vote(%d)", uint8(v))
	}
}

// Valid returns whether v is one of the defined votes.
func (v Vote) Valid() bool {
	return v == VoteFor || v == VoteAgainst
}

// ParseVote parses "for" or "against".
func ParseVote(s string) (Vote, error) {
	switch s {
	case "for":
		return VoteFor, nil
	case "against":
		return VoteAgainst, nil
	}
	return 0, fmt.Errorf("invalid vote %q", s)
}

// MarshalJSON implements json.Marshaler.
func (v Vote) MarshalJSON() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid vote %d", uint8(v))
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vote) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVote(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Params are the state parameters the slashing rules depend on.
type Params struct {
	EpochDuration uint64
	Lifetime      uint64
}

// Stakes is the read view of the validator registry used to weight votes.
type Stakes interface {
	Contains(addr bundlr.Address) bool
	StakeOf(addr bundlr.Address) bundlr.Amount
	TotalStake() bundlr.Amount
}

// Record is a slash proposal together with its voting.
type Record struct {
	Proposal Proposal             `json:"proposal"`
	Proposer bundlr.Address       `json:"proposer"`
	Height   uint64               `json:"height,string"`
	Tx       bundlr.TransactionID `json:"tx"`
	Voting   Voting               `json:"voting"`
}

// Expired returns whether the proposal can no longer be voted at height.
func (r *Record) Expired(height, lifetime uint64) bool {
	return height > bundlr.AddHeight(r.Height, lifetime)
}

// Copy returns a deep copy of the record.
func (r *Record) Copy() *Record {
	cpy := *r
	cpy.Voting = r.Voting.Copy()
	return &cpy
}
