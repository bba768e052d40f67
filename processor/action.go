// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"bytes"
	"encoding/json"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/reverts"
	"github.com/bundlr/validators/slashing"
)

// Function names an action.
type Function string

const (
	FuncValidators          Function = "validators"
	FuncNominatedValidators Function = "nominatedValidators"
	FuncMinimumStake        Function = "minimumStake"
	FuncToken               Function = "token"
	FuncEpoch               Function = "epoch"
	FuncEpochDuration       Function = "epochDuration"
	FuncBundler             Function = "bundler"
	FuncBundlersContract    Function = "bundlersContract"
	FuncSlashProposal       Function = "slashProposal"
	FuncJoin                Function = "join"
	FuncLeave               Function = "leave"
	FuncUpdateEpoch         Function = "updateEpoch"
	FuncProposeSlash        Function = "proposeSlash"
	FuncVoteSlash           Function = "voteSlash"
)

// IsQuery returns whether the function only reads the state.
func (f Function) IsQuery() bool {
	switch f {
	case FuncValidators, FuncNominatedValidators, FuncMinimumStake, FuncToken, FuncEpoch,
		FuncEpochDuration, FuncBundler, FuncBundlersContract, FuncSlashProposal:
		return true
	}
	return false
}

func (f Function) valid() bool {
	switch f {
	case FuncJoin, FuncLeave, FuncUpdateEpoch, FuncProposeSlash, FuncVoteSlash:
		return true
	}
	return f.IsQuery()
}

// Action is a decoded call input, tagged by Function. Only the payload fields of the function
// are set.
type Action struct {
	Function Function             `json:"function"`
	Tx       bundlr.TransactionID `json:"tx,omitempty"`
	Stake    *bundlr.Amount       `json:"stake,omitempty"`
	URL      string               `json:"url,omitempty"`
	Proposal *slashing.Proposal   `json:"proposal,omitempty"`
	Vote     slashing.Vote        `json:"vote,omitempty"`
}

// DecodeAction decodes a JSON call input such as
//
//	{"function": "voteSlash", "tx": "...", "vote": "for"}
//
// Malformed inputs are reported as ParseError reverts.
func DecodeAction(data []byte) (*Action, error) {
	var a Action
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, reverts.ParseError("decode action: %v", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks that the payload required by the function is present.
func (a *Action) Validate() error {
	if !a.Function.valid() {
		return reverts.ParseError("unknown function %q", a.Function)
	}
	switch a.Function {
	case FuncSlashProposal:
		if a.Tx.IsZero() {
			return reverts.ParseError("%s: missing tx", a.Function)
		}
	case FuncJoin:
		if a.Stake == nil {
			return reverts.ParseError("%s: missing stake", a.Function)
		}
		if a.URL == "" {
			return reverts.ParseError("%s: missing url", a.Function)
		}
	case FuncProposeSlash:
		if a.Proposal == nil {
			return reverts.ParseError("%s: missing proposal", a.Function)
		}
	case FuncVoteSlash:
		if a.Tx.IsZero() {
			return reverts.ParseError("%s: missing tx", a.Function)
		}
		if !a.Vote.Valid() {
			return reverts.ParseError("%s: missing vote", a.Function)
		}
	}
	return nil
}
