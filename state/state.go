// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state defines the state value every call transforms. A State is treated as immutable
// by its consumers: a call clones it, modifies the clone and returns the clone.
package state

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/epoch"
	"github.com/bundlr/validators/registry"
	"github.com/bundlr/validators/slashing"
)

// State is the complete state of the validators registry.
type State struct {
	Bundler                   bundlr.Address     `json:"bundler"`
	BundlersContract          bundlr.Address     `json:"bundlersContract"`
	Token                     bundlr.Address     `json:"token"`
	Epoch                     epoch.Epoch        `json:"epoch"`
	EpochDuration             uint64             `json:"epochDuration"`
	MinimumStake              bundlr.Amount      `json:"minimumStake"`
	MaxNumNominatedValidators uint8              `json:"maxNumNominatedValidators"`
	SlashProposalLifetime     uint64             `json:"slashProposalLifetime"`
	Validators                *registry.Registry `json:"validators"`
	NominatedValidators       []bundlr.Address   `json:"nominatedValidators"`
	SlashProposals            slashing.Records   `json:"slashProposals"`
}

var (
	_ json.Unmarshaler = (*State)(nil)
	_ rlp.Encoder      = (*State)(nil)
)

// New returns an empty state using the package defaults for its parameters.
func New() *State {
	reg, _ := registry.New()
	return &State{
		EpochDuration:             bundlr.EpochDuration(),
		MaxNumNominatedValidators: bundlr.MaxNominatedValidators(),
		SlashProposalLifetime:     bundlr.SlashProposalLifetime(),
		Validators:                reg,
		NominatedValidators:       []bundlr.Address{},
		SlashProposals:            make(slashing.Records),
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	cpy := *s
	cpy.Validators = s.Validators.Clone()
	cpy.NominatedValidators = slices.Clone(s.NominatedValidators)
	if cpy.NominatedValidators == nil {
		cpy.NominatedValidators = []bundlr.Address{}
	}
	cpy.SlashProposals = s.SlashProposals.Clone()
	return &cpy
}

// SlashingParams returns the parameters of the slashing rules.
func (s *State) SlashingParams() slashing.Params {
	return slashing.Params{
		EpochDuration: s.EpochDuration,
		Lifetime:      s.SlashProposalLifetime,
	}
}

// IsNominated returns whether addr is nominated for the current epoch.
func (s *State) IsNominated(addr bundlr.Address) bool {
	return slices.Contains(s.NominatedValidators, addr)
}

// Validate checks the consistency of a decoded state.
func (s *State) Validate() error {
	if s.EpochDuration == 0 {
		return errors.New("epochDuration must be positive")
	}
	if s.MaxNumNominatedValidators == 0 {
		return errors.New("maxNumNominatedValidators must be positive")
	}
	seen := make(map[bundlr.Address]struct{}, len(s.NominatedValidators))
	for _, addr := range s.NominatedValidators {
		if _, ok := seen[addr]; ok {
			return errors.Errorf("validator %s nominated twice", addr)
		}
		seen[addr] = struct{}{}
		if !s.Validators.Contains(addr) {
			return errors.Errorf("nominated validator %s is not registered", addr)
		}
	}
	if len(s.NominatedValidators) > int(s.MaxNumNominatedValidators) {
		return errors.Errorf("%d validators nominated, at most %d allowed", len(s.NominatedValidators), s.MaxNumNominatedValidators)
	}
	for _, subject := range s.SlashProposals.Keys() {
		r := s.SlashProposals[subject]
		if r == nil {
			return errors.Errorf("slash proposal %s: empty record", subject)
		}
		if _, err := bundlr.ParseTransactionID(string(subject)); err != nil {
			return errors.Wrapf(err, "slash proposal %s", subject)
		}
		if r.Proposal.ID != string(subject) {
			return errors.Errorf("slash proposal %s: proposal id %s does not match", subject, r.Proposal.ID)
		}
	}
	return nil
}

// UnmarshalJSON decodes a state, filling absent collections with empty ones.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Validators == nil {
		p.Validators, _ = registry.New()
	}
	if p.NominatedValidators == nil {
		p.NominatedValidators = []bundlr.Address{}
	}
	if p.SlashProposals == nil {
		p.SlashProposals = make(slashing.Records)
	}
	*s = State(p)
	return nil
}

// EncodeRLP writes the canonical encoding of the state: fields in declaration order,
// validators and slash proposals sorted by key.
func (s *State) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		s.Bundler,
		s.BundlersContract,
		s.Token,
		[]any{s.Epoch.Seq, s.Epoch.Tx, s.Epoch.Height},
		s.EpochDuration,
		s.MinimumStake,
		uint(s.MaxNumNominatedValidators),
		s.SlashProposalLifetime,
		s.Validators,
		s.NominatedValidators,
		s.SlashProposals,
	})
}

// Hash returns the Blake2b digest of the canonical encoding. Two states with the same hash are
// the same state.
func (s *State) Hash() bundlr.Bytes32 {
	return bundlr.Blake2bFn(func(w io.Writer) {
		if err := rlp.Encode(w, s); err != nil {
			panic(errors.Wrap(err, "encode state"))
		}
	})
}

// Load reads a JSON encoded state and validates it.
func Load(r io.Reader) (*State, error) {
	var s State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode state")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid state")
	}
	return &s, nil
}

// Save writes the state as indented JSON.
func (s *State) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(s), "encode state")
}
