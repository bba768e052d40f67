// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial validators state, together with the token ledger backing the
// stakes, from a YAML document.
package genesis

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/custody"
	"github.com/bundlr/validators/registry"
	"github.com/bundlr/validators/state"
)

// Genesis is user customized genesis.
//
//	bundler: <address>
//	bundlersContract: <address>
//	token: <address>
//	contract: <address>
//	epochDuration: 500
//	minimumStake: "100"
//	validators:
//	  - address: <address>
//	    stake: "1000"
//	    url: https://validator.example.com
//	accounts:
//	  - address: <address>
//	    balance: "5000"
type Genesis struct {
	Bundler                   bundlr.Address `yaml:"bundler"`
	BundlersContract          bundlr.Address `yaml:"bundlersContract"`
	Token                     bundlr.Address `yaml:"token"`
	Contract                  bundlr.Address `yaml:"contract"`
	EpochDuration             *uint64        `yaml:"epochDuration"`
	MinimumStake              Decimal        `yaml:"minimumStake"`
	MaxNumNominatedValidators *uint8         `yaml:"maxNumNominatedValidators"`
	SlashProposalLifetime     *uint64        `yaml:"slashProposalLifetime"`
	Validators                []Validator    `yaml:"validators"`
	Accounts                  []Account      `yaml:"accounts"`
}

// Validator is a validator registered at genesis. Its stake is held by the contract.
type Validator struct {
	Address bundlr.Address `yaml:"address"`
	Stake   Decimal        `yaml:"stake"`
	URL     string         `yaml:"url"`
}

// Account is a token holder funded at genesis.
type Account struct {
	Address bundlr.Address `yaml:"address"`
	Balance Decimal        `yaml:"balance"`
}

// Decimal is a token amount written as a decimal string or integer.
type Decimal bundlr.Amount

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Decimal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", value.Line)
	}
	amount, err := bundlr.ParseAmount(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*d = Decimal(amount)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Decimal) MarshalYAML() (any, error) {
	return bundlr.Amount(d).String(), nil
}

// Load decodes a genesis document. Unknown keys are rejected.
func Load(r io.Reader) (*Genesis, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// Build creates the initial state and a ledger where the contract holds every validator's
// stake and the accounts hold their balances.
func (gen *Genesis) Build() (*state.State, *custody.Ledger, error) {
	for name, addr := range map[string]bundlr.Address{
		"bundler":          gen.Bundler,
		"bundlersContract": gen.BundlersContract,
		"token":            gen.Token,
		"contract":         gen.Contract,
	} {
		if _, err := bundlr.ParseAddress(string(addr)); err != nil {
			return nil, nil, errors.Wrap(err, name)
		}
	}

	st := state.New()
	st.Bundler = gen.Bundler
	st.BundlersContract = gen.BundlersContract
	st.Token = gen.Token
	st.MinimumStake = bundlr.Amount(gen.MinimumStake)
	if gen.EpochDuration != nil {
		st.EpochDuration = *gen.EpochDuration
	}
	if gen.MaxNumNominatedValidators != nil {
		st.MaxNumNominatedValidators = *gen.MaxNumNominatedValidators
	}
	if gen.SlashProposalLifetime != nil {
		st.SlashProposalLifetime = *gen.SlashProposalLifetime
	}

	ledger := custody.NewLedger(gen.Contract)
	validators := make([]registry.Validator, 0, len(gen.Validators))
	for _, v := range gen.Validators {
		if _, err := bundlr.ParseAddress(string(v.Address)); err != nil {
			return nil, nil, errors.Wrap(err, "validator")
		}
		stake := bundlr.Amount(v.Stake)
		if stake.Cmp(st.MinimumStake) < 0 {
			return nil, nil, errors.Errorf("validator %s: stake %s below minimum %s", v.Address, stake, st.MinimumStake)
		}
		url, err := registry.ParseURL(v.URL)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "validator %s", v.Address)
		}
		validators = append(validators, registry.Validator{Address: v.Address, Stake: stake, URL: url})
		if err := ledger.Mint(gen.Token, gen.Contract, stake); err != nil {
			return nil, nil, errors.Wrapf(err, "validator %s", v.Address)
		}
	}
	reg, err := registry.New(validators...)
	if err != nil {
		return nil, nil, err
	}
	st.Validators = reg

	for _, a := range gen.Accounts {
		if _, err := bundlr.ParseAddress(string(a.Address)); err != nil {
			return nil, nil, errors.Wrap(err, "account")
		}
		if bundlr.Amount(a.Balance).IsZero() {
			return nil, nil, errors.Errorf("account %s: balance must be a non-zero integer", a.Address)
		}
		if err := ledger.Mint(gen.Token, a.Address, bundlr.Amount(a.Balance)); err != nil {
			return nil, nil, errors.Wrapf(err, "account %s", a.Address)
		}
	}

	if err := st.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "genesis state")
	}
	return st, ledger, nil
}
