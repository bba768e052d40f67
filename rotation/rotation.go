// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rotation advances the epoch: it moves the clock, draws the nominated validators of the new
// epoch and closes the slash proposals that outlived their lifetime.
package rotation

import (
	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/epoch"
	"github.com/bundlr/validators/log"
	"github.com/bundlr/validators/reverts"
	"github.com/bundlr/validators/sampler"
	"github.com/bundlr/validators/slashing"
	"github.com/bundlr/validators/state"
)

var logger = log.WithContext("pkg", "rotation")

// Transition is the outcome of a rotation.
type Transition struct {
	Epoch    epoch.Epoch
	Nominees []bundlr.Address
	Closed   []bundlr.TransactionID
}

// Driver performs epoch rotations.
type Driver struct {
	nominator sampler.Nominator
	hooks     slashing.Hooks
}

// NewDriver creates a driver. A nil nominator falls back to sampler.Default and nil hooks
// to slashing.NoopHooks.
func NewDriver(nominator sampler.Nominator, hooks slashing.Hooks) *Driver {
	if nominator == nil {
		nominator = sampler.Default
	}
	if hooks == nil {
		hooks = slashing.NoopHooks{}
	}
	return &Driver{nominator: nominator, hooks: hooks}
}

// Update rotates st to the next epoch, triggered by transaction tx at height.
// st is modified in place and only once every check passed, so a failed update leaves it as it was.
func (d *Driver) Update(st *state.State, tx bundlr.TransactionID, height uint64) (*Transition, error) {
	next, nominees, err := d.computeTransition(st, tx, height)
	if err != nil {
		return nil, err
	}
	closed := d.applyTransition(st, next, nominees, height)

	logger.Debug("epoch rotated",
		"seq", next.Seq,
		"height", next.Height,
		"nominees", len(nominees),
		"closed", len(closed),
	)
	return &Transition{Epoch: next, Nominees: nominees, Closed: closed}, nil
}

func (d *Driver) computeTransition(st *state.State, tx bundlr.TransactionID, height uint64) (epoch.Epoch, []bundlr.Address, error) {
	if !st.Epoch.IsDue(height, st.EpochDuration) {
		return epoch.Epoch{}, nil, reverts.UpdateEpochBlocked()
	}
	if _, err := bundlr.ParseTransactionID(string(tx)); err != nil {
		return epoch.Epoch{}, nil, reverts.ParseError("transaction id %q: %v", tx, err)
	}
	seed, err := sampler.SeedFromTransaction(tx)
	if err != nil {
		return epoch.Epoch{}, nil, err
	}

	next := st.Epoch.Next(tx, st.Epoch.NextHeight(height, st.EpochDuration))
	nominees := d.nominator.Nominate(seed, st.Validators.Addresses(), int(st.MaxNumNominatedValidators))
	return next, nominees, nil
}

func (d *Driver) applyTransition(st *state.State, next epoch.Epoch, nominees []bundlr.Address, height uint64) []bundlr.TransactionID {
	st.Epoch = next
	st.NominatedValidators = nominees
	if st.NominatedValidators == nil {
		st.NominatedValidators = []bundlr.Address{}
	}
	return st.SlashProposals.Sweep(st.Validators, st.SlashingParams(), height, d.hooks)
}
