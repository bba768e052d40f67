// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/registry"
	"github.com/bundlr/validators/reverts"
	"github.com/bundlr/validators/state"
)

var errNoCustody = errors.New("no custody configured")

// join registers the caller with stake, which is taken into custody first.
func (p *Processor) join(ctx context.Context, st *state.State, env Env, stake bundlr.Amount, rawURL string) error {
	url, err := registry.ParseURL(rawURL)
	if err != nil {
		return reverts.ParseError("url: %v", err)
	}
	if st.Validators.Contains(env.Caller) {
		return reverts.InvalidCaller(env.Caller)
	}
	if stake.Cmp(st.MinimumStake) < 0 {
		return reverts.StakeTooLow(env.Caller, st.MinimumStake)
	}
	if p.custody == nil {
		return reverts.TransferFailed(env.Caller, errNoCustody)
	}
	if err := p.custody.TransferFrom(ctx, st.Token, env.Caller, stake); err != nil {
		return reverts.TransferFailed(env.Caller, err)
	}
	if err := st.Validators.Add(registry.Validator{Address: env.Caller, Stake: stake, URL: url}); err != nil {
		return reverts.RuntimeError("add validator: %v", err)
	}

	logger.Info("validator joined", "validator", env.Caller, "stake", stake, "url", url)
	return nil
}

// leave removes the caller and pays its stake back. Nominated validators have to wait for
// the next epoch.
func (p *Processor) leave(ctx context.Context, st *state.State, env Env) error {
	if st.IsNominated(env.Caller) {
		return reverts.NominatedValidatorCannotLeave(env.Caller)
	}
	v, ok := st.Validators.Get(env.Caller)
	if !ok {
		return reverts.InvalidValidator(env.Caller)
	}
	if p.custody == nil {
		return reverts.TransferFailed(env.Caller, errNoCustody)
	}
	if err := p.custody.Transfer(ctx, st.Token, env.Caller, v.Stake); err != nil {
		return reverts.TransferFailed(env.Caller, err)
	}
	st.Validators.Remove(env.Caller)

	logger.Info("validator left", "validator", env.Caller, "stake", v.Stake)
	return nil
}
