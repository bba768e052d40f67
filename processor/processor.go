// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package processor applies calls to the validators state. Every call gets the state, the action
// and the facts the host vouches for (caller, transaction id and block height) and returns either
// a new state, a query response or a revert. The input state is never modified.
package processor

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/log"
	"github.com/bundlr/validators/reverts"
	"github.com/bundlr/validators/rotation"
	"github.com/bundlr/validators/sampler"
	"github.com/bundlr/validators/state"
)

var logger = log.WithContext("pkg", "processor")

// Custody moves stakes between validators and the registry.
type Custody interface {
	// TransferFrom moves amount of token from holder to the registry.
	TransferFrom(ctx context.Context, token, from bundlr.Address, amount bundlr.Amount) error
	// Transfer pays amount of token from the registry to holder.
	Transfer(ctx context.Context, token, to bundlr.Address, amount bundlr.Amount) error
}

// Env carries the facts of the current call.
type Env struct {
	Caller bundlr.Address
	Tx     bundlr.TransactionID
	Height uint64
}

// Result is the outcome of a successful call. Exactly one of State and Query is set.
type Result struct {
	State *state.State
	Query any
}

// Processor handles calls.
type Processor struct {
	custody   Custody
	nominator sampler.Nominator
	driver    *rotation.Driver
	hooks     *outcomeHooks
}

// Option configures a Processor.
type Option func(*Processor)

// WithNominator replaces the nominee sampler.
func WithNominator(n sampler.Nominator) Option {
	return func(p *Processor) {
		p.nominator = n
	}
}

// New creates a processor. custody may be nil when join and leave are not used.
func New(custody Custody, opts ...Option) *Processor {
	p := &Processor{
		custody:   custody,
		nominator: sampler.Default,
		hooks:     &outcomeHooks{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.driver = rotation.NewDriver(p.nominator, p.hooks)
	return p
}

// Handle applies action to st.
func (p *Processor) Handle(ctx context.Context, st *state.State, env Env, action *Action) (res *Result, err error) {
	if action == nil {
		return nil, reverts.ParseError("missing action")
	}
	start := time.Now()
	defer func() {
		metricCallDuration().Observe(time.Since(start).Microseconds())
		if err != nil {
			kind := reverts.KindOf(err)
			if kind == "" {
				kind = "internal"
			}
			metricCallReverts().AddWithLabel(1, map[string]string{"function": string(action.Function), "kind": string(kind)})
			logger.Debug("call reverted", "function", action.Function, "caller", env.Caller, "height", env.Height, "err", err)
			return
		}
		metricCalls().AddWithLabel(1, map[string]string{"function": string(action.Function)})
	}()

	logger.Debug("handle call", "function", action.Function, "caller", env.Caller, "tx", env.Tx, "height", env.Height)

	if err := action.Validate(); err != nil {
		return nil, err
	}
	if _, err := bundlr.ParseAddress(string(env.Caller)); err != nil {
		return nil, reverts.ParseError("caller: %v", err)
	}
	if _, err := bundlr.ParseTransactionID(string(env.Tx)); err != nil {
		return nil, reverts.ParseError("transaction id: %v", err)
	}

	if action.Function.IsQuery() {
		q, err := query(st, action)
		if err != nil {
			return nil, err
		}
		return &Result{Query: q}, nil
	}

	next := st.Clone()
	switch action.Function {
	case FuncJoin:
		err = p.join(ctx, next, env, *action.Stake, action.URL)
	case FuncLeave:
		err = p.leave(ctx, next, env)
	case FuncUpdateEpoch:
		err = p.updateEpoch(next, env)
	case FuncProposeSlash:
		_, err = next.SlashProposals.Propose(next.Validators, next.Epoch, next.SlashingParams(), env.Caller, env.Tx, env.Height, *action.Proposal)
	case FuncVoteSlash:
		_, err = next.SlashProposals.Vote(next.Validators, next.SlashingParams(), env.Caller, env.Height, action.Tx, action.Vote, p.hooks)
	default:
		err = errors.Errorf("unhandled function %q", action.Function)
	}
	if err != nil {
		return nil, err
	}
	return &Result{State: next}, nil
}

func (p *Processor) updateEpoch(st *state.State, env Env) error {
	tr, err := p.driver.Update(st, env.Tx, env.Height)
	if err != nil {
		return err
	}
	metricEpochSeq().Set(int64(tr.Epoch.Seq))
	logger.Info("epoch updated",
		"seq", tr.Epoch.Seq,
		"height", tr.Epoch.Height,
		"tx", tr.Epoch.Tx.AbbrevString(),
		"nominated", len(tr.Nominees),
		"expired", len(tr.Closed),
	)
	return nil
}
