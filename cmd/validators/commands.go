// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/custody"
	"github.com/bundlr/validators/epoch"
	"github.com/bundlr/validators/genesis"
	"github.com/bundlr/validators/processor"
	"github.com/bundlr/validators/reverts"
	"github.com/bundlr/validators/sampler"
	"github.com/bundlr/validators/state"
)

func genesisAction(ctx *cli.Context) error {
	var gen *genesis.Genesis
	switch {
	case ctx.Bool(devFlag.Name):
		gen = genesis.DevNet()
	case ctx.String(configFlag.Name) != "":
		f, err := os.Open(ctx.String(configFlag.Name))
		if err != nil {
			return errors.Wrap(err, "open genesis")
		}
		defer f.Close()
		if gen, err = genesis.Load(f); err != nil {
			return err
		}
	default:
		return errors.New("either --config or --dev is required")
	}

	st, ledger, err := gen.Build()
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	if err := writeOut(ctx.String(outFlag.Name), st.Save); err != nil {
		return errors.Wrap(err, "write state")
	}
	if path := ctx.String(ledgerOutFlag.Name); path != "" {
		if err := writeOut(path, func(w io.Writer) error { return writeJSON(w, ledger) }); err != nil {
			return errors.Wrap(err, "write ledger")
		}
	}
	logger.Info("genesis built", "state", st.Hash(), "validators", st.Validators.Len(), "stake", st.Validators.TotalStake())
	return nil
}

// newProcessor creates a processor with a memoizing nominator. ledger may be nil.
func newProcessor(cacheSize int, ledger *custody.Ledger) (*processor.Processor, *sampler.Cached, error) {
	nominator, err := sampler.NewCached(sampler.Default, cacheSize)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sampler cache")
	}
	var c processor.Custody
	if ledger != nil {
		c = ledger
	}
	return processor.New(c, processor.WithNominator(nominator)), nominator, nil
}

// loadInputs reads the state, the optional ledger and the calls named by the command flags.
func loadInputs(ctx *cli.Context) (*state.State, *custody.Ledger, []call, error) {
	st, err := readState(ctx.String(stateFlag.Name))
	if err != nil {
		return nil, nil, nil, err
	}
	ledger, err := readLedger(ctx.String(ledgerFlag.Name))
	if err != nil {
		return nil, nil, nil, err
	}
	path := ctx.String(callsFlag.Name)
	if path == "" {
		return nil, nil, nil, errors.New("--calls is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "open calls")
	}
	defer f.Close()
	calls, err := loadCalls(f)
	if err != nil {
		return nil, nil, nil, err
	}
	return st, ledger, calls, nil
}

// execute applies calls in order. Reverted calls leave the state as is and are counted.
func execute(ctx context.Context, p *processor.Processor, st *state.State, calls []call, step func(int, *processor.Result, error)) (*state.State, int, error) {
	reverted := 0
	for i, c := range calls {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		res, err := p.Handle(ctx, st, c.env, c.action)
		if step != nil {
			step(i, res, err)
		}
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, 0, errors.Wrapf(err, "call %d", i)
			}
			reverted++
			continue
		}
		if res.State != nil {
			st = res.State
		}
	}
	return st, reverted, nil
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func applyAction(ctx *cli.Context) error {
	st, ledger, calls, err := loadInputs(ctx)
	if err != nil {
		return err
	}
	p, nominator, err := newProcessor(ctx.Int(cacheSizeFlag.Name), ledger)
	if err != nil {
		return err
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	bar := pb.New(len(calls)).SetMaxWidth(90)
	bar.Output = os.Stderr
	bar.Start()
	defer func() { bar.NotPrint = true }()

	next, reverted, err := execute(exitCtx, p, st, calls, func(i int, res *processor.Result, err error) {
		bar.Increment()
		c := calls[i]
		switch {
		case err != nil:
			logger.Warn("call reverted", "index", i, "function", c.action.Function, "caller", c.env.Caller, "err", err)
		case res.Query != nil:
			logger.Info("query", "index", i, "function", c.action.Function, "result", fmt.Sprintf("%v", res.Query))
		}
	})
	if err != nil {
		return err
	}
	bar.Finish()

	if err := writeOut(ctx.String(outFlag.Name), next.Save); err != nil {
		return errors.Wrap(err, "write state")
	}
	if path := ctx.String(ledgerOutFlag.Name); path != "" && ledger != nil {
		if err := writeOut(path, func(w io.Writer) error { return writeJSON(w, ledger) }); err != nil {
			return errors.Wrap(err, "write ledger")
		}
	}
	_, hit, miss := nominator.Stats().Stats()
	logger.Info("calls applied",
		"calls", len(calls),
		"reverted", reverted,
		"state", next.Hash(),
		"epoch", next.Epoch.Seq,
		"samplerHit", hit,
		"samplerMiss", miss,
	)
	return nil
}

type nomination struct {
	Seed      string           `json:"seed"`
	Due       *bool            `json:"due,omitempty"`
	Height    *uint64          `json:"height,omitempty"`
	Nominated []bundlr.Address `json:"nominated"`
}

func nominateAction(ctx *cli.Context) error {
	st, err := readState(ctx.String(stateFlag.Name))
	if err != nil {
		return err
	}
	tx, err := bundlr.ParseTransactionID(ctx.String(txFlag.Name))
	if err != nil {
		return errors.Wrap(err, "--tx")
	}
	seed, err := sampler.SeedFromTransaction(tx)
	if err != nil {
		return err
	}

	out := nomination{
		Seed:      bundlr.Bytes32(seed).String(),
		Nominated: sampler.Nominate(seed, st.Validators.Addresses(), int(st.MaxNumNominatedValidators)),
	}
	if ctx.IsSet(heightFlag.Name) {
		height := ctx.Uint64(heightFlag.Name)
		due := st.Epoch.IsDue(height, st.EpochDuration)
		next := st.Epoch.NextHeight(height, st.EpochDuration)
		out.Due = &due
		out.Height = &next
	}
	return writeJSON(os.Stdout, out)
}

type summary struct {
	Hash                bundlr.Bytes32   `json:"hash"`
	Epoch               epoch.Epoch      `json:"epoch"`
	Validators          int              `json:"validators"`
	TotalStake          bundlr.Amount    `json:"totalStake"`
	NominatedValidators []bundlr.Address `json:"nominatedValidators"`
	OpenProposals       int              `json:"openProposals"`
	ClosedProposals     int              `json:"closedProposals"`
}

func inspectAction(ctx *cli.Context) error {
	st, err := readState(ctx.String(stateFlag.Name))
	if err != nil {
		return err
	}
	if ctx.Bool(rawFlag.Name) {
		cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(os.Stdout, st)
		return nil
	}

	s := summary{
		Hash:                st.Hash(),
		Epoch:               st.Epoch,
		Validators:          st.Validators.Len(),
		TotalStake:          st.Validators.TotalStake(),
		NominatedValidators: st.NominatedValidators,
	}
	for _, r := range st.SlashProposals {
		if r.Voting.IsOpen() {
			s.OpenProposals++
		} else {
			s.ClosedProposals++
		}
	}
	return writeJSON(os.Stdout, s)
}
