// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bundlr/validators/custody"
	"github.com/bundlr/validators/processor"
	"github.com/bundlr/validators/state"
)

func verifyAction(ctx *cli.Context) error {
	st, ledger, calls, err := loadInputs(ctx)
	if err != nil {
		return err
	}
	runs := ctx.Int(runsFlag.Name)
	if runs < 2 {
		return errors.New("--runs must be at least 2")
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	bar := pb.New(runs * len(calls)).SetMaxWidth(90)
	bar.Output = os.Stderr
	bar.Start()
	defer func() { bar.NotPrint = true }()

	results, err := reexecute(exitCtx, st, ledger, calls, runs, ctx.Int(cacheSizeFlag.Name), func() { bar.Increment() })
	if err != nil {
		return err
	}
	bar.Finish()

	if err := compareRuns(results); err != nil {
		return err
	}
	logger.Info("runs agree", "runs", runs, "calls", len(calls), "state", results[0].Hash())
	return nil
}

// reexecute applies calls to independent copies of st and ledger concurrently.
func reexecute(ctx context.Context, st *state.State, ledger *custody.Ledger, calls []call, runs, cacheSize int, step func()) ([]*state.State, error) {
	results := make([]*state.State, runs)
	g, gctx := errgroup.WithContext(ctx)
	for i := range runs {
		var cpy *custody.Ledger
		if ledger != nil {
			cpy = ledger.Clone()
		}
		p, _, err := newProcessor(cacheSize, cpy)
		if err != nil {
			return nil, err
		}
		input := st.Clone()
		g.Go(func() error {
			next, _, err := execute(gctx, p, input, calls, func(int, *processor.Result, error) { step() })
			if err != nil {
				return errors.Wrapf(err, "run %d", i)
			}
			results[i] = next
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// compareRuns checks that every run reached the state of the first one. The first divergence is
// reported as a unified diff of the JSON documents.
func compareRuns(results []*state.State) error {
	want := results[0].Hash()
	for i, r := range results[1:] {
		if r.Hash() == want {
			continue
		}
		var a, b bytes.Buffer
		if err := results[0].Save(&a); err != nil {
			return err
		}
		if err := r.Save(&b); err != nil {
			return err
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(a.String()),
			B:        difflib.SplitLines(b.String()),
			FromFile: "run 0",
			ToFile:   fmt.Sprintf("run %d", i+1),
			Context:  3,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, diff)
		return errors.Errorf("run %d diverged: %v != %v", i+1, r.Hash(), want)
	}
	return nil
}
