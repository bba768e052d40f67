// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// validators builds, advances and inspects validators states offline.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bundlr/validators/log"
	"github.com/bundlr/validators/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "cmd")

	closeMetrics = func() {}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "validators",
		Usage:   "validator registry state tool",
		Flags: []cli.Flag{
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Before: before,
		After: func(*cli.Context) error {
			closeMetrics()
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "genesis",
				Usage:  "build the initial state from a genesis document",
				Flags:  []cli.Flag{configFlag, devFlag, outFlag, ledgerOutFlag},
				Action: genesisAction,
			},
			{
				Name:   "apply",
				Usage:  "apply a sequence of calls to a state",
				Flags:  []cli.Flag{stateFlag, ledgerFlag, callsFlag, outFlag, ledgerOutFlag, cacheSizeFlag},
				Action: applyAction,
			},
			{
				Name:   "verify",
				Usage:  "re-execute a sequence of calls concurrently and compare the results",
				Flags:  []cli.Flag{stateFlag, ledgerFlag, callsFlag, runsFlag, cacheSizeFlag},
				Action: verifyAction,
			},
			{
				Name:   "nominate",
				Usage:  "show the validators a transaction id would nominate",
				Flags:  []cli.Flag{stateFlag, txFlag, heightFlag},
				Action: nominateAction,
			},
			{
				Name:   "inspect",
				Usage:  "print a summary of a state",
				Flags:  []cli.Flag{stateFlag, rawFlag},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func before(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.GlobalBool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.GlobalString(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		logger.Info("metrics server started", "url", url)
		closeMetrics = closeFunc
	}
	return nil
}
