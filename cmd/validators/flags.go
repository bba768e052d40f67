// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bundlr/validators/bundlr"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-log",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the genesis YAML document",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "use the built-in dev network genesis",
	}
	stateFlag = cli.StringFlag{
		Name:  "state",
		Value: "state.json",
		Usage: "path to the state JSON document",
	}
	ledgerFlag = cli.StringFlag{
		Name:  "ledger",
		Usage: "path to the token ledger JSON document, required by join and leave",
	}
	callsFlag = cli.StringFlag{
		Name:  "calls",
		Usage: "path to the YAML list of calls",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "path the resulting state is written to (stdout if empty)",
	}
	ledgerOutFlag = cli.StringFlag{
		Name:  "ledger-out",
		Usage: "path the resulting token ledger is written to",
	}
	runsFlag = cli.IntFlag{
		Name:  "runs",
		Value: 4,
		Usage: "number of concurrent re-executions",
	}
	txFlag = cli.StringFlag{
		Name:  "tx",
		Usage: "transaction id seeding the nomination",
	}
	heightFlag = cli.Uint64Flag{
		Name:  "height",
		Usage: "block height the rotation would happen at",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "sampler-cache-size",
		Value: bundlr.SamplerCacheSize(),
		Usage: "number of memoized nominations",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "dump the decoded state value",
	}
)
