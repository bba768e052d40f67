// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/bundlr/validators/co"
	"github.com/bundlr/validators/custody"
	"github.com/bundlr/validators/log"
	"github.com/bundlr/validators/metrics"
	"github.com/bundlr/validators/state"
)

func initLogger(ctx *cli.Context) {
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.JSONHandler(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.TerminalHandler(os.Stderr, lvl, useColor)
	}
	log.SetDefault(handler)
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func readState(path string) (*state.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open state")
	}
	defer f.Close()

	st, err := state.Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load state %v", path)
	}
	return st, nil
}

// readLedger loads the token ledger. An empty path yields no ledger.
func readLedger(path string) (*custody.Ledger, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read ledger")
	}
	var ledger custody.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, errors.Wrapf(err, "decode ledger %v", path)
	}
	return &ledger, nil
}

// writeOut creates path and lets write fill it. An empty path writes to stdout.
func writeOut(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
