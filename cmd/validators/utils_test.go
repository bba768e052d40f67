// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/genesis"
	"github.com/bundlr/validators/metrics"
	"github.com/bundlr/validators/processor"
	"github.com/bundlr/validators/slashing"
	"github.com/bundlr/validators/state"
)

const callsDoc = `
- caller: %[1]s
  height: 10
  input:
    function: updateEpoch
- caller: %[1]s
  height: 20
  input:
    function: proposeSlash
    proposal:
      id: bundle1
      size: 100
      fee: "100"
      currency: BTC
      block: "1900"
      validator: dev-bundler
      signature: sig
- caller: %[2]s
  height: 30
  tx: second_vote
  input:
    function: voteSlash
    tx: bundle1
    vote: against
- caller: %[2]s
  height: 31
  input:
    function: voteSlash
    tx: bundle1
    vote: for
- caller: %[3]s
  height: 40
  input:
    function: join
    stake: "5000"
    url: https://newcomer.example.com
- caller: %[1]s
  height: 41
  input:
    function: slashProposal
    tx: bundle1
`

func devCalls(t *testing.T) []call {
	accs := genesis.DevAccounts()
	doc := strings.NewReplacer("%[1]s", string(accs[4].Address), "%[2]s", string(accs[3].Address), "%[3]s", string(accs[7].Address)).Replace(callsDoc)
	calls, err := loadCalls(strings.NewReader(doc))
	require.NoError(t, err)
	return calls
}

func TestLoadCalls(t *testing.T) {
	calls := devCalls(t)
	require.Len(t, calls, 6)

	assert.Equal(t, processor.FuncUpdateEpoch, calls[0].action.Function)
	assert.Equal(t, uint64(10), calls[0].env.Height)
	assert.Equal(t, deriveTx(0, calls[0].env.Caller, 10), calls[0].env.Tx)
	assert.NotEqual(t, calls[0].env.Tx, calls[1].env.Tx)

	require.NotNil(t, calls[1].action.Proposal)
	assert.Equal(t, "bundle1", calls[1].action.Proposal.ID)
	assert.Equal(t, uint64(1900), calls[1].action.Proposal.Block)
	assert.Equal(t, bundlr.NewAmount(100), calls[1].action.Proposal.Fee)

	assert.Equal(t, bundlr.TransactionID("second_vote"), calls[2].env.Tx)
	assert.Equal(t, slashing.VoteAgainst, calls[2].action.Vote)
	assert.Equal(t, bundlr.NewAmount(5000), *calls[4].action.Stake)
}

func TestLoadCallsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "- caller: a1\n  when: 10\n  input: {function: epoch}\n"},
		{"unknown function", "- caller: a1\n  input: {function: mint}\n"},
		{"missing payload", "- caller: a1\n  input: {function: voteSlash, tx: t1}\n"},
		{"bad caller", "- caller: ''\n  input: {function: epoch}\n"},
		{"bad tx", "- caller: a1\n  tx: 'a b'\n  input: {function: epoch}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadCalls(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	calls, err := loadCalls(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestExecuteAndVerify(t *testing.T) {
	st, ledger, err := genesis.DevNet().Build()
	require.NoError(t, err)
	calls := devCalls(t)

	p, nominator, err := newProcessor(16, ledger.Clone())
	require.NoError(t, err)
	next, reverted, err := execute(context.Background(), p, st, calls, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted, "the second vote of the same validator")
	assert.Equal(t, uint64(1), next.Epoch.Seq)
	assert.Equal(t, 6, next.Validators.Len())
	assert.Contains(t, next.SlashProposals, bundlr.TransactionID("bundle1"))
	assert.Equal(t, 5, st.Validators.Len(), "input state must not change")
	_, _, miss := nominator.Stats().Stats()
	assert.Equal(t, int64(1), miss)

	results, err := reexecute(context.Background(), st, ledger, calls, 4, 16, func() {})
	require.NoError(t, err)
	require.Len(t, results, 4)
	require.NoError(t, compareRuns(results))
	assert.Equal(t, next.Hash(), results[3].Hash())
}

func TestCompareRunsReportsDivergence(t *testing.T) {
	st, _, err := genesis.DevNet().Build()
	require.NoError(t, err)
	other := st.Clone()
	other.EpochDuration++

	err = compareRuns([]*state.State{st, st.Clone(), other})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 2 diverged")
}

func TestWriteOut(t *testing.T) {
	st, ledger, err := genesis.DevNet().Build()
	require.NoError(t, err)

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	ledgerPath := filepath.Join(dir, "ledger.json")
	require.NoError(t, writeOut(statePath, st.Save))
	require.NoError(t, writeOut(ledgerPath, func(w io.Writer) error { return writeJSON(w, ledger) }))

	loaded, err := readState(statePath)
	require.NoError(t, err)
	assert.Equal(t, st.Hash(), loaded.Hash())

	loadedLedger, err := readLedger(ledgerPath)
	require.NoError(t, err)
	a, _ := json.Marshal(ledger)
	b, _ := json.Marshal(loadedLedger)
	assert.JSONEq(t, string(a), string(b))

	none, err := readLedger("")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = readState(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(statePath, []byte(`{"epochDuration": 0}`), 0o600))
	_, err = readState(statePath)
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("served_test").Add(1)

	url, closeFunc, err := startMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closeFunc()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")
	// a set Accept-Encoding keeps the client from decompressing
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(res.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "validators_served_test 1")
}
