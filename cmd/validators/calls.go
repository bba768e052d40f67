// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/processor"
)

// callEntry is one entry of a calls document, a YAML list such as
//
//	[{caller: <address>, height: 1200, tx: <transaction id>, input: {function: voteSlash, tx: <proposal id>, vote: for}}]
//
// tx is optional.
type callEntry struct {
	Caller string         `yaml:"caller"`
	Height uint64         `yaml:"height"`
	Tx     string         `yaml:"tx"`
	Input  map[string]any `yaml:"input"`
}

// call is a decoded call ready to be handled.
type call struct {
	env    processor.Env
	action *processor.Action
}

// loadCalls decodes a calls document. Calls without a transaction id get one derived from
// their position, caller and height.
func loadCalls(r io.Reader) ([]call, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []callEntry
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode calls")
	}

	calls := make([]call, 0, len(entries))
	for i, e := range entries {
		input, err := json.Marshal(e.Input)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d", i)
		}
		action, err := processor.DecodeAction(input)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d", i)
		}
		caller, err := bundlr.ParseAddress(e.Caller)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d: caller", i)
		}
		tx := deriveTx(i, caller, e.Height)
		if e.Tx != "" {
			if tx, err = bundlr.ParseTransactionID(e.Tx); err != nil {
				return nil, errors.Wrapf(err, "call %d: tx", i)
			}
		}
		calls = append(calls, call{
			env:    processor.Env{Caller: caller, Tx: tx, Height: e.Height},
			action: action,
		})
	}
	return calls, nil
}

func deriveTx(index int, caller bundlr.Address, height uint64) bundlr.TransactionID {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(index))
	binary.BigEndian.PutUint64(buf[8:], height)
	h := bundlr.Blake2b(buf[:], []byte(caller))
	return bundlr.TransactionID(base64.RawURLEncoding.EncodeToString(h[:]))
}
