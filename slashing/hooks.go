// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import "github.com/bundlr/validators/bundlr"

// Hooks are notified when a voting closes. Implementations must not modify the record.
type Hooks interface {
	// OnPositive is called when validators voted for the bundler to be slashed.
	OnPositive(subject bundlr.TransactionID, rec *Record)
	// OnNegative is called when the proposal was rejected.
	OnNegative(subject bundlr.TransactionID, rec *Record)
}

// NoopHooks ignores every outcome.
type NoopHooks struct{}

func (NoopHooks) OnPositive(bundlr.TransactionID, *Record) {}
func (NoopHooks) OnNegative(bundlr.TransactionID, *Record) {}

func notify(hooks Hooks, subject bundlr.TransactionID, rec *Record) {
	if hooks == nil {
		return
	}
	final, _ := rec.Voting.Final()
	if final == VoteFor {
		hooks.OnPositive(subject, rec)
	} else {
		hooks.OnNegative(subject, rec)
	}
}
