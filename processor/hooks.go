// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/slashing"
)

// outcomeHooks reports closed votings. Slashing the bundler and ejecting the proposer of a
// rejected proposal are left to the bundlers contract.
type outcomeHooks struct{}

var _ slashing.Hooks = (*outcomeHooks)(nil)

func (h *outcomeHooks) OnPositive(subject bundlr.TransactionID, rec *slashing.Record) {
	h.report(subject, rec, slashing.VoteFor)
}

func (h *outcomeHooks) OnNegative(subject bundlr.TransactionID, rec *slashing.Record) {
	h.report(subject, rec, slashing.VoteAgainst)
}

func (h *outcomeHooks) report(subject bundlr.TransactionID, rec *slashing.Record, outcome slashing.Vote) {
	metricVotingsClosed().AddWithLabel(1, map[string]string{"outcome": outcome.String()})
	logger.Info("slash voting closed",
		"subject", subject,
		"proposer", rec.Proposer,
		"accused", rec.Proposal.Validator,
		"outcome", outcome,
		"ballots", len(rec.Voting.Ballots()),
	)
}
