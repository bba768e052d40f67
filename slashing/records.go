// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"io"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/bundlr/validators/bundlr"
	"github.com/bundlr/validators/epoch"
	"github.com/bundlr/validators/reverts"
)

// Records maps the subject transaction id of a proposal to its record.
// Methods mutate the receiver in place, callers operate on a clone.
type Records map[bundlr.TransactionID]*Record

var _ rlp.Encoder = Records(nil)

// Keys returns the subject ids in ascending order.
func (rs Records) Keys() []bundlr.TransactionID {
	return slices.Sorted(maps.Keys(rs))
}

// Clone returns a deep copy.
func (rs Records) Clone() Records {
	cpy := make(Records, len(rs))
	for k, r := range rs {
		cpy[k] = r.Copy()
	}
	return cpy
}

// Propose registers a new slash proposal on behalf of caller, who votes for it.
// A validator can make a single proposal per epoch.
func (rs Records) Propose(
	stakes Stakes,
	ep epoch.Epoch,
	params Params,
	caller bundlr.Address,
	currentTx bundlr.TransactionID,
	height uint64,
	proposal Proposal,
) (bundlr.TransactionID, error) {
	if !stakes.Contains(caller) {
		return "", reverts.InvalidValidator(caller)
	}
	subject, err := bundlr.ParseTransactionID(proposal.ID)
	if err != nil {
		return "", reverts.ParseError("failed to parse transaction id: %s", proposal.ID)
	}
	if _, ok := rs[subject]; ok {
		return "", reverts.AlreadyProposed(subject)
	}

	start := ep.WindowStart(height, params.EpochDuration)
	for _, r := range rs {
		if r.Proposer == caller && r.Height >= start {
			return "", reverts.TooManyProposals(caller)
		}
	}

	rs[subject] = &Record{
		Proposal: proposal,
		Proposer: caller,
		Height:   height,
		Tx:       currentTx,
		Voting:   NewOpenVoting(map[bundlr.Address]Vote{caller: VoteFor}),
	}
	return subject, nil
}

// Vote casts caller's vote on the proposal about subject. The voting closes as soon as every
// validator voted or the stake that has not voted can no longer flip the result.
// It returns whether the vote closed the voting.
func (rs Records) Vote(
	stakes Stakes,
	params Params,
	caller bundlr.Address,
	height uint64,
	subject bundlr.TransactionID,
	vote Vote,
	hooks Hooks,
) (bool, error) {
	if !stakes.Contains(caller) {
		return false, reverts.InvalidValidator(caller)
	}
	r, ok := rs[subject]
	if !ok {
		return false, reverts.InvalidTransactionID(subject)
	}
	if !r.Voting.IsOpen() {
		return false, reverts.VotingClosed(subject)
	}
	if r.Expired(height, params.Lifetime) {
		return false, reverts.ProposalExpired(subject)
	}
	if !vote.Valid() {
		return false, reverts.ParseError("invalid vote %d", uint8(vote))
	}
	if !r.Voting.cast(caller, vote) {
		return false, reverts.AlreadyVoted(caller)
	}

	tally := Evaluate(stakes, r.Voting.open)
	if !tally.Conclusive() {
		return false, nil
	}
	r.Voting.close(stakes, tally.Outcome())
	notify(hooks, subject, r)
	return true, nil
}

// Sweep closes every open proposal whose lifetime ended before height. The outcome of the
// votes is honored only if strictly more than 75% of the total stake voted, otherwise the
// proposal is rejected. It returns the closed subjects in ascending order.
func (rs Records) Sweep(stakes Stakes, params Params, height uint64, hooks Hooks) []bundlr.TransactionID {
	var closed []bundlr.TransactionID
	for _, subject := range rs.Keys() {
		r := rs[subject]
		if !r.Voting.IsOpen() || bundlr.AddHeight(r.Height, params.Lifetime) >= height {
			continue
		}
		tally := Evaluate(stakes, r.Voting.open)
		final := VoteAgainst
		if tally.Quorum() {
			final = tally.Outcome()
		}
		r.Voting.close(stakes, final)
		notify(hooks, subject, r)
		closed = append(closed, subject)
	}
	return closed
}

type rlpRecord struct {
	Subject  bundlr.TransactionID
	Proposal Proposal
	Proposer bundlr.Address
	Height   uint64
	Tx       bundlr.TransactionID
	Voting   Voting
}

// EncodeRLP encodes the records ordered by subject.
func (rs Records) EncodeRLP(w io.Writer) error {
	list := make([]rlpRecord, 0, len(rs))
	for _, subject := range rs.Keys() {
		r := rs[subject]
		list = append(list, rlpRecord{
			Subject:  subject,
			Proposal: r.Proposal,
			Proposer: r.Proposer,
			Height:   r.Height,
			Tx:       r.Tx,
			Voting:   r.Voting,
		})
	}
	return rlp.Encode(w, list)
}
