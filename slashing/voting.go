// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
)

// Ballot is a vote frozen together with the voter's stake at closing time.
type Ballot struct {
	Vote  Vote
	Stake bundlr.Amount
}

// MarshalJSON encodes the ballot as a [vote, stake] pair.
func (b Ballot) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{b.Vote, b.Stake})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Ballot) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.Errorf("ballot: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &b.Vote); err != nil {
		return errors.Wrap(err, "ballot vote")
	}
	if err := json.Unmarshal(pair[1], &b.Stake); err != nil {
		return errors.Wrap(err, "ballot stake")
	}
	return nil
}

// Voting is either open, collecting votes, or closed with the ballots and the final vote.
// A closed voting never changes again.
type Voting struct {
	open    map[bundlr.Address]Vote
	ballots map[bundlr.Address]Ballot
	final   Vote
}

var (
	_ json.Marshaler   = Voting{}
	_ json.Unmarshaler = (*Voting)(nil)
	_ rlp.Encoder      = Voting{}
)

// NewOpenVoting creates an open voting with the given votes.
func NewOpenVoting(votes map[bundlr.Address]Vote) Voting {
	open := maps.Clone(votes)
	if open == nil {
		open = make(map[bundlr.Address]Vote)
	}
	return Voting{open: open}
}

// NewClosedVoting creates a concluded voting.
func NewClosedVoting(ballots map[bundlr.Address]Ballot, final Vote) Voting {
	closed := maps.Clone(ballots)
	if closed == nil {
		closed = make(map[bundlr.Address]Ballot)
	}
	return Voting{ballots: closed, final: final}
}

// IsOpen returns whether votes are still accepted.
func (v Voting) IsOpen() bool {
	return v.ballots == nil
}

// Votes returns a copy of the votes cast so far, stakes excluded.
func (v Voting) Votes() map[bundlr.Address]Vote {
	if v.IsOpen() {
		return maps.Clone(v.open)
	}
	votes := make(map[bundlr.Address]Vote, len(v.ballots))
	for addr, b := range v.ballots {
		votes[addr] = b.Vote
	}
	return votes
}

// Ballots returns a copy of the frozen ballots. It is nil while the voting is open.
func (v Voting) Ballots() map[bundlr.Address]Ballot {
	return maps.Clone(v.ballots)
}

// Final returns the final vote once closed.
func (v Voting) Final() (Vote, bool) {
	if v.IsOpen() {
		return 0, false
	}
	return v.final, true
}

// Copy returns a deep copy.
func (v Voting) Copy() Voting {
	if v.IsOpen() {
		return NewOpenVoting(v.open)
	}
	return NewClosedVoting(v.ballots, v.final)
}

// cast records a vote and reports whether the voter had already voted.
func (v *Voting) cast(voter bundlr.Address, vote Vote) bool {
	if _, ok := v.open[voter]; ok {
		return false
	}
	if v.open == nil {
		v.open = make(map[bundlr.Address]Vote)
	}
	v.open[voter] = vote
	return true
}

// close freezes every vote with the voter's current stake.
func (v *Voting) close(stakes Stakes, final Vote) {
	ballots := make(map[bundlr.Address]Ballot, len(v.open))
	for addr, vote := range v.open {
		ballots[addr] = Ballot{Vote: vote, Stake: stakes.StakeOf(addr)}
	}
	*v = Voting{ballots: ballots, final: final}
}

type jsonClosed struct {
	Votes     map[bundlr.Address]Ballot `json:"votes"`
	FinalVote Vote                      `json:"final_vote"`
}

// MarshalJSON encodes {"Open": {...}} or {"Closed": {"votes": {...}, "final_vote": ...}}.
func (v Voting) MarshalJSON() ([]byte, error) {
	if v.IsOpen() {
		open := v.open
		if open == nil {
			open = map[bundlr.Address]Vote{}
		}
		return json.Marshal(map[string]any{"Open": open})
	}
	return json.Marshal(map[string]any{"Closed": jsonClosed{Votes: v.ballots, FinalVote: v.final}})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Voting) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return errors.New("voting: expected exactly one of Open or Closed")
	}
	if msg, ok := raw["Open"]; ok {
		var open map[bundlr.Address]Vote
		if err := json.Unmarshal(msg, &open); err != nil {
			return errors.Wrap(err, "open voting")
		}
		*v = NewOpenVoting(open)
		return nil
	}
	if msg, ok := raw["Closed"]; ok {
		var closed jsonClosed
		if err := json.Unmarshal(msg, &closed); err != nil {
			return errors.Wrap(err, "closed voting")
		}
		if !closed.FinalVote.Valid() {
			return errors.New("closed voting: missing final_vote")
		}
		*v = NewClosedVoting(closed.Votes, closed.FinalVote)
		return nil
	}
	return errors.New("voting: expected Open or Closed")
}

type rlpVote struct {
	Voter bundlr.Address
	Vote  Vote
}

type rlpBallot struct {
	Voter bundlr.Address
	Vote  Vote
	Stake bundlr.Amount
}

// EncodeRLP encodes the voting with voters in address order.
func (v Voting) EncodeRLP(w io.Writer) error {
	if v.IsOpen() {
		votes := make([]rlpVote, 0, len(v.open))
		for _, addr := range slices.Sorted(maps.Keys(v.open)) {
			votes = append(votes, rlpVote{addr, v.open[addr]})
		}
		return rlp.Encode(w, []any{uint(0), votes})
	}
	ballots := make([]rlpBallot, 0, len(v.ballots))
	for _, addr := range slices.Sorted(maps.Keys(v.ballots)) {
		b := v.ballots[addr]
		ballots = append(ballots, rlpBallot{addr, b.Vote, b.Stake})
	}
	return rlp.Encode(w, []any{uint(1), ballots, v.final})
}
