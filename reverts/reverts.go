// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the errors that abort a call. A reverted call leaves the state unchanged
// and the error value is its only observable effect, so every error carries enough payload to be
// serialised back to the caller.
package reverts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bundlr/validators/bundlr"
)

// Kind tags a revert.
type Kind string

const (
	KindInvalidValidator              Kind = "InvalidValidator"
	KindInvalidCaller                 Kind = "InvalidCaller"
	KindNominatedValidatorCannotLeave Kind = "NominatedValidatorCannotLeave"
	KindStakeTooLow                   Kind = "StakeTooLow"
	KindTransferFailed                Kind = "TransferFailed"
	KindAlreadyProposed               Kind = "AlreadyProposed"
	KindTooManyProposals              Kind = "TooManyProposals"
	KindInvalidTransactionID          Kind = "InvalidTransactionId"
	KindProposalExpired               Kind = "ProposalExpired"
	KindVotingClosed                  Kind = "VotingClosed"
	KindAlreadyVoted                  Kind = "AlreadyVoted"
	KindUpdateEpochBlocked            Kind = "UpdateEpochBlocked"
	KindParseError                    Kind = "ParseError"
	KindRuntimeError                  Kind = "RuntimeError"
)

type ErrRevert struct {
	Kind    Kind                 `json:"kind"`
	Address bundlr.Address       `json:"address,omitempty"`
	Tx      bundlr.TransactionID `json:"tx,omitempty"`
	Amount  *bundlr.Amount       `json:"amount,omitempty"`
	Message string               `json:"message,omitempty"`
}

var _ json.Marshaler = (*ErrRevert)(nil)

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		Kind:    kind,
		Message: message,
	}
}

func (e *ErrRevert) Error() string {
	msg := string(e.Kind)
	if !e.Address.IsZero() {
		msg += " address=" + e.Address.String()
	}
	if !e.Tx.IsZero() {
		msg += " tx=" + e.Tx.String()
	}
	if e.Amount != nil {
		msg += " amount=" + e.Amount.String()
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// MarshalJSON implements json.Marshaler.
func (e *ErrRevert) MarshalJSON() ([]byte, error) {
	type plain ErrRevert
	return json.Marshal((*plain)(e))
}

func InvalidValidator(addr bundlr.Address) *ErrRevert {
	return &ErrRevert{Kind: KindInvalidValidator, Address: addr}
}

func InvalidCaller(addr bundlr.Address) *ErrRevert {
	return &ErrRevert{Kind: KindInvalidCaller, Address: addr}
}

func NominatedValidatorCannotLeave(addr bundlr.Address) *ErrRevert {
	return &ErrRevert{Kind: KindNominatedValidatorCannotLeave, Address: addr}
}

func StakeTooLow(addr bundlr.Address, minimum bundlr.Amount) *ErrRevert {
	return &ErrRevert{Kind: KindStakeTooLow, Address: addr, Amount: &minimum}
}

func TransferFailed(addr bundlr.Address, cause error) *ErrRevert {
	e := &ErrRevert{Kind: KindTransferFailed, Address: addr}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

func AlreadyProposed(tx bundlr.TransactionID) *ErrRevert {
	return &ErrRevert{Kind: KindAlreadyProposed, Tx: tx}
}

func TooManyProposals(addr bundlr.Address) *ErrRevert {
	return &ErrRevert{Kind: KindTooManyProposals, Address: addr}
}

func InvalidTransactionID(tx bundlr.TransactionID) *ErrRevert {
	return &ErrRevert{Kind: KindInvalidTransactionID, Tx: tx}
}

func ProposalExpired(tx bundlr.TransactionID) *ErrRevert {
	return &ErrRevert{Kind: KindProposalExpired, Tx: tx}
}

func VotingClosed(tx bundlr.TransactionID) *ErrRevert {
	return &ErrRevert{Kind: KindVotingClosed, Tx: tx}
}

func AlreadyVoted(addr bundlr.Address) *ErrRevert {
	return &ErrRevert{Kind: KindAlreadyVoted, Address: addr}
}

func UpdateEpochBlocked() *ErrRevert {
	return &ErrRevert{Kind: KindUpdateEpochBlocked}
}

func ParseError(format string, args ...any) *ErrRevert {
	return &ErrRevert{Kind: KindParseError, Message: fmt.Sprintf(format, args...)}
}

func RuntimeError(format string, args ...any) *ErrRevert {
	return &ErrRevert{Kind: KindRuntimeError, Message: fmt.Sprintf(format, args...)}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Kind == kind
}

// KindOf returns the kind of a revert, or an empty kind for other errors.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return ""
	}
	return ve.Kind
}
