// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody is an in-memory token ledger holding the stakes of joined validators.
package custody

import (
	"context"
	"encoding/json"
	"maps"
	"sync"

	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownToken        = errors.New("unknown token")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Ledger keeps balances per token. Stakes are moved between the validators and the escrow
// account of the registry. It is safe for concurrent use.
type Ledger struct {
	escrow bundlr.Address

	mu       sync.Mutex
	balances map[bundlr.Address]map[bundlr.Address]bundlr.Amount // token -> holder -> balance
}

// NewLedger creates an empty ledger. escrow is the account holding the stakes.
func NewLedger(escrow bundlr.Address) *Ledger {
	return &Ledger{
		escrow:   escrow,
		balances: make(map[bundlr.Address]map[bundlr.Address]bundlr.Amount),
	}
}

// Escrow returns the escrow account.
func (l *Ledger) Escrow() bundlr.Address {
	return l.escrow
}

// Mint credits amount of token to holder. Balances never exceed bundlr.AmountBits.
func (l *Ledger) Mint(token, holder bundlr.Address, amount bundlr.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[token][holder].CheckedAdd(amount)
	if !ok {
		return errors.Wrapf(ErrBalanceOverflow, "mint %s to %s", amount, holder)
	}
	accounts, ok := l.balances[token]
	if !ok {
		accounts = make(map[bundlr.Address]bundlr.Amount)
		l.balances[token] = accounts
	}
	accounts[holder] = balance
	return nil
}

// BalanceOf returns the balance of holder.
func (l *Ledger) BalanceOf(token, holder bundlr.Address) bundlr.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[token][holder]
}

// TransferFrom moves amount from holder into escrow.
func (l *Ledger) TransferFrom(ctx context.Context, token, from bundlr.Address, amount bundlr.Amount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.move(token, from, l.escrow, amount)
}

// Transfer pays amount out of escrow to holder.
func (l *Ledger) Transfer(ctx context.Context, token, to bundlr.Address, amount bundlr.Amount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.move(token, l.escrow, to, amount)
}

func (l *Ledger) move(token, from, to bundlr.Address, amount bundlr.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, ok := l.balances[token]
	if !ok {
		return errors.Wrapf(ErrUnknownToken, "token %s", token)
	}
	balance := accounts[from]
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "%s holds %s, needs %s", from, balance, amount)
	}
	credited, ok := accounts[to].CheckedAdd(amount)
	if !ok {
		return errors.Wrapf(ErrBalanceOverflow, "%s cannot receive %s", to, amount)
	}
	accounts[from] = balance.Sub(amount)
	accounts[to] = credited
	return nil
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()

	cpy := NewLedger(l.escrow)
	for token, accounts := range l.balances {
		cpy.balances[token] = maps.Clone(accounts)
	}
	return cpy
}

type jsonLedger struct {
	Escrow   bundlr.Address                                      `json:"escrow"`
	Balances map[bundlr.Address]map[bundlr.Address]bundlr.Amount `json:"balances"`
}

// MarshalJSON implements json.Marshaler.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return json.Marshal(jsonLedger{Escrow: l.escrow, Balances: l.balances})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var jl jsonLedger
	if err := json.Unmarshal(data, &jl); err != nil {
		return err
	}
	if jl.Balances == nil {
		jl.Balances = make(map[bundlr.Address]map[bundlr.Address]bundlr.Amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.escrow = jl.Escrow
	l.balances = jl.Balances
	return nil
}
