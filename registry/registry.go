// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the set of joined validators. Validators are always enumerated in
// ascending address order so that anything derived from the set is reproducible.
package registry

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
)

// Registry maps addresses to validators.
type Registry struct {
	entries []Validator // sorted by address
}

var (
	_ json.Marshaler   = (*Registry)(nil)
	_ json.Unmarshaler = (*Registry)(nil)
	_ rlp.Encoder      = (*Registry)(nil)
)

// New creates a registry. Duplicated addresses are rejected.
func New(validators ...Validator) (*Registry, error) {
	r := &Registry{entries: make([]Validator, 0, len(validators))}
	for _, v := range validators {
		if err := r.Add(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) search(addr bundlr.Address) (int, bool) {
	return slices.BinarySearchFunc(r.entries, addr, func(v Validator, a bundlr.Address) int {
		return v.Address.Compare(a)
	})
}

// Len returns the number of validators.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Get returns the validator registered under addr.
func (r *Registry) Get(addr bundlr.Address) (Validator, bool) {
	i, ok := r.search(addr)
	if !ok {
		return Validator{}, false
	}
	return r.entries[i], true
}

// Contains returns if addr is registered.
func (r *Registry) Contains(addr bundlr.Address) bool {
	_, ok := r.search(addr)
	return ok
}

// StakeOf returns the stake of addr, zero if not registered.
func (r *Registry) StakeOf(addr bundlr.Address) bundlr.Amount {
	v, _ := r.Get(addr)
	return v.Stake
}

// TotalStake sums the stake of all validators.
func (r *Registry) TotalStake() bundlr.Amount {
	var total bundlr.Amount
	for _, v := range r.entries {
		total = total.Add(v.Stake)
	}
	return total
}

// Add registers a validator.
func (r *Registry) Add(v Validator) error {
	if v.Address.IsZero() {
		return errors.New("empty validator address")
	}
	i, ok := r.search(v.Address)
	if ok {
		return errors.Errorf("validator %s already registered", v.Address)
	}
	r.entries = slices.Insert(r.entries, i, v)
	return nil
}

// Remove deletes addr from the registry and reports if it was present.
func (r *Registry) Remove(addr bundlr.Address) bool {
	i, ok := r.search(addr)
	if !ok {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

// All returns a copy of the validators in address order.
func (r *Registry) All() []Validator {
	return slices.Clone(r.entries)
}

// Addresses returns the registered addresses in ascending order.
func (r *Registry) Addresses() []bundlr.Address {
	addrs := make([]bundlr.Address, len(r.entries))
	for i, v := range r.entries {
		addrs[i] = v.Address
	}
	return addrs
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	return &Registry{entries: slices.Clone(r.entries)}
}

// MarshalJSON encodes the registry as an object keyed by address.
func (r *Registry) MarshalJSON() ([]byte, error) {
	m := make(map[bundlr.Address]Validator, len(r.entries))
	for _, v := range r.entries {
		m[v.Address] = v
	}
	// encoding/json writes map keys sorted
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var m map[bundlr.Address]Validator
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	entries := make([]Validator, 0, len(m))
	for addr, v := range m {
		if v.Address.IsZero() {
			v.Address = addr
		}
		if v.Address != addr {
			return errors.Errorf("validator key %s does not match address %s", addr, v.Address)
		}
		entries = append(entries, v)
	}
	slices.SortFunc(entries, func(a, b Validator) int { return a.Address.Compare(b.Address) })
	r.entries = entries
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (r *Registry) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, r.entries)
}
