// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundlr

import (
	"encoding/json"
	"errors"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// AmountBits is the width of the largest representable amount.
const AmountBits = 128

// Amount is a token amount, bounded to 128 bits. The zero value is 0.
// Amounts are JSON encoded as decimal strings.
type Amount struct {
	v uint256.Int
}

var (
	_ json.Marshaler   = Amount{}
	_ json.Unmarshaler = (*Amount)(nil)
	_ rlp.Encoder      = Amount{}
)

// NewAmount creates an amount from n.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount parses a decimal amount.
func ParseAmount(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, err
	}
	if v.BitLen() > AmountBits {
		return Amount{}, errors.New("amount exceeds 128 bits")
	}
	return Amount{v: *v}, nil
}

// MustParseAmount parses a decimal amount, panic on error.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	var r Amount
	r.v.Add(&a.v, &b.v)
	return r
}

// CheckedAdd returns a + b, and false when the sum exceeds AmountBits.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	r := a.Add(b)
	return r, r.v.BitLen() <= AmountBits
}

// Sub returns a - b. It panics if b > a.
func (a Amount) Sub(b Amount) Amount {
	var r Amount
	if _, underflow := r.v.SubOverflow(&a.v, &b.v); underflow {
		panic("amount underflow")
	}
	return r
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// IsZero returns if the amount is 0.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Big returns the amount as a new big.Int.
func (a Amount) Big() *big.Int {
	return a.v.ToBig()
}

// Uint256 returns a copy of the underlying integer.
func (a Amount) Uint256() *uint256.Int {
	return a.v.Clone()
}

// String returns the decimal form.
func (a Amount) String() string {
	return a.v.Dec()
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.v.Dec())
}

// UnmarshalJSON implements json.Unmarshaler. Both quoted and bare decimals are accepted.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (a Amount) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, a.v.ToBig())
}
