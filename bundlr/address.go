// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundlr

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// MaxAddressLength bounds the textual form of an address.
const MaxAddressLength = 128

// Address identifies an account, e.g. an arweave wallet address.
type Address string

var (
	_ json.Marshaler   = Address("")
	_ json.Unmarshaler = (*Address)(nil)
)

// String implements the stringer interface.
func (a Address) String() string {
	return string(a)
}

// IsZero returns if the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// Compare orders addresses lexicographically by their bytes.
func (a Address) Compare(b Address) int {
	return strings.Compare(string(a), string(b))
}

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress converts string presented address into Address type.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return "", errors.New("empty address")
	}
	if len(s) > MaxAddressLength {
		return "", errors.New("invalid length")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return "", errors.New("invalid character")
		}
	}
	return Address(s), nil
}

// MustParseAddress converts string presented address into Address type, panic on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}
