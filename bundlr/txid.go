// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundlr

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxTransactionIDLength bounds the textual form of a transaction id.
const MaxTransactionIDLength = 128

// TransactionID is the textual id of a transaction. Canonical ids are the
// unpadded base64url encoding of a 32 byte digest.
type TransactionID string

var (
	_ json.Marshaler   = TransactionID("")
	_ json.Unmarshaler = (*TransactionID)(nil)
)

// String implements the stringer interface.
func (t TransactionID) String() string {
	return string(t)
}

// AbbrevString returns abbrev string presentation.
func (t TransactionID) AbbrevString() string {
	if len(t) <= 12 {
		return string(t)
	}
	return fmt.Sprintf("%s…%s", t[:6], t[len(t)-4:])
}

// IsZero returns if the id is empty.
func (t TransactionID) IsZero() bool {
	return t == ""
}

// Compare orders ids lexicographically by their bytes.
func (t TransactionID) Compare(o TransactionID) int {
	return strings.Compare(string(t), string(o))
}

// Bytes decodes the id from its unpadded base64url form.
func (t TransactionID) Bytes() ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(string(t))
}

// MarshalJSON implements json.Marshaler.
func (t TransactionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TransactionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTransactionID(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTransactionID converts string presented id into TransactionID type.
// Only the base64url alphabet is accepted.
func ParseTransactionID(s string) (TransactionID, error) {
	if s == "" {
		return "", errors.New("empty transaction id")
	}
	if len(s) > MaxTransactionIDLength {
		return "", errors.New("invalid length")
	}
	for i := 0; i < len(s); i++ {
		if !isBase64URL(s[i]) {
			return "", fmt.Errorf("invalid character %q at %d", s[i], i)
		}
	}
	return TransactionID(s), nil
}

// MustParseTransactionID converts string presented id into TransactionID type, panic on error.
func MustParseTransactionID(s string) TransactionID {
	id, err := ParseTransactionID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func isBase64URL(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
