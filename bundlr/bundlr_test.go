// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundlr

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("a1")
	require.NoError(t, err)
	assert.Equal(t, Address("a1"), addr)

	_, err = ParseAddress("")
	assert.Error(t, err)
	_, err = ParseAddress("a 1")
	assert.Error(t, err)
	_, err = ParseAddress(strings.Repeat("a", MaxAddressLength+1))
	assert.Error(t, err)

	assert.Equal(t, -1, Address("a10").Compare("a2"))
	assert.Panics(t, func() { MustParseAddress("\n") })
}

func TestAddressJSON(t *testing.T) {
	var addr Address
	require.NoError(t, json.Unmarshal([]byte(`"bundler"`), &addr))
	assert.Equal(t, Address("bundler"), addr)

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"bundler"`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`""`), &addr))
}

func TestTransactionID(t *testing.T) {
	id, err := ParseTransactionID("epoch_update_tx_id")
	require.NoError(t, err)
	assert.Equal(t, "epoch_update_tx_id", id.String())

	for _, bad := range []string{"", "tx 1", "tx+1", "tx/1", "tx=", strings.Repeat("x", MaxTransactionIDLength+1)} {
		_, err := ParseTransactionID(bad)
		assert.Error(t, err, bad)
	}

	// 43 characters of base64url carry 32 bytes
	id = MustParseTransactionID("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8")
	b, err := id.Bytes()
	require.NoError(t, err)
	assert.Len(t, b, 32)
	assert.Equal(t, byte(31), b[31])
	assert.Equal(t, "AAECAw…dHh8", id.AbbrevString())
}

func TestAmount(t *testing.T) {
	a := NewAmount(10000)
	b := MustParseAmount("20000")

	assert.Equal(t, "30000", a.Add(b).String())
	assert.Equal(t, "10000", b.Sub(a).String())
	assert.Equal(t, -1, a.Cmp(b))
	assert.True(t, Amount{}.IsZero())
	assert.Panics(t, func() { a.Sub(b) })

	max := "340282366920938463463374607431768211455"
	_, err := ParseAmount(max)
	assert.NoError(t, err)
	_, err = ParseAmount("340282366920938463463374607431768211456")
	assert.Error(t, err)
	_, err = ParseAmount("-1")
	assert.Error(t, err)

	sum, ok := MustParseAmount(max).CheckedAdd(NewAmount(0))
	assert.True(t, ok)
	assert.Equal(t, max, sum.String())
	_, ok = MustParseAmount(max).CheckedAdd(NewAmount(1))
	assert.False(t, ok)
}

func TestAmountJSON(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"170020"`), &a))
	assert.Equal(t, NewAmount(170020), a)
	require.NoError(t, json.Unmarshal([]byte(`100`), &a))
	assert.Equal(t, NewAmount(100), a)

	data, err := json.Marshal(NewAmount(65010))
	require.NoError(t, err)
	assert.Equal(t, `"65010"`, string(data))
}

func TestAmountRLP(t *testing.T) {
	enc, err := rlp.EncodeToBytes(NewAmount(1024))
	require.NoError(t, err)
	expected, err := rlp.EncodeToBytes(uint64(1024))
	require.NoError(t, err)
	assert.Equal(t, expected, enc)
}

func TestAddHeight(t *testing.T) {
	assert.Equal(t, uint64(1500), AddHeight(1000, 500))
	assert.Equal(t, uint64(math.MaxUint64), AddHeight(math.MaxUint64, 0))
	assert.Equal(t, uint64(math.MaxUint64), AddHeight(math.MaxUint64-1, 1))
	assert.Equal(t, uint64(math.MaxUint64), AddHeight(1000, math.MaxUint64))
	assert.Equal(t, uint64(math.MaxUint64), AddHeight(math.MaxUint64, math.MaxUint64))
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
	assert.False(t, Blake2b(nil).IsZero())
}

func TestSetConfig(t *testing.T) {
	defer SetConfig(Config{EpochDuration: epochDuration, SlashProposalLifetime: slashProposalLifetime})

	SetConfig(Config{EpochDuration: 10, SlashProposalLifetime: 5})
	assert.Equal(t, uint64(10), EpochDuration())
	assert.Equal(t, uint64(5), SlashProposalLifetime())
	assert.Equal(t, uint8(10), MaxNominatedValidators())
}
