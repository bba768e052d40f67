// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/base64"
	"fmt"
	"sync/atomic"

	"github.com/bundlr/validators/bundlr"
)

// DevAccount account for development.
type DevAccount struct {
	Address bundlr.Address
	URL     string
}

var devAccounts atomic.Value

// DevAccounts returns the accounts pre-allocated by the dev network. Addresses have the shape of
// arweave wallet addresses.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	accs := make([]DevAccount, 0, 10)
	for i := range 10 {
		h := bundlr.Blake2b([]byte("dev account"), []byte{byte(i)})
		accs = append(accs, DevAccount{
			Address: bundlr.Address(base64.RawURLEncoding.EncodeToString(h[:])),
			URL:     fmt.Sprintf("http://localhost:%d", 10000+i),
		})
	}
	devAccounts.Store(accs)
	return accs
}

// DevNet returns the genesis of a local network: the first five dev accounts are validators, the
// others hold tokens and may join.
func DevNet() *Genesis {
	accs := DevAccounts()
	gen := &Genesis{
		Bundler:          "dev-bundler",
		BundlersContract: "dev-bundlers-contract",
		Token:            "dev-token",
		Contract:         "dev-validators-contract",
		MinimumStake:     Decimal(bundlr.NewAmount(1000)),
	}
	for i, acc := range accs {
		if i < 5 {
			gen.Validators = append(gen.Validators, Validator{
				Address: acc.Address,
				Stake:   Decimal(bundlr.NewAmount(uint64(10000 * (i + 1)))),
				URL:     acc.URL,
			})
		}
		gen.Accounts = append(gen.Accounts, Account{
			Address: acc.Address,
			Balance: Decimal(bundlr.NewAmount(1000000)),
		})
	}
	return gen
}
