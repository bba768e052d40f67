// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"slices"

	"github.com/bundlr/validators/reverts"
	"github.com/bundlr/validators/state"
)

// query projects the state. Returned values share nothing with st.
func query(st *state.State, action *Action) (any, error) {
	switch action.Function {
	case FuncValidators:
		return st.Validators.Addresses(), nil
	case FuncNominatedValidators:
		return slices.Clone(st.NominatedValidators), nil
	case FuncMinimumStake:
		return st.MinimumStake, nil
	case FuncToken:
		return st.Token, nil
	case FuncEpoch:
		return st.Epoch, nil
	case FuncEpochDuration:
		return st.EpochDuration, nil
	case FuncBundler:
		return st.Bundler, nil
	case FuncBundlersContract:
		return st.BundlersContract, nil
	case FuncSlashProposal:
		r, ok := st.SlashProposals[action.Tx]
		if !ok {
			return nil, reverts.InvalidTransactionID(action.Tx)
		}
		return r.Copy(), nil
	}
	return nil, reverts.ParseError("%s is not a query", action.Function)
}
