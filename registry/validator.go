// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/bundlr/validators/bundlr"
)

// Validator is a registered validator.
type Validator struct {
	Address bundlr.Address `json:"address"`
	Stake   bundlr.Amount  `json:"stake"`
	URL     string         `json:"url"`
}

// ParseURL validates an endpoint url. Only absolute urls are accepted.
func ParseURL(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() || u.Host == "" {
		return "", errors.Errorf("url %q is not absolute", s)
	}
	return u.String(), nil
}
