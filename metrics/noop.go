// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// discard is both the service and every meter it hands out while metrics are off.
type discard struct{}

var _ Metrics = discard{}

func defaultNoopMetrics() Metrics { return discard{} }

func (discard) GetOrCreateCountMeter(string) CountMeter                  { return discard{} }
func (discard) GetOrCreateCountVecMeter(string, []string) CountVecMeter  { return discard{} }
func (discard) GetOrCreateGaugeMeter(string) GaugeMeter                  { return discard{} }
func (discard) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return discard{} }
func (discard) GetOrCreateHandler() http.Handler                         { return nil }

func (discard) Add(int64)                             {}
func (discard) AddWithLabel(int64, map[string]string) {}
func (discard) Set(int64)                             {}
func (discard) Observe(int64)                         {}
