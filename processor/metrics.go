// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import "github.com/bundlr/validators/metrics"

var (
	metricCalls         = metrics.LazyLoadCounterVec("processor_calls_count", []string{"function"})
	metricCallReverts   = metrics.LazyLoadCounterVec("processor_call_reverts_count", []string{"function", "kind"})
	metricCallDuration  = metrics.LazyLoadHistogram("processor_call_duration_micros", metrics.BucketCallMicros)
	metricEpochSeq      = metrics.LazyLoadGauge("epoch_seq")
	metricVotingsClosed = metrics.LazyLoadCounterVec("slash_votings_closed_count", []string{"outcome"})
)
