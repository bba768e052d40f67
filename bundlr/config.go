// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundlr

// Config is the set of default parameters used when a genesis document leaves them unset.
// Networks lock the config at start up; tests and custom networks may override it first.

var (
	epochDuration          uint64 = 500 // blocks between two rotations
	maxNominatedValidators uint8  = 10  // nominees picked per epoch
	slashProposalLifetime  uint64 = 300 // blocks a slash proposal accepts votes
	samplerCacheSize              = 256

	locked bool
)

type Config struct {
	EpochDuration          uint64 `json:"epochDuration" yaml:"epochDuration"`
	MaxNominatedValidators uint8  `json:"maxNominatedValidators" yaml:"maxNominatedValidators"`
	SlashProposalLifetime  uint64 `json:"slashProposalLifetime" yaml:"slashProposalLifetime"`
	SamplerCacheSize       int    `json:"samplerCacheSize" yaml:"samplerCacheSize"`
}

// SetConfig sets the config.
// Zero fields keep their current values. Panics if the config is locked.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	if cfg.EpochDuration != 0 {
		epochDuration = cfg.EpochDuration
	}

	if cfg.MaxNominatedValidators != 0 {
		maxNominatedValidators = cfg.MaxNominatedValidators
	}

	if cfg.SlashProposalLifetime != 0 {
		slashProposalLifetime = cfg.SlashProposalLifetime
	}

	if cfg.SamplerCacheSize != 0 {
		samplerCacheSize = cfg.SamplerCacheSize
	}
}

// LockConfig locks the config, preventing any further changes.
func LockConfig() {
	locked = true
}

func EpochDuration() uint64 {
	return epochDuration
}

func MaxNominatedValidators() uint8 {
	return maxNominatedValidators
}

func SlashProposalLifetime() uint64 {
	return slashProposalLifetime
}

func SamplerCacheSize() int {
	return samplerCacheSize
}
