// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"encoding/json"
	"strconv"

	"github.com/bundlr/validators/bundlr"
)

// Epoch is the rotation clock. Seq 0 means the registry has never rotated.
type Epoch struct {
	Seq    uint64
	Tx     bundlr.TransactionID
	Height uint64
}

// IsDue returns if a rotation may happen at height.
// The first rotation is always due and anchors the clock to its own height.
func (e Epoch) IsDue(height, duration uint64) bool {
	if e.Seq == 0 {
		return true
	}
	return height >= bundlr.AddHeight(e.Height, duration)
}

// NextHeight returns the height the next epoch takes effect at.
func (e Epoch) NextHeight(height, duration uint64) uint64 {
	if e.Seq == 0 {
		return height
	}
	return bundlr.AddHeight(e.Height, duration)
}

// Next returns the epoch following e.
func (e Epoch) Next(tx bundlr.TransactionID, height uint64) Epoch {
	return Epoch{
		Seq:    e.Seq + 1,
		Tx:     tx,
		Height: height,
	}
}

// WindowStart returns the first height of the epoch that contains height.
// When the clock was already moved ahead of height, the window is the previous one.
func (e Epoch) WindowStart(height, duration uint64) uint64 {
	if e.Height > height {
		if e.Height < duration {
			return 0
		}
		return e.Height - duration
	}
	return e.Height
}

type jsonEpoch struct {
	Seq    string               `json:"seq"`
	Tx     bundlr.TransactionID `json:"tx"`
	Height string               `json:"height"`
}

// MarshalJSON encodes seq and height as decimal strings.
func (e Epoch) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEpoch{
		Seq:    strconv.FormatUint(e.Seq, 10),
		Tx:     e.Tx,
		Height: strconv.FormatUint(e.Height, 10),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Epoch) UnmarshalJSON(data []byte) error {
	var raw struct {
		Seq    json.Number `json:"seq"`
		Tx     string      `json:"tx"`
		Height json.Number `json:"height"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var (
		out Epoch
		err error
	)
	if raw.Seq != "" {
		if out.Seq, err = strconv.ParseUint(string(raw.Seq), 10, 64); err != nil {
			return err
		}
	}
	if raw.Height != "" {
		if out.Height, err = strconv.ParseUint(string(raw.Height), 10, 64); err != nil {
			return err
		}
	}
	// the genesis epoch has no triggering transaction
	if raw.Tx != "" {
		if out.Tx, err = bundlr.ParseTransactionID(raw.Tx); err != nil {
			return err
		}
	}
	*e = out
	return nil
}
