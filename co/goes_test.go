// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoesWait(t *testing.T) {
	var (
		goes Goes
		n    atomic.Int32
	)
	for range 16 {
		goes.Go(func() {
			time.Sleep(time.Millisecond)
			n.Add(1)
		})
	}
	goes.Wait()
	assert.Equal(t, int32(16), n.Load())
}

func TestGoesDone(t *testing.T) {
	var goes Goes
	release := make(chan struct{})
	goes.Go(func() { <-release })

	done := goes.Done()
	select {
	case <-done:
		t.Fatal("done before the goroutine returned")
	case <-time.After(10 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
}
