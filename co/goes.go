// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co tracks the background goroutines of the command line tools.
package co

import "sync"

// Goes starts goroutines and waits for them. The zero value is ready to use.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a new goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Go(f)
}

// Wait blocks until every goroutine started by Go has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once every goroutine started so far has returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	return done
}
