// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRU(t *testing.T) {
	_, err := NewLRU[string, int](0)
	assert.Error(t, err)
}

func TestLRUEviction(t *testing.T) {
	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	_, ok := c.Get("a") // a becomes most recent
	assert.True(t, ok)
	c.Add("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](4)
	require.NoError(t, err)

	loads := 0
	loader := func(key string) (int, error) {
		loads++
		return len(key), nil
	}

	v, err := c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	v, err = c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad("fail", func(string) (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get("fail")
	assert.False(t, ok)

	_, hit, miss := c.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(3), miss)
}
