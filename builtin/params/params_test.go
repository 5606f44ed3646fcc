// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/state"
)

func TestParamsGetSet(t *testing.T) {
	st := state.New(kv.NewMem())
	setv := big.NewInt(10)
	key := bgn.BytesToBytes32([]byte("key"))
	p := New(bgn.BytesToAddress([]byte("par")), st)
	assert.Nil(t, p.Set(key, setv))

	getv, err := p.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, setv, getv)

	zero, err := p.Get(bgn.BytesToBytes32([]byte("unset")))
	assert.Nil(t, err)
	assert.Equal(t, 0, zero.Sign())
}
