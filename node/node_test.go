// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
	"github.com/billions-game/billions/test/datagen"
)

func TestExecCommits(t *testing.T) {
	store := kv.NewMem()
	n := node.New(store)
	addr := datagen.RandAddress()

	require.NoError(t, n.Exec(func(st *state.State) error {
		return builtin.PlayToken.WithState(st).Mint(addr, big.NewInt(100))
	}))

	var balance *big.Int
	require.NoError(t, n.Read(func(st *state.State) error {
		var err error
		balance, err = builtin.PlayToken.WithState(st).BalanceOf(addr)
		return err
	}))
	assert.Equal(t, big.NewInt(100), balance)
}

func TestExecAbortsOnError(t *testing.T) {
	store := kv.NewMem()
	n := node.New(store)
	addr := datagen.RandAddress()

	boom := errors.New("boom")
	err := n.Exec(func(st *state.State) error {
		if err := builtin.PlayToken.WithState(st).Mint(addr, big.NewInt(100)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var balance *big.Int
	require.NoError(t, n.Read(func(st *state.State) error {
		var err error
		balance, err = builtin.PlayToken.WithState(st).BalanceOf(addr)
		return err
	}))
	assert.Equal(t, 0, balance.Sign())
}

func TestSetClock(t *testing.T) {
	n := node.New(kv.NewMem())
	n.SetClock(func() uint64 { return 42 })
	assert.Equal(t, uint64(42), n.Now())
}
