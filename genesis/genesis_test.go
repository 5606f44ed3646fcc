// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/genesis"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/state"
)

func TestDevnetBuild(t *testing.T) {
	store := kv.NewMem()
	st := state.New(store)

	config := genesis.NewDevnet()
	require.Nil(t, config.Build(st))

	// rebuilding over an initialized state must fail
	assert.Error(t, config.Build(state.New(store)))

	st = state.New(store)

	owner, err := builtin.Battle.WithState(st).Owner()
	require.Nil(t, err)
	assert.Equal(t, config.Owner, owner)

	token := builtin.PlayToken.WithState(st)
	for _, acc := range config.Premine {
		bal, err := token.BalanceOf(acc.Address)
		require.Nil(t, err)
		assert.Equal(t, acc.Balance, bal)
	}

	params := builtin.Params.WithState(st)
	subsidy, err := params.Get(bgn.KeyReserveSubsidy)
	require.Nil(t, err)
	assert.Equal(t, config.ReserveSubsidy, subsidy)

	for i := range config.BonusTiers {
		mult, err := params.Get(bgn.KeyBonusTiers[i])
		require.Nil(t, err)
		assert.Equal(t, config.BonusTiers[i], mult)
	}
}

func TestBuildRequiresOwner(t *testing.T) {
	st := state.New(kv.NewMem())
	assert.Error(t, (&genesis.Config{}).Build(st))
}

func TestDevAccounts(t *testing.T) {
	accs := genesis.DevAccounts()
	assert.Len(t, accs, 10)
	for _, acc := range accs {
		assert.False(t, acc.Address.IsZero())
		assert.NotNil(t, acc.PrivateKey)
	}
}
