// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package playtoken_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin/playtoken"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/state"
)

func M(a ...any) []any {
	return a
}

func TestPlayToken(t *testing.T) {
	st := state.New(kv.NewMem())

	token := playtoken.New(bgn.BytesToAddress([]byte("tok")), st)

	alice := bgn.BytesToAddress([]byte("alice"))
	bob := bgn.BytesToAddress([]byte("bob"))

	tests := []struct {
		ret      []any
		expected []any
	}{
		{M(token.BalanceOf(alice)), M(&big.Int{}, nil)},
		{M(token.Mint(alice, big.NewInt(100))), M(nil)},
		{M(token.BalanceOf(alice)), M(big.NewInt(100), nil)},
		{M(token.TotalSupply()), M(big.NewInt(100), nil)},
		{M(token.Transfer(alice, bob, big.NewInt(40))), M(true, nil)},
		{M(token.BalanceOf(alice)), M(big.NewInt(60), nil)},
		{M(token.BalanceOf(bob)), M(big.NewInt(40), nil)},
		{M(token.Transfer(alice, bob, big.NewInt(100))), M(false, nil)},
		{M(token.BalanceOf(alice)), M(big.NewInt(60), nil)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}
}

func TestPlayTokenAllowance(t *testing.T) {
	st := state.New(kv.NewMem())

	token := playtoken.New(bgn.BytesToAddress([]byte("tok")), st)

	owner := bgn.BytesToAddress([]byte("owner"))
	spender := bgn.BytesToAddress([]byte("spender"))
	sink := bgn.BytesToAddress([]byte("sink"))

	assert.Nil(t, token.Mint(owner, big.NewInt(50)))

	// no allowance yet
	ok, err := token.TransferFrom(spender, owner, sink, big.NewInt(10))
	assert.Nil(t, err)
	assert.False(t, ok)

	assert.Nil(t, token.Approve(owner, spender, big.NewInt(30)))

	allowance, err := token.Allowance(owner, spender)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(30), allowance)

	ok, err = token.TransferFrom(spender, owner, sink, big.NewInt(10))
	assert.Nil(t, err)
	assert.True(t, ok)

	allowance, _ = token.Allowance(owner, spender)
	assert.Equal(t, big.NewInt(20), allowance)

	bal, _ := token.BalanceOf(sink)
	assert.Equal(t, big.NewInt(10), bal)

	// allowance short of the requested amount
	ok, err = token.TransferFrom(spender, owner, sink, big.NewInt(25))
	assert.Nil(t, err)
	assert.False(t, ok)
}
