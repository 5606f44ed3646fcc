// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin/battle"
	"github.com/billions-game/billions/builtin/params"
	"github.com/billions-game/billions/builtin/playtoken"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/state"
)

var owner = bgn.BytesToAddress([]byte("owner"))

type testEnv struct {
	battle *battle.Battle
	token  *playtoken.PlayToken
	params *params.Params
}

func newTestEnv(t *testing.T) *testEnv {
	st := state.New(kv.NewMem())

	token := playtoken.New(bgn.BytesToAddress([]byte("play-token")), st)
	par := params.New(bgn.BytesToAddress([]byte("params")), st)
	b := battle.New(bgn.BytesToAddress([]byte("battle")), st, token, par)
	require.Nil(t, b.Initialize(owner))
	return &testEnv{b, token, par}
}

func validParams(now uint64) *battle.CreateParams {
	return &battle.CreateParams{
		Type:      1,
		Exchange:  "NASDAQ",
		Country:   "US",
		EntryFee:  big.NewInt(1000),
		NftCount:  3,
		StartTime: now + 86400,
		EndTime:   now + 7*86400,
		Label:     "tech stocks",
	}
}

// fund mints 2x the entry fee and approves the battle for fee collection.
func (env *testEnv) fund(t *testing.T, player bgn.Address, fee *big.Int) {
	require.Nil(t, env.token.Mint(player, new(big.Int).Mul(fee, big.NewInt(2))))
	require.Nil(t, env.token.Approve(player, env.battle.Address(), fee))
}

// enterPlayers funds and enters n distinct players, returning their addresses.
func (env *testEnv) enterPlayers(t *testing.T, id uint64, now uint64, n int) []bgn.Address {
	info, err := env.battle.Get(id)
	require.Nil(t, err)

	players := make([]bgn.Address, n)
	for i := range n {
		players[i] = bgn.BytesToAddress([]byte(fmt.Sprintf("player-%d", i)))
		env.fund(t, players[i], info.EntryFee)
		nftIDs := make([]uint64, info.NftCount)
		for j := range nftIDs {
			nftIDs[j] = uint64(i*10 + j + 1)
		}
		require.Nil(t, env.battle.Enter(players[i], now, id, nftIDs, []uint64{uint64(i)}, ""))
	}
	return players
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))

	p := validParams(now)
	id, err := env.battle.Create(creator, now, p)
	require.Nil(t, err)
	assert.Equal(t, uint64(1), id)

	info, err := env.battle.Get(id)
	require.Nil(t, err)
	assert.Equal(t, p.Exchange, info.Exchange)
	assert.Equal(t, p.Country, info.Country)
	assert.Equal(t, p.EntryFee, info.EntryFee)
	assert.Equal(t, p.NftCount, info.NftCount)
	assert.Equal(t, p.StartTime, info.StartTime)
	assert.Equal(t, p.EndTime, info.EndTime)
	assert.Equal(t, p.Label, info.Label)
	assert.Equal(t, creator, info.Creator)
	assert.Equal(t, battle.StatusBetting, info.StatusAt(now))

	id2, err := env.battle.Create(creator, now, validParams(now))
	require.Nil(t, err)
	assert.Equal(t, uint64(2), id2)

	cnt, _ := env.battle.Count()
	assert.Equal(t, uint64(2), cnt)

	_, err = env.battle.Get(99)
	assert.True(t, errors.Is(err, battle.ErrNotFound))
}

func TestCreateWindowValidation(t *testing.T) {
	env := newTestEnv(t)
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))

	// end before start
	p := validParams(now)
	p.EndTime = p.StartTime - 1
	_, err := env.battle.Create(creator, now, p)
	assert.True(t, errors.Is(err, battle.ErrInvalidWindow))

	// start not strictly in the future
	p = validParams(now)
	p.StartTime = now
	p.EndTime = now + 100
	_, err = env.battle.Create(creator, now, p)
	assert.True(t, errors.Is(err, battle.ErrInvalidWindow))
}

func TestCreateRestricted(t *testing.T) {
	env := newTestEnv(t)
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))

	require.Nil(t, env.params.Set(bgn.KeyRestrictedCreation, big.NewInt(1)))

	_, err := env.battle.Create(creator, now, validParams(now))
	assert.True(t, errors.Is(err, battle.ErrUnauthorized))

	// the owner always may create
	_, err = env.battle.Create(owner, now, validParams(now))
	assert.Nil(t, err)

	// only the owner admits verified players
	err = env.battle.AddVerifiedPlayer(creator, creator)
	assert.True(t, errors.Is(err, battle.ErrUnauthorized))

	require.Nil(t, env.battle.AddVerifiedPlayer(owner, creator))
	verified, _ := env.battle.IsVerified(creator)
	assert.True(t, verified)

	_, err = env.battle.Create(creator, now, validParams(now))
	assert.Nil(t, err)
}

func TestEnter(t *testing.T) {
	env := newTestEnv(t)
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))
	player := bgn.BytesToAddress([]byte("player"))

	p := validParams(now)
	id, err := env.battle.Create(creator, now, p)
	require.Nil(t, err)

	// unknown battle
	err = env.battle.Enter(player, now, 99, []uint64{1, 2, 3}, nil, "")
	assert.True(t, errors.Is(err, battle.ErrNotFound))

	// wrong collateral count
	env.fund(t, player, p.EntryFee)
	err = env.battle.Enter(player, now, id, []uint64{1, 2}, nil, "")
	assert.True(t, errors.Is(err, battle.ErrCollateralCountMismatch))

	require.Nil(t, env.battle.Enter(player, now, id, []uint64{1, 2, 3}, []uint64{0}, "my entry"))

	entry, err := env.battle.Player(id, player)
	require.Nil(t, err)
	assert.ElementsMatch(t, []uint64{1, 2, 3}, entry.NftIDs)
	assert.ElementsMatch(t, []uint64{0}, entry.ScalarIDs)
	assert.Equal(t, "my entry", entry.Label)
	assert.Equal(t, now, entry.EnteredAt)

	cnt, _ := env.battle.PlayerCount(id)
	assert.Equal(t, uint64(1), cnt)

	// fee moved into custody, reserve grew
	custody, _ := env.token.BalanceOf(env.battle.Address())
	assert.Equal(t, p.EntryFee, custody)
	reserve, _ := env.battle.Reserve()
	assert.Equal(t, p.EntryFee, reserve)

	// one entry per player
	err = env.battle.Enter(player, now, id, []uint64{4, 5, 6}, nil, "")
	assert.True(t, errors.Is(err, battle.ErrDuplicateEntry))

	// no entry for strangers
	_, err = env.battle.Player(id, bgn.BytesToAddress([]byte("stranger")))
	assert.True(t, errors.Is(err, battle.ErrNotFound))
}

func TestEnterClosedWindow(t *testing.T) {
	env := newTestEnv(t)
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))
	player := bgn.BytesToAddress([]byte("player"))

	p := validParams(now)
	id, err := env.battle.Create(creator, now, p)
	require.Nil(t, err)

	env.fund(t, player, p.EntryFee)

	// betting closes the moment the battle starts
	err = env.battle.Enter(player, p.StartTime, id, []uint64{1, 2, 3}, nil, "")
	assert.True(t, errors.Is(err, battle.ErrBettingClosed))

	err = env.battle.Enter(player, p.EndTime+1, id, []uint64{1, 2, 3}, nil, "")
	assert.True(t, errors.Is(err, battle.ErrBettingClosed))
}

func TestEnterFailedFeeTransferRetryable(t *testing.T) {
	env := newTestEnv(t)
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))
	player := bgn.BytesToAddress([]byte("player"))

	p := validParams(now)
	id, err := env.battle.Create(creator, now, p)
	require.Nil(t, err)

	// no funds, no approval: the fee transfer fails and nothing is recorded
	err = env.battle.Enter(player, now, id, []uint64{1, 2, 3}, nil, "")
	assert.Error(t, err)

	cnt, _ := env.battle.PlayerCount(id)
	assert.Equal(t, uint64(0), cnt)
	reserve, _ := env.battle.Reserve()
	assert.Equal(t, 0, reserve.Sign())

	// the same player may retry once funded
	env.fund(t, player, p.EntryFee)
	assert.Nil(t, env.battle.Enter(player, now, id, []uint64{1, 2, 3}, nil, ""))
}

// endable creates a battle and fills it with n players, returning everything
// needed to call End.
func endableBattle(t *testing.T, env *testEnv, n int) (uint64, []bgn.Address, *battle.CreateParams, uint64) {
	now := uint64(1_700_000_000)
	creator := bgn.BytesToAddress([]byte("creator"))

	p := validParams(now)
	id, err := env.battle.Create(creator, now, p)
	require.Nil(t, err)

	players := env.enterPlayers(t, id, now, n)
	return id, players, p, p.EndTime + 1
}

func setBonusTiers(t *testing.T, env *testEnv, multipliers [5]int64) {
	for i, m := range multipliers {
		require.Nil(t, env.params.Set(bgn.KeyBonusTiers[i], big.NewInt(m)))
	}
}

func TestEndGuards(t *testing.T) {
	env := newTestEnv(t)
	id, players, p, endTime := endableBattle(t, env, 3)

	ranked := []bgn.Address{players[0]}
	rewards := []*big.Int{big.NewInt(10)}

	// owner only
	err := env.battle.End(players[0], endTime, id, ranked, rewards)
	assert.True(t, errors.Is(err, battle.ErrUnauthorized))

	// unknown battle
	err = env.battle.End(owner, endTime, 99, ranked, rewards)
	assert.True(t, errors.Is(err, battle.ErrNotFound))

	// before the window closes
	err = env.battle.End(owner, p.EndTime-1, id, ranked, rewards)
	assert.True(t, errors.Is(err, battle.ErrTooEarly))

	// misaligned ranking arrays
	err = env.battle.End(owner, endTime, id, ranked, []*big.Int{big.NewInt(10), big.NewInt(5)})
	assert.True(t, errors.Is(err, battle.ErrLengthMismatch))
}

func TestEndPayout(t *testing.T) {
	env := newTestEnv(t)
	setBonusTiers(t, env, [5]int64{100, 80, 60, 40, 20})

	id, players, p, endTime := endableBattle(t, env, 10)

	ranked := players[:5]
	rewards := []*big.Int{
		big.NewInt(100), big.NewInt(99), big.NewInt(98), big.NewInt(97), big.NewInt(96),
	}

	require.Nil(t, env.battle.End(owner, endTime, id, ranked, rewards))

	// 10 entrants: tier sizes 1,1,1,3,4 so ranks 0..4 land in tiers 0,1,2,3,3.
	// bonus = fee(1000) * multiplier / 1000
	expectedBonus := []int64{100, 80, 60, 40, 40}
	for i, addr := range ranked {
		reward, err := env.battle.PlayerReward(id, addr)
		require.Nil(t, err)
		assert.Equal(t, rewards[i], reward, "reward of rank %d", i)

		bonus, err := env.battle.PlayerBonus(id, addr)
		require.Nil(t, err)
		assert.Equal(t, big.NewInt(expectedBonus[i]), bonus, "bonus of rank %d", i)

		// funded with 2x fee, paid 1x fee, got reward+bonus
		bal, _ := env.token.BalanceOf(addr)
		expected := new(big.Int).Set(p.EntryFee)
		expected.Add(expected, rewards[i])
		expected.Add(expected, big.NewInt(expectedBonus[i]))
		assert.Equal(t, expected, bal, "balance of rank %d", i)
	}

	// unranked players get zero
	reward, _ := env.battle.PlayerReward(id, players[7])
	assert.Equal(t, 0, reward.Sign())
	bonus, _ := env.battle.PlayerBonus(id, players[7])
	assert.Equal(t, 0, bonus.Sign())

	// entry count survives the end
	cnt, _ := env.battle.PlayerCount(id)
	assert.Equal(t, uint64(10), cnt)

	info, _ := env.battle.Get(id)
	assert.Equal(t, battle.StatusEnded, info.StatusAt(endTime))

	// reserve dropped by the disbursed total: 490 rewards + 320 bonuses
	reserve, _ := env.battle.Reserve()
	assert.Equal(t, big.NewInt(10*1000-490-320), reserve)
}

func TestEndIdempotence(t *testing.T) {
	env := newTestEnv(t)
	id, players, _, endTime := endableBattle(t, env, 3)

	ranked := []bgn.Address{players[0], players[1]}
	rewards := []*big.Int{big.NewInt(100), big.NewInt(50)}

	require.Nil(t, env.battle.End(owner, endTime, id, ranked, rewards))

	before, _ := env.battle.PlayerReward(id, players[0])

	err := env.battle.End(owner, endTime, id, ranked, rewards)
	assert.True(t, errors.Is(err, battle.ErrAlreadyEnded))

	// records unchanged after the failed retry
	after, _ := env.battle.PlayerReward(id, players[0])
	assert.Equal(t, before, after)
}

func TestEndInsufficientReserve(t *testing.T) {
	env := newTestEnv(t)
	id, players, _, endTime := endableBattle(t, env, 3)

	// pool is 3*1000; ask for more
	err := env.battle.End(owner, endTime, id,
		[]bgn.Address{players[0]}, []*big.Int{big.NewInt(5000)})
	assert.True(t, errors.Is(err, battle.ErrInsufficientReserve))

	// nothing was paid or finalized
	reward, _ := env.battle.PlayerReward(id, players[0])
	assert.Equal(t, 0, reward.Sign())
	info, _ := env.battle.Get(id)
	assert.False(t, info.Ended)

	// a configured subsidy widens the pool; the shortfall is minted on top
	require.Nil(t, env.params.Set(bgn.KeyReserveSubsidy, big.NewInt(10_000)))
	require.Nil(t, env.battle.End(owner, endTime, id,
		[]bgn.Address{players[0]}, []*big.Int{big.NewInt(5000)}))

	reward, _ = env.battle.PlayerReward(id, players[0])
	assert.Equal(t, big.NewInt(5000), reward)

	// reserve only gives up custodied fees
	reserve, _ := env.battle.Reserve()
	assert.Equal(t, 0, reserve.Sign())
}

func TestEndRankingClipped(t *testing.T) {
	env := newTestEnv(t)
	id, players, _, endTime := endableBattle(t, env, 2)

	// ranking longer than the entrant count: the surplus is ignored
	stranger := bgn.BytesToAddress([]byte("stranger"))
	ranked := []bgn.Address{players[0], players[1], stranger}
	rewards := []*big.Int{big.NewInt(30), big.NewInt(20), big.NewInt(10)}

	require.Nil(t, env.battle.End(owner, endTime, id, ranked, rewards))

	reward, _ := env.battle.PlayerReward(id, players[0])
	assert.Equal(t, big.NewInt(30), reward)
	reward, _ = env.battle.PlayerReward(id, players[1])
	assert.Equal(t, big.NewInt(20), reward)
	reward, _ = env.battle.PlayerReward(id, stranger)
	assert.Equal(t, 0, reward.Sign())
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv(t)
	next := bgn.BytesToAddress([]byte("next-owner"))

	err := env.battle.TransferOwnership(next, next)
	assert.True(t, errors.Is(err, battle.ErrUnauthorized))

	require.Nil(t, env.battle.TransferOwnership(owner, next))
	got, _ := env.battle.Owner()
	assert.Equal(t, next, got)

	// previous owner lost control
	err = env.battle.AddVerifiedPlayer(owner, owner)
	assert.True(t, errors.Is(err, battle.ErrUnauthorized))
}
