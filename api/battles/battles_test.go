// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battles_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billions-game/billions/api"
	accountsapi "github.com/billions-game/billions/api/accounts"
	"github.com/billions-game/billions/api/battles"
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/genesis"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

const genesisTime uint64 = 1_700_000_000

type testServer struct {
	*httptest.Server
	node *node.Node
	now  uint64
}

func newTestServer(t *testing.T) *testServer {
	store := kv.NewMem()
	st := state.New(store)
	require.NoError(t, genesis.NewDevnet().Build(st))

	n := node.New(store)
	ts := &testServer{node: n, now: genesisTime}
	n.SetClock(func() uint64 { return ts.now })

	ts.Server = httptest.NewServer(api.New(n, api.Options{AllowedOrigins: "*"}))
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	return body, res.StatusCode
}

func createBattle(t *testing.T, ts *testServer, creator bgn.Address, fee *big.Int, nftCount uint32) uint64 {
	body, status := httpPost(t, ts.URL+"/battles", &battles.CreateBattle{
		Caller:    creator,
		Exchange:  "NASDAQ",
		Country:   "US",
		EntryFee:  fee,
		NftCount:  nftCount,
		StartTime: genesisTime + 100,
		EndTime:   genesisTime + 200,
		Label:     "weekly",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	return created.ID
}

func approveFee(t *testing.T, ts *testServer, player bgn.Address, amount *big.Int) {
	body, status := httpPost(t, fmt.Sprintf("%s/accounts/%s/approvals", ts.URL, player), &accountsapi.Approve{
		Spender: builtin.Battle.Address,
		Amount:  amount,
	})
	require.Equal(t, http.StatusOK, status, string(body))
}

func TestBattleLifecycle(t *testing.T) {
	ts := newTestServer(t)
	accounts := genesis.DevAccounts()
	owner := accounts[0].Address
	player := accounts[1].Address
	fee := new(big.Int).Mul(big.NewInt(10), bgn.TokenUnit)

	id := createBattle(t, ts, owner, fee, 2)
	assert.Equal(t, uint64(1), id)

	body, status := httpGet(t, fmt.Sprintf("%s/battles/%d", ts.URL, id))
	require.Equal(t, http.StatusOK, status)
	var got battles.Battle
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "NASDAQ", got.Exchange)
	assert.Equal(t, owner, got.Creator)
	assert.Equal(t, "betting", got.Status)
	assert.Equal(t, uint64(0), got.PlayerCount)

	approveFee(t, ts, player, fee)
	body, status = httpPost(t, fmt.Sprintf("%s/battles/%d/entries", ts.URL, id), &battles.EnterBattle{
		Caller:    player,
		NftIDs:    []uint64{1, 2},
		ScalarIDs: []uint64{7},
		Label:     "bull",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = httpGet(t, fmt.Sprintf("%s/battles/%d/players/%s", ts.URL, id, player))
	require.Equal(t, http.StatusOK, status)
	var gotPlayer battles.Player
	require.NoError(t, json.Unmarshal(body, &gotPlayer))
	assert.Equal(t, []uint64{1, 2}, gotPlayer.NftIDs)
	assert.Equal(t, "bull", gotPlayer.Label)

	body, status = httpGet(t, ts.URL+"/battles/reserve")
	require.Equal(t, http.StatusOK, status)
	var reserve struct {
		Reserve *big.Int `json:"reserve"`
	}
	require.NoError(t, json.Unmarshal(body, &reserve))
	assert.Equal(t, fee, reserve.Reserve)

	ts.now = genesisTime + 200
	reward := new(big.Int).Mul(big.NewInt(2), bgn.TokenUnit)
	body, status = httpPost(t, fmt.Sprintf("%s/battles/%d/end", ts.URL, id), &battles.EndBattle{
		Caller:  owner,
		Ranked:  []bgn.Address{player},
		Rewards: []*big.Int{reward},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = httpGet(t, fmt.Sprintf("%s/battles/%d/players/%s/reward", ts.URL, id, player))
	require.Equal(t, http.StatusOK, status)
	var gotReward battles.Reward
	require.NoError(t, json.Unmarshal(body, &gotReward))
	assert.Equal(t, reward, gotReward.Reward)
	assert.True(t, gotReward.Bonus.Sign() > 0)

	body, status = httpGet(t, fmt.Sprintf("%s/battles/%d", ts.URL, id))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ended", got.Status)
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	accounts := genesis.DevAccounts()
	owner := accounts[0].Address
	outsider := accounts[2].Address

	_, status := httpGet(t, ts.URL+"/battles/42")
	assert.Equal(t, http.StatusNotFound, status)

	_, status = httpGet(t, ts.URL+"/battles/notanumber")
	assert.Equal(t, http.StatusBadRequest, status)

	// window already in the past
	body, status := httpPost(t, ts.URL+"/battles", &battles.CreateBattle{
		Caller:    owner,
		Exchange:  "NYSE",
		StartTime: genesisTime - 100,
		EndTime:   genesisTime - 50,
	})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	id := createBattle(t, ts, owner, big.NewInt(0), 0)

	ts.now = genesisTime + 200
	body, status = httpPost(t, fmt.Sprintf("%s/battles/%d/end", ts.URL, id), &battles.EndBattle{
		Caller: outsider,
	})
	assert.Equal(t, http.StatusForbidden, status, string(body))

	body, status = httpPost(t, fmt.Sprintf("%s/battles/%d/end", ts.URL, id), &battles.EndBattle{
		Caller: owner,
		Ranked: []bgn.Address{outsider},
	})
	assert.Equal(t, http.StatusBadRequest, status, string(body)) // rankings and rewards differ in length
}

func TestVerifiedPlayers(t *testing.T) {
	ts := newTestServer(t)
	accounts := genesis.DevAccounts()
	owner := accounts[0].Address
	player := accounts[3].Address

	body, status := httpGet(t, fmt.Sprintf("%s/battles/verified/%s", ts.URL, player))
	require.Equal(t, http.StatusOK, status)
	var verified struct {
		Verified bool `json:"verified"`
	}
	require.NoError(t, json.Unmarshal(body, &verified))
	assert.False(t, verified.Verified)

	body, status = httpPost(t, ts.URL+"/battles/verified", &battles.AddVerified{
		Caller: owner,
		Player: player,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = httpGet(t, fmt.Sprintf("%s/battles/verified/%s", ts.URL, player))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &verified))
	assert.True(t, verified.Verified)

	_, status = httpPost(t, ts.URL+"/battles/verified", &battles.AddVerified{
		Caller: player,
		Player: player,
	})
	assert.Equal(t, http.StatusForbidden, status)
}
