// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battles

import (
	"math/big"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin/battle"
)

// Battle is the JSON presentation of a battle record.
type Battle struct {
	ID              uint64      `json:"id"`
	Type            uint32      `json:"type"`
	Exchange        string      `json:"exchange"`
	Country         string      `json:"country"`
	EntryFee        *big.Int    `json:"entryFee"`
	NftCount        uint32      `json:"nftCount"`
	StartTime       uint64      `json:"startTime"`
	EndTime         uint64      `json:"endTime"`
	Label           string      `json:"label"`
	Creator         bgn.Address `json:"creator"`
	Status          string      `json:"status"`
	PlayerCount     uint64      `json:"playerCount"`
	ContributedFees *big.Int    `json:"contributedFees"`
}

func convertBattle(id uint64, info *battle.Info, playerCount uint64, now uint64) *Battle {
	fee := info.EntryFee
	if fee == nil {
		fee = &big.Int{}
	}
	fees := info.ContributedFees
	if fees == nil {
		fees = &big.Int{}
	}
	return &Battle{
		ID:              id,
		Type:            info.Type,
		Exchange:        info.Exchange,
		Country:         info.Country,
		EntryFee:        fee,
		NftCount:        info.NftCount,
		StartTime:       info.StartTime,
		EndTime:         info.EndTime,
		Label:           info.Label,
		Creator:         info.Creator,
		Status:          info.StatusAt(now).String(),
		PlayerCount:     playerCount,
		ContributedFees: fees,
	}
}

// Player is the JSON presentation of a stake entry.
type Player struct {
	Address   bgn.Address `json:"address"`
	NftIDs    []uint64    `json:"nftIds"`
	ScalarIDs []uint64    `json:"scalarIds"`
	Label     string      `json:"label"`
	EnteredAt uint64      `json:"enteredAt"`
}

func convertPlayer(addr bgn.Address, entry *battle.PlayerEntry) *Player {
	return &Player{
		Address:   addr,
		NftIDs:    entry.NftIDs,
		ScalarIDs: entry.ScalarIDs,
		Label:     entry.Label,
		EnteredAt: entry.EnteredAt,
	}
}

// Reward is the JSON presentation of a payout record.
type Reward struct {
	Reward *big.Int `json:"reward"`
	Bonus  *big.Int `json:"bonus"`
}

// CreateBattle is the request body to create a battle.
type CreateBattle struct {
	Caller    bgn.Address `json:"caller"`
	Type      uint32      `json:"type"`
	Exchange  string      `json:"exchange"`
	Country   string      `json:"country"`
	EntryFee  *big.Int    `json:"entryFee"`
	NftCount  uint32      `json:"nftCount"`
	StartTime uint64      `json:"startTime"`
	EndTime   uint64      `json:"endTime"`
	Label     string      `json:"label"`
}

// EnterBattle is the request body to stake into a battle.
type EnterBattle struct {
	Caller    bgn.Address `json:"caller"`
	NftIDs    []uint64    `json:"nftIds"`
	ScalarIDs []uint64    `json:"scalarIds"`
	Label     string      `json:"label"`
}

// EndBattle is the request body to finalize a battle.
type EndBattle struct {
	Caller  bgn.Address   `json:"caller"`
	Ranked  []bgn.Address `json:"ranked"`
	Rewards []*big.Int    `json:"rewards"`
}

// AddVerified is the request body to admit a battle creator.
type AddVerified struct {
	Caller bgn.Address `json:"caller"`
	Player bgn.Address `json:"player"`
}
