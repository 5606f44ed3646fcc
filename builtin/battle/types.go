// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/billions-game/billions/bgn"
)

// Status of a battle at a point in time.
// Started is never stored, it is derived from the betting window.
type Status uint8

const (
	StatusBetting Status = iota
	StatusStarted
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusBetting:
		return "betting"
	case StatusStarted:
		return "started"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Info is the stored battle record.
type Info struct {
	Type            uint32
	Exchange        string
	Country         string
	EntryFee        *big.Int `rlp:"nil"`
	NftCount        uint32
	StartTime       uint64
	EndTime         uint64
	Label           string
	Creator         bgn.Address
	Ended           bool
	ContributedFees *big.Int `rlp:"nil"`
}

// IsEmpty returns whether the record holds no battle.
func (b *Info) IsEmpty() bool {
	return b.Creator.IsZero() && b.StartTime == 0 && b.EndTime == 0
}

// StatusAt derives the battle status at the given time.
func (b *Info) StatusAt(now uint64) Status {
	if b.Ended {
		return StatusEnded
	}
	if now >= b.StartTime {
		return StatusStarted
	}
	return StatusBetting
}

func (b *Info) entryFee() *big.Int {
	if b.EntryFee == nil {
		return &big.Int{}
	}
	return b.EntryFee
}

func (b *Info) contributedFees() *big.Int {
	if b.ContributedFees == nil {
		return &big.Int{}
	}
	return b.ContributedFees
}

// Encode implements state.StorageEncoder.
func (b *Info) Encode() ([]byte, error) {
	if b.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(b)
}

// Decode implements state.StorageDecoder.
func (b *Info) Decode(data []byte) error {
	if len(data) == 0 {
		*b = Info{}
		return nil
	}
	return rlp.DecodeBytes(data, b)
}

// PlayerEntry is a player's stake in one battle, immutable once recorded.
type PlayerEntry struct {
	NftIDs    []uint64
	ScalarIDs []uint64
	Label     string
	EnteredAt uint64
	Recorded  bool
}

// IsEmpty returns whether the entry was never recorded.
func (e *PlayerEntry) IsEmpty() bool {
	return !e.Recorded
}

// Encode implements state.StorageEncoder.
func (e *PlayerEntry) Encode() ([]byte, error) {
	if e.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(e)
}

// Decode implements state.StorageDecoder.
func (e *PlayerEntry) Decode(data []byte) error {
	if len(data) == 0 {
		*e = PlayerEntry{}
		return nil
	}
	return rlp.DecodeBytes(data, e)
}

// RewardRecord is the payout bookkeeping written once per ranked player.
type RewardRecord struct {
	Reward *big.Int `rlp:"nil"`
	Bonus  *big.Int `rlp:"nil"`
}

func (r *RewardRecord) reward() *big.Int {
	if r.Reward == nil {
		return &big.Int{}
	}
	return r.Reward
}

func (r *RewardRecord) bonus() *big.Int {
	if r.Bonus == nil {
		return &big.Int{}
	}
	return r.Bonus
}

// IsEmpty returns whether the record holds no payout.
func (r *RewardRecord) IsEmpty() bool {
	return r.reward().Sign() == 0 && r.bonus().Sign() == 0
}

// Encode implements state.StorageEncoder.
func (r *RewardRecord) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder.
func (r *RewardRecord) Decode(data []byte) error {
	if len(data) == 0 {
		*r = RewardRecord{}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}
