// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/billions-game/billions/bgn"
)

var (
	battleCountKey = bgn.Keccak256([]byte("battle-count"))
	reserveKey     = bgn.Keccak256([]byte("reserve-balance"))
	ownerKey       = bgn.Keccak256([]byte("owner"))
)

func idBytes(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

func battleKey(id uint64) bgn.Bytes32 {
	return bgn.Keccak256([]byte("battle"), idBytes(id))
}

func playerKey(id uint64, addr bgn.Address) bgn.Bytes32 {
	return bgn.Keccak256([]byte("player"), idBytes(id), addr.Bytes())
}

func playerCountKey(id uint64) bgn.Bytes32 {
	return bgn.Keccak256([]byte("player-count"), idBytes(id))
}

func rewardKey(id uint64, addr bgn.Address) bgn.Bytes32 {
	return bgn.Keccak256([]byte("reward"), idBytes(id), addr.Bytes())
}

func verifiedKey(addr bgn.Address) bgn.Bytes32 {
	return bgn.BytesToBytes32(append([]byte("v"), addr.Bytes()...))
}

func (b *Battle) getInfo(id uint64) (*Info, error) {
	var info Info
	if err := b.state.DecodeStorage(b.addr, battleKey(id), info.Decode); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Battle) setInfo(id uint64, info *Info) error {
	return b.state.EncodeStorage(b.addr, battleKey(id), info.Encode)
}

func (b *Battle) getEntry(id uint64, addr bgn.Address) (*PlayerEntry, error) {
	var entry PlayerEntry
	if err := b.state.DecodeStorage(b.addr, playerKey(id, addr), entry.Decode); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (b *Battle) setEntry(id uint64, addr bgn.Address, entry *PlayerEntry) error {
	return b.state.EncodeStorage(b.addr, playerKey(id, addr), entry.Encode)
}

func (b *Battle) getReward(id uint64, addr bgn.Address) (*RewardRecord, error) {
	var rec RewardRecord
	if err := b.state.DecodeStorage(b.addr, rewardKey(id, addr), rec.Decode); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (b *Battle) setReward(id uint64, addr bgn.Address, rec *RewardRecord) error {
	return b.state.EncodeStorage(b.addr, rewardKey(id, addr), rec.Encode)
}

func (b *Battle) getUint64(key bgn.Bytes32) (uint64, error) {
	var v uint64
	if err := b.state.DecodeStorage(b.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	}); err != nil {
		return 0, err
	}
	return v, nil
}

func (b *Battle) setUint64(key bgn.Bytes32, v uint64) error {
	return b.state.EncodeStorage(b.addr, key, func() ([]byte, error) {
		if v == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	})
}

func (b *Battle) getAmount(key bgn.Bytes32) (*big.Int, error) {
	var v big.Int
	if err := b.state.DecodeStorage(b.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	}); err != nil {
		return nil, err
	}
	return &v, nil
}

func (b *Battle) setAmount(key bgn.Bytes32, v *big.Int) error {
	return b.state.EncodeStorage(b.addr, key, func() ([]byte, error) {
		if v.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	})
}

func (b *Battle) getAddress(key bgn.Bytes32) (bgn.Address, error) {
	var addr bgn.Address
	if err := b.state.DecodeStorage(b.addr, key, func(raw []byte) error {
		addr = bgn.BytesToAddress(raw)
		return nil
	}); err != nil {
		return bgn.Address{}, err
	}
	return addr, nil
}

func (b *Battle) setAddress(key bgn.Bytes32, addr bgn.Address) error {
	return b.state.EncodeStorage(b.addr, key, func() ([]byte, error) {
		if addr.IsZero() {
			return nil, nil
		}
		return addr.Bytes(), nil
	})
}
