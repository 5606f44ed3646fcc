// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package billionsnft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/billions-game/billions/bgn"
)

type tokenRecord struct {
	Owner     bgn.Address
	Symbol    string
	Name      string
	RentPrice *big.Int `rlp:"nil"`
	RentOpen  bool
}

func (r *tokenRecord) IsEmpty() bool {
	return r.Owner.IsZero()
}

func (r *tokenRecord) rentPrice() *big.Int {
	if r.RentPrice == nil {
		return &big.Int{}
	}
	return r.RentPrice
}

// Encode implements state.StorageEncoder.
func (r *tokenRecord) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder.
func (r *tokenRecord) Decode(data []byte) error {
	if len(data) == 0 {
		*r = tokenRecord{}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}

type stgUint64 uint64

// Encode implements state.StorageEncoder.
func (v *stgUint64) Encode() ([]byte, error) {
	if *v == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(uint64(*v))
}

// Decode implements state.StorageDecoder.
func (v *stgUint64) Decode(data []byte) error {
	if len(data) == 0 {
		*v = 0
		return nil
	}
	var u uint64
	if err := rlp.DecodeBytes(data, &u); err != nil {
		return err
	}
	*v = stgUint64(u)
	return nil
}
