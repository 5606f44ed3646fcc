// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/state"
)

// Params binder of the governance config contract.
// It stores key/value pairs set at deployment time.
type Params struct {
	addr  bgn.Address
	state *state.State
}

// New create a new instance.
func New(addr bgn.Address, state *state.State) *Params {
	return &Params{addr, state}
}

// Get native way to get param.
// Zero is returned for keys never set.
func (p *Params) Get(key bgn.Bytes32) (*big.Int, error) {
	var v big.Int
	if err := p.state.DecodeStorage(p.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	}); err != nil {
		return nil, err
	}
	return &v, nil
}

// Set native way to set param.
func (p *Params) Set(key bgn.Bytes32, value *big.Int) error {
	return p.state.EncodeStorage(p.addr, key, func() ([]byte, error) {
		if value.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}
