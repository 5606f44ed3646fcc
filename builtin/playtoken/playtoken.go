// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package playtoken

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/state"
)

var totalSupplyKey = bgn.Keccak256([]byte("total-supply"))

func accountKey(addr bgn.Address) bgn.Bytes32 {
	return bgn.BytesToBytes32(append([]byte("a"), addr.Bytes()...))
}

func allowanceKey(owner bgn.Address, spender bgn.Address) bgn.Bytes32 {
	return bgn.Keccak256(owner.Bytes(), spender.Bytes())
}

// PlayToken binder of the fungible play token contract.
// Balances are held per address, entry fees and payouts flow through it.
type PlayToken struct {
	addr  bgn.Address
	state *state.State
}

// New create a new instance.
func New(addr bgn.Address, state *state.State) *PlayToken {
	return &PlayToken{addr, state}
}

func (t *PlayToken) getAmount(key bgn.Bytes32) (*big.Int, error) {
	var v big.Int
	if err := t.state.DecodeStorage(t.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	}); err != nil {
		return nil, err
	}
	return &v, nil
}

func (t *PlayToken) setAmount(key bgn.Bytes32, v *big.Int) error {
	return t.state.EncodeStorage(t.addr, key, func() ([]byte, error) {
		if v.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	})
}

// TotalSupply returns total minted supply of the play token.
func (t *PlayToken) TotalSupply() (*big.Int, error) {
	return t.getAmount(totalSupplyKey)
}

// BalanceOf returns the token balance of an account.
func (t *PlayToken) BalanceOf(addr bgn.Address) (*big.Int, error) {
	return t.getAmount(accountKey(addr))
}

// Mint credits amount to addr and grows the total supply.
func (t *PlayToken) Mint(addr bgn.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if err := t.setAmount(accountKey(addr), new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	return t.setAmount(totalSupplyKey, new(big.Int).Add(supply, amount))
}

// Approve sets the allowance of spender over owner's balance.
func (t *PlayToken) Approve(owner bgn.Address, spender bgn.Address, amount *big.Int) error {
	return t.setAmount(allowanceKey(owner, spender), amount)
}

// Allowance returns the remaining allowance of spender over owner's balance.
func (t *PlayToken) Allowance(owner bgn.Address, spender bgn.Address) (*big.Int, error) {
	return t.getAmount(allowanceKey(owner, spender))
}

// Transfer moves amount from sender to recipient.
// Returns false leaving the state untouched when the balance is short.
func (t *PlayToken) Transfer(sender bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	bal, err := t.BalanceOf(sender)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	if err := t.setAmount(accountKey(sender), new(big.Int).Sub(bal, amount)); err != nil {
		return false, err
	}
	rbal, err := t.BalanceOf(recipient)
	if err != nil {
		return false, err
	}
	if err := t.setAmount(accountKey(recipient), new(big.Int).Add(rbal, amount)); err != nil {
		return false, err
	}
	return true, nil
}

// TransferFrom moves amount from owner to recipient on behalf of spender,
// consuming spender's allowance. Returns false when allowance or balance is short.
func (t *PlayToken) TransferFrom(spender bgn.Address, owner bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error) {
	allowance, err := t.Allowance(owner, spender)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) < 0 {
		return false, nil
	}
	ok, err := t.Transfer(owner, recipient, amount)
	if err != nil || !ok {
		return ok, err
	}
	return true, t.setAmount(allowanceKey(owner, spender), new(big.Int).Sub(allowance, amount))
}
