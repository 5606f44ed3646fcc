// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scalarnft

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/state"
)

var tokenCountKey = bgn.Keccak256([]byte("token-count"))

func tokenKey(id uint64) bgn.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return bgn.Keccak256([]byte("token"), b[:])
}

func minterKey(addr bgn.Address) bgn.Bytes32 {
	return bgn.BytesToBytes32(append([]byte("m"), addr.Bytes()...))
}

func approvalKey(owner bgn.Address, operator bgn.Address) bgn.Bytes32 {
	return bgn.Keccak256([]byte("approval"), owner.Bytes(), operator.Bytes())
}

// Token is the fungible-token fragment needed to collect the mint price.
type Token interface {
	Transfer(sender bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error)
}

// ScalarNFT binder of the scalar NFT registry contract.
// Each holder may mint at most one token; its scalar value is derived
// from the minter and token id.
type ScalarNFT struct {
	addr  bgn.Address
	state *state.State
}

// New create a new instance.
func New(addr bgn.Address, state *state.State) *ScalarNFT {
	return &ScalarNFT{addr, state}
}

type tokenRecord struct {
	Owner  bgn.Address
	Scalar uint64
}

func (r *tokenRecord) isEmpty() bool {
	return r.Owner.IsZero()
}

func (n *ScalarNFT) getToken(id uint64) (*tokenRecord, error) {
	var rec tokenRecord
	if err := n.state.DecodeStorage(n.addr, tokenKey(id), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &rec)
	}); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (n *ScalarNFT) setToken(id uint64, rec *tokenRecord) error {
	return n.state.EncodeStorage(n.addr, tokenKey(id), func() ([]byte, error) {
		if rec.isEmpty() {
			return nil, nil
		}
		return rlp.EncodeToBytes(rec)
	})
}

// Count returns the number of minted tokens.
func (n *ScalarNFT) Count() (uint64, error) {
	var cnt uint64
	if err := n.state.DecodeStorage(n.addr, tokenCountKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &cnt)
	}); err != nil {
		return 0, err
	}
	return cnt, nil
}

// TokenOf returns the token id minted by addr, 0 if none.
func (n *ScalarNFT) TokenOf(addr bgn.Address) (uint64, error) {
	var id uint64
	if err := n.state.DecodeStorage(n.addr, minterKey(addr), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &id)
	}); err != nil {
		return 0, err
	}
	return id, nil
}

// Mint creates the caller's one and only scalar token, collecting price
// into the registry's custody. Returns the new token id.
func (n *ScalarNFT) Mint(caller bgn.Address, price *big.Int, token Token) (uint64, error) {
	minted, err := n.TokenOf(caller)
	if err != nil {
		return 0, err
	}
	if minted != 0 {
		return 0, errors.New("holder already minted")
	}

	if price.Sign() > 0 {
		ok, err := token.Transfer(caller, n.addr, price)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errors.New("mint payment failed")
		}
	}

	cnt, err := n.Count()
	if err != nil {
		return 0, err
	}
	id := cnt + 1

	if err := n.setToken(id, &tokenRecord{Owner: caller, Scalar: deriveScalar(caller, id)}); err != nil {
		return 0, err
	}
	if err := n.state.EncodeStorage(n.addr, minterKey(caller), func() ([]byte, error) {
		return rlp.EncodeToBytes(id)
	}); err != nil {
		return 0, err
	}
	if err := n.state.EncodeStorage(n.addr, tokenCountKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(id)
	}); err != nil {
		return 0, err
	}
	return id, nil
}

// OwnerOf returns the owner of a token, zero address if the token does not exist.
func (n *ScalarNFT) OwnerOf(id uint64) (bgn.Address, error) {
	rec, err := n.getToken(id)
	if err != nil {
		return bgn.Address{}, err
	}
	return rec.Owner, nil
}

// ScalarOf returns the scalar value of a token.
func (n *ScalarNFT) ScalarOf(id uint64) (uint64, error) {
	rec, err := n.getToken(id)
	if err != nil {
		return 0, err
	}
	return rec.Scalar, nil
}

// SetApprovalForAll grants or revokes operator rights over all of owner's tokens.
func (n *ScalarNFT) SetApprovalForAll(owner bgn.Address, operator bgn.Address, approved bool) error {
	return n.state.EncodeStorage(n.addr, approvalKey(owner, operator), func() ([]byte, error) {
		if !approved {
			return nil, nil
		}
		return []byte{1}, nil
	})
}

// IsApprovedForAll returns whether operator may act on all of owner's tokens.
func (n *ScalarNFT) IsApprovedForAll(owner bgn.Address, operator bgn.Address) (bool, error) {
	var approved bool
	if err := n.state.DecodeStorage(n.addr, approvalKey(owner, operator), func(raw []byte) error {
		approved = len(raw) > 0
		return nil
	}); err != nil {
		return false, err
	}
	return approved, nil
}

// TransferFrom moves token id from its owner to the recipient.
// The caller must be the owner or an approved operator.
func (n *ScalarNFT) TransferFrom(caller bgn.Address, to bgn.Address, id uint64) error {
	rec, err := n.getToken(id)
	if err != nil {
		return err
	}
	if rec.isEmpty() {
		return errors.New("token does not exist")
	}
	if rec.Owner != caller {
		approved, err := n.IsApprovedForAll(rec.Owner, caller)
		if err != nil {
			return err
		}
		if !approved {
			return errors.New("caller is not owner nor approved")
		}
	}
	rec.Owner = to
	return n.setToken(id, rec)
}

// deriveScalar maps (minter, id) onto 1..100.
func deriveScalar(addr bgn.Address, id uint64) uint64 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	h := bgn.Keccak256(addr.Bytes(), b[:])
	return binary.BigEndian.Uint64(h[24:])%100 + 1
}
