// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package billionsnft

import (
	"encoding/binary"
	"math/big"

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

func approvalKey(owner bgn.Address, operator bgn.Address) bgn.Bytes32 {
	return bgn.Keccak256([]byte("approval"), owner.Bytes(), operator.Bytes())
}

func tokenApprovalKey(id uint64) bgn.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return bgn.Keccak256([]byte("token-approval"), b[:])
}

func renterKey(id uint64, slot uint8) bgn.Bytes32 {
	var b [9]byte
	binary.BigEndian.PutUint64(b[:8], id)
	b[8] = slot
	return bgn.Keccak256([]byte("renter"), b[:])
}

// Token is the fungible-token fragment needed to settle rents.
type Token interface {
	Transfer(sender bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error)
}

// BillionsNFT binder of the collateral NFT registry contract.
// Tokens are pledged as battle collateral, either owned or rented per slot.
type BillionsNFT struct {
	addr  bgn.Address
	state *state.State
}

// New create a new instance.
func New(addr bgn.Address, state *state.State) *BillionsNFT {
	return &BillionsNFT{addr, state}
}

func (n *BillionsNFT) getToken(id uint64) (*tokenRecord, error) {
	var rec tokenRecord
	if err := n.state.DecodeStorage(n.addr, tokenKey(id), rec.Decode); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (n *BillionsNFT) setToken(id uint64, rec *tokenRecord) error {
	return n.state.EncodeStorage(n.addr, tokenKey(id), rec.Encode)
}

// Count returns the number of minted tokens.
func (n *BillionsNFT) Count() (uint64, error) {
	var cnt stgUint64
	if err := n.state.DecodeStorage(n.addr, tokenCountKey, cnt.Decode); err != nil {
		return 0, err
	}
	return uint64(cnt), nil
}

// Mint creates a new token owned by to, tagged with the market symbol
// it represents, and returns its id. Ids start at 1 and grow monotonically.
func (n *BillionsNFT) Mint(to bgn.Address, symbol string, name string) (uint64, error) {
	cnt, err := n.Count()
	if err != nil {
		return 0, err
	}
	id := cnt + 1
	if err := n.setToken(id, &tokenRecord{Owner: to, Symbol: symbol, Name: name}); err != nil {
		return 0, err
	}
	c := stgUint64(id)
	if err := n.state.EncodeStorage(n.addr, tokenCountKey, c.Encode); err != nil {
		return 0, err
	}
	return id, nil
}

// OwnerOf returns the owner of a token, zero address if the token does not exist.
func (n *BillionsNFT) OwnerOf(id uint64) (bgn.Address, error) {
	rec, err := n.getToken(id)
	if err != nil {
		return bgn.Address{}, err
	}
	return rec.Owner, nil
}

// MetadataOf returns the symbol and name a token was minted with.
func (n *BillionsNFT) MetadataOf(id uint64) (symbol string, name string, err error) {
	rec, err := n.getToken(id)
	if err != nil {
		return "", "", err
	}
	return rec.Symbol, rec.Name, nil
}

// Approve grants a single-token transfer right. Only the token owner may
// approve; the approval is cleared on transfer.
func (n *BillionsNFT) Approve(caller bgn.Address, approved bgn.Address, id uint64) error {
	rec, err := n.getToken(id)
	if err != nil {
		return err
	}
	if rec.IsEmpty() || rec.Owner != caller {
		return errors.New("caller is not owner")
	}
	return n.state.EncodeStorage(n.addr, tokenApprovalKey(id), func() ([]byte, error) {
		if approved.IsZero() {
			return nil, nil
		}
		return approved.Bytes(), nil
	})
}

// GetApproved returns the address approved for a single token, zero if none.
func (n *BillionsNFT) GetApproved(id uint64) (bgn.Address, error) {
	var approved bgn.Address
	if err := n.state.DecodeStorage(n.addr, tokenApprovalKey(id), func(raw []byte) error {
		approved = bgn.BytesToAddress(raw)
		return nil
	}); err != nil {
		return bgn.Address{}, err
	}
	return approved, nil
}

// SetApprovalForAll grants or revokes operator rights over all of owner's tokens.
func (n *BillionsNFT) SetApprovalForAll(owner bgn.Address, operator bgn.Address, approved bool) error {
	return n.state.EncodeStorage(n.addr, approvalKey(owner, operator), func() ([]byte, error) {
		if !approved {
			return nil, nil
		}
		return []byte{1}, nil
	})
}

// IsApprovedForAll returns whether operator may act on all of owner's tokens.
func (n *BillionsNFT) IsApprovedForAll(owner bgn.Address, operator bgn.Address) (bool, error) {
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
func (n *BillionsNFT) TransferFrom(caller bgn.Address, from bgn.Address, to bgn.Address, id uint64) error {
	rec, err := n.getToken(id)
	if err != nil {
		return err
	}
	if rec.IsEmpty() || rec.Owner != from {
		return errors.New("transfer from wrong owner")
	}
	if caller != from {
		operator, err := n.IsApprovedForAll(from, caller)
		if err != nil {
			return err
		}
		if !operator {
			approved, err := n.GetApproved(id)
			if err != nil {
				return err
			}
			if approved != caller {
				return errors.New("caller is not owner nor approved")
			}
		}
	}
	if err := n.state.EncodeStorage(n.addr, tokenApprovalKey(id), func() ([]byte, error) {
		return nil, nil
	}); err != nil {
		return err
	}
	rec.Owner = to
	return n.setToken(id, rec)
}

// UpdateRentingStatus opens or closes a token for renting at the given price per slot.
// Only the token owner may change the status.
func (n *BillionsNFT) UpdateRentingStatus(caller bgn.Address, id uint64, price *big.Int, open bool) error {
	rec, err := n.getToken(id)
	if err != nil {
		return err
	}
	if rec.IsEmpty() || rec.Owner != caller {
		return errors.New("caller is not owner")
	}
	rec.RentPrice = price
	rec.RentOpen = open
	return n.setToken(id, rec)
}

// Rent pays the per-slot rent to the token owner and records caller
// as the renter of each requested slot.
func (n *BillionsNFT) Rent(caller bgn.Address, id uint64, slots []uint8, token Token) error {
	rec, err := n.getToken(id)
	if err != nil {
		return err
	}
	if rec.IsEmpty() || !rec.RentOpen {
		return errors.New("token is not open for renting")
	}
	for _, slot := range slots {
		renter, err := n.renterOf(id, slot)
		if err != nil {
			return err
		}
		if !renter.IsZero() {
			return errors.Errorf("slot %d already rented", slot)
		}
	}

	total := new(big.Int).Mul(rec.rentPrice(), big.NewInt(int64(len(slots))))
	ok, err := token.Transfer(caller, rec.Owner, total)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("rent payment failed")
	}

	for _, slot := range slots {
		if err := n.state.EncodeStorage(n.addr, renterKey(id, slot), func() ([]byte, error) {
			return caller.Bytes(), nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (n *BillionsNFT) renterOf(id uint64, slot uint8) (bgn.Address, error) {
	var renter bgn.Address
	if err := n.state.DecodeStorage(n.addr, renterKey(id, slot), func(raw []byte) error {
		renter = bgn.BytesToAddress(raw)
		return nil
	}); err != nil {
		return bgn.Address{}, err
	}
	return renter, nil
}

// IsRenter returns whether addr rents the given slot of token id.
func (n *BillionsNFT) IsRenter(id uint64, slot uint8, addr bgn.Address) (bool, error) {
	renter, err := n.renterOf(id, slot)
	if err != nil {
		return false, err
	}
	return !renter.IsZero() && renter == addr, nil
}
