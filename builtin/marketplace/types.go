// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marketplace

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/billions-game/billions/bgn"
)

// Kind of listing.
type Kind uint8

const (
	KindAuction Kind = iota
	KindFixedSale
)

// Status of a listing.
type Status uint8

const (
	StatusOpen Status = iota
	StatusSettled
	StatusCancelled
)

// Listing is a stored market listing, auction or fixed sale.
type Listing struct {
	Kind       Kind
	Status     Status
	Seller     bgn.Address
	NftID      uint64
	Price      *big.Int `rlp:"nil"` // min bid for auctions, ask for fixed sales
	EndTime    uint64
	BestBid    *big.Int `rlp:"nil"`
	BestBidder bgn.Address
}

// IsEmpty returns whether the record holds no listing.
func (l *Listing) IsEmpty() bool {
	return l.Seller.IsZero()
}

func (l *Listing) price() *big.Int {
	if l.Price == nil {
		return &big.Int{}
	}
	return l.Price
}

func (l *Listing) bestBid() *big.Int {
	if l.BestBid == nil {
		return &big.Int{}
	}
	return l.BestBid
}

// Encode implements state.StorageEncoder.
func (l *Listing) Encode() ([]byte, error) {
	if l.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(l)
}

// Decode implements state.StorageDecoder.
func (l *Listing) Decode(data []byte) error {
	if len(data) == 0 {
		*l = Listing{}
		return nil
	}
	return rlp.DecodeBytes(data, l)
}

func encodeUint64(v uint64) ([]byte, error) {
	if v == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(v)
}

func decodeUint64(raw []byte, v *uint64) error {
	return rlp.DecodeBytes(raw, v)
}
