// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marketplace

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/log"
	"github.com/billions-game/billions/state"
)

var logger = log.WithContext("pkg", "marketplace")

var listingCountKey = bgn.Keccak256([]byte("listing-count"))

func listingKey(id uint64) bgn.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return bgn.Keccak256([]byte("listing"), b[:])
}

// Token is the fungible-token fragment needed to settle trades.
type Token interface {
	Transfer(sender bgn.Address, recipient bgn.Address, amount *big.Int) (bool, error)
}

// NFT is the registry fragment needed to custody traded tokens.
type NFT interface {
	OwnerOf(id uint64) (bgn.Address, error)
	TransferFrom(caller bgn.Address, from bgn.Address, to bgn.Address, id uint64) error
}

// Marketplace binder of the secondary market contract: english auctions
// and fixed-price sales of collateral NFTs. Listed tokens and standing bids
// are custodied under the contract's own addresses.
type Marketplace struct {
	addr  bgn.Address
	state *state.State
	token Token
	nft   NFT
}

// New create a new instance.
func New(addr bgn.Address, state *state.State, token Token, nft NFT) *Marketplace {
	return &Marketplace{addr, state, token, nft}
}

func (m *Marketplace) atomically(fn func() error) error {
	rev := m.state.NewCheckpoint()
	if err := fn(); err != nil {
		m.state.RevertTo(rev)
		return err
	}
	return nil
}

func (m *Marketplace) getListing(id uint64) (*Listing, error) {
	var l Listing
	if err := m.state.DecodeStorage(m.addr, listingKey(id), l.Decode); err != nil {
		return nil, err
	}
	return &l, nil
}

func (m *Marketplace) setListing(id uint64, l *Listing) error {
	return m.state.EncodeStorage(m.addr, listingKey(id), l.Encode)
}

func (m *Marketplace) nextListingID() (uint64, error) {
	var cnt uint64
	if err := m.state.DecodeStorage(m.addr, listingCountKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return decodeUint64(raw, &cnt)
	}); err != nil {
		return 0, err
	}
	id := cnt + 1
	if err := m.state.EncodeStorage(m.addr, listingCountKey, func() ([]byte, error) {
		return encodeUint64(id)
	}); err != nil {
		return 0, err
	}
	return id, nil
}

// Count returns the number of listings ever created.
func (m *Marketplace) Count() (uint64, error) {
	var cnt uint64
	err := m.state.DecodeStorage(m.addr, listingCountKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return decodeUint64(raw, &cnt)
	})
	return cnt, err
}

// Get returns the listing for the given id.
func (m *Marketplace) Get(id uint64) (*Listing, error) {
	l, err := m.getListing(id)
	if err != nil {
		return nil, err
	}
	if l.IsEmpty() {
		return nil, errors.Errorf("listing %d not found", id)
	}
	return l, nil
}

// custodyNFT pulls the token from the seller into market custody.
func (m *Marketplace) custodyNFT(seller bgn.Address, nftID uint64) error {
	owner, err := m.nft.OwnerOf(nftID)
	if err != nil {
		return err
	}
	if owner != seller {
		return errors.New("seller does not own the token")
	}
	return m.nft.TransferFrom(seller, seller, m.addr, nftID)
}

// CreateAuction lists an owned token for english auction until endTime.
// Returns the new listing id.
func (m *Marketplace) CreateAuction(caller bgn.Address, nftID uint64, minBid *big.Int, endTime uint64, now uint64) (uint64, error) {
	if endTime <= now {
		return 0, errors.New("auction end not in the future")
	}
	var id uint64
	if err := m.atomically(func() error {
		if err := m.custodyNFT(caller, nftID); err != nil {
			return err
		}
		var err error
		if id, err = m.nextListingID(); err != nil {
			return err
		}
		return m.setListing(id, &Listing{
			Kind:    KindAuction,
			Status:  StatusOpen,
			Seller:  caller,
			NftID:   nftID,
			Price:   minBid,
			EndTime: endTime,
		})
	}); err != nil {
		return 0, err
	}
	logger.Debug("auction created", "listing", id, "nft", nftID, "seller", caller)
	return id, nil
}

// Bid places a bid on an open auction, refunding the previous best bidder.
// The bid amount moves into market custody until settlement.
func (m *Marketplace) Bid(caller bgn.Address, id uint64, amount *big.Int, now uint64) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if l.Kind != KindAuction || l.Status != StatusOpen {
		return errors.New("listing is not an open auction")
	}
	if now >= l.EndTime {
		return errors.New("auction is over")
	}
	if amount.Cmp(l.price()) < 0 || amount.Cmp(l.bestBid()) <= 0 {
		return errors.New("bid too low")
	}

	return m.atomically(func() error {
		ok, err := m.token.Transfer(caller, m.addr, amount)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("bid payment failed")
		}
		if !l.BestBidder.IsZero() {
			if ok, err := m.token.Transfer(m.addr, l.BestBidder, l.bestBid()); err != nil {
				return err
			} else if !ok {
				return errors.New("refund of previous bid failed")
			}
		}
		l.BestBid = amount
		l.BestBidder = caller
		return m.setListing(id, l)
	})
}

// SettleAuction closes an ended auction: the token goes to the best bidder
// and the bid to the seller. Without bids the token returns to the seller.
func (m *Marketplace) SettleAuction(caller bgn.Address, id uint64, now uint64) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if l.Kind != KindAuction || l.Status != StatusOpen {
		return errors.New("listing is not an open auction")
	}
	if now < l.EndTime {
		return errors.New("auction still running")
	}

	return m.atomically(func() error {
		if l.BestBidder.IsZero() {
			if err := m.nft.TransferFrom(m.addr, m.addr, l.Seller, l.NftID); err != nil {
				return err
			}
		} else {
			if err := m.nft.TransferFrom(m.addr, m.addr, l.BestBidder, l.NftID); err != nil {
				return err
			}
			if ok, err := m.token.Transfer(m.addr, l.Seller, l.bestBid()); err != nil {
				return err
			} else if !ok {
				return errors.New("payout to seller failed")
			}
		}
		l.Status = StatusSettled
		return m.setListing(id, l)
	})
}

// CreateFixedSale lists an owned token at a fixed price.
// Returns the new listing id.
func (m *Marketplace) CreateFixedSale(caller bgn.Address, nftID uint64, price *big.Int) (uint64, error) {
	if price == nil || price.Sign() <= 0 {
		return 0, errors.New("price must be positive")
	}
	var id uint64
	if err := m.atomically(func() error {
		if err := m.custodyNFT(caller, nftID); err != nil {
			return err
		}
		var err error
		if id, err = m.nextListingID(); err != nil {
			return err
		}
		return m.setListing(id, &Listing{
			Kind:   KindFixedSale,
			Status: StatusOpen,
			Seller: caller,
			NftID:  nftID,
			Price:  price,
		})
	}); err != nil {
		return 0, err
	}
	logger.Debug("fixed sale created", "listing", id, "nft", nftID, "seller", caller)
	return id, nil
}

// BuyFixedSale buys an open fixed-price listing outright.
func (m *Marketplace) BuyFixedSale(caller bgn.Address, id uint64) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if l.Kind != KindFixedSale || l.Status != StatusOpen {
		return errors.New("listing is not an open sale")
	}

	return m.atomically(func() error {
		ok, err := m.token.Transfer(caller, l.Seller, l.price())
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("sale payment failed")
		}
		if err := m.nft.TransferFrom(m.addr, m.addr, caller, l.NftID); err != nil {
			return err
		}
		l.Status = StatusSettled
		return m.setListing(id, l)
	})
}

// CancelFixedSale withdraws an open fixed-price listing, returning the token.
// Seller only.
func (m *Marketplace) CancelFixedSale(caller bgn.Address, id uint64) error {
	l, err := m.Get(id)
	if err != nil {
		return err
	}
	if l.Kind != KindFixedSale || l.Status != StatusOpen {
		return errors.New("listing is not an open sale")
	}
	if l.Seller != caller {
		return errors.New("caller is not the seller")
	}

	return m.atomically(func() error {
		if err := m.nft.TransferFrom(m.addr, m.addr, l.Seller, l.NftID); err != nil {
			return err
		}
		l.Status = StatusCancelled
		return m.setListing(id, l)
	})
}
