// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/billions-game/billions/api/restutil"
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/builtin/marketplace"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

// Market exposes the NFT marketplace over HTTP.
type Market struct {
	node *node.Node
}

func New(node *node.Node) *Market {
	return &Market{node}
}

// Listing is the JSON presentation of a market listing.
type Listing struct {
	ID         uint64      `json:"id"`
	Kind       string      `json:"kind"`
	Status     string      `json:"status"`
	Seller     bgn.Address `json:"seller"`
	NftID      uint64      `json:"nftId"`
	Price      *big.Int    `json:"price"`
	EndTime    uint64      `json:"endTime,omitempty"`
	BestBid    *big.Int    `json:"bestBid,omitempty"`
	BestBidder bgn.Address `json:"bestBidder"`
}

func convertListing(id uint64, l *marketplace.Listing) *Listing {
	kind := "auction"
	if l.Kind == marketplace.KindFixedSale {
		kind = "sale"
	}
	status := "open"
	switch l.Status {
	case marketplace.StatusSettled:
		status = "settled"
	case marketplace.StatusCancelled:
		status = "cancelled"
	}
	return &Listing{
		ID:         id,
		Kind:       kind,
		Status:     status,
		Seller:     l.Seller,
		NftID:      l.NftID,
		Price:      l.Price,
		EndTime:    l.EndTime,
		BestBid:    l.BestBid,
		BestBidder: l.BestBidder,
	}
}

// CreateAuction is the request body to open an auction.
type CreateAuction struct {
	Caller  bgn.Address `json:"caller"`
	NftID   uint64      `json:"nftId"`
	MinBid  *big.Int    `json:"minBid"`
	EndTime uint64      `json:"endTime"`
}

// CreateSale is the request body to open a fixed sale.
type CreateSale struct {
	Caller bgn.Address `json:"caller"`
	NftID  uint64      `json:"nftId"`
	Price  *big.Int    `json:"price"`
}

// Bid is the request body to bid on an auction.
type Bid struct {
	Caller bgn.Address `json:"caller"`
	Amount *big.Int    `json:"amount"`
}

// Caller is the request body of caller-only operations.
type Caller struct {
	Caller bgn.Address `json:"caller"`
}

func listingID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (m *Market) handleGetListing(w http.ResponseWriter, r *http.Request) error {
	id, err := listingID(r)
	if err != nil {
		return err
	}
	var result *Listing
	if err := m.node.Read(func(st *state.State) error {
		l, err := builtin.Marketplace.WithState(st).Get(id)
		if err != nil {
			return err
		}
		result = convertListing(id, l)
		return nil
	}); err != nil {
		return restutil.NotFound(err)
	}
	return restutil.WriteJSON(w, result)
}

func (m *Market) handleCreateAuction(w http.ResponseWriter, r *http.Request) error {
	var req CreateAuction
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var id uint64
	if err := m.node.Exec(func(st *state.State) error {
		var err error
		id, err = builtin.Marketplace.WithState(st).CreateAuction(req.Caller, req.NftID, req.MinBid, req.EndTime, m.node.Now())
		return err
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id})
}

func (m *Market) handleCreateSale(w http.ResponseWriter, r *http.Request) error {
	var req CreateSale
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var id uint64
	if err := m.node.Exec(func(st *state.State) error {
		var err error
		id, err = builtin.Marketplace.WithState(st).CreateFixedSale(req.Caller, req.NftID, req.Price)
		return err
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id})
}

func (m *Market) handleBid(w http.ResponseWriter, r *http.Request) error {
	id, err := listingID(r)
	if err != nil {
		return err
	}
	var req Bid
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := m.node.Exec(func(st *state.State) error {
		return builtin.Marketplace.WithState(st).Bid(req.Caller, id, req.Amount, m.node.Now())
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"accepted": true})
}

func (m *Market) handleSettle(w http.ResponseWriter, r *http.Request) error {
	id, err := listingID(r)
	if err != nil {
		return err
	}
	var req Caller
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := m.node.Exec(func(st *state.State) error {
		return builtin.Marketplace.WithState(st).SettleAuction(req.Caller, id, m.node.Now())
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"settled": true})
}

func (m *Market) handleBuy(w http.ResponseWriter, r *http.Request) error {
	id, err := listingID(r)
	if err != nil {
		return err
	}
	var req Caller
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := m.node.Exec(func(st *state.State) error {
		return builtin.Marketplace.WithState(st).BuyFixedSale(req.Caller, id)
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"bought": true})
}

func (m *Market) handleCancel(w http.ResponseWriter, r *http.Request) error {
	id, err := listingID(r)
	if err != nil {
		return err
	}
	var req Caller
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := m.node.Exec(func(st *state.State) error {
		return builtin.Marketplace.WithState(st).CancelFixedSale(req.Caller, id)
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"cancelled": true})
}

func (m *Market) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/auctions").
		Methods(http.MethodPost).
		Name("POST /market/auctions").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleCreateAuction))
	sub.Path("/sales").
		Methods(http.MethodPost).
		Name("POST /market/sales").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleCreateSale))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /market/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleGetListing))
	sub.Path("/{id}/bids").
		Methods(http.MethodPost).
		Name("POST /market/{id}/bids").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleBid))
	sub.Path("/{id}/settle").
		Methods(http.MethodPost).
		Name("POST /market/{id}/settle").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleSettle))
	sub.Path("/{id}/buy").
		Methods(http.MethodPost).
		Name("POST /market/{id}/buy").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleBuy))
	sub.Path("/{id}/cancel").
		Methods(http.MethodPost).
		Name("POST /market/{id}/cancel").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleCancel))
}
