// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nfts

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/billions-game/billions/api/restutil"
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

// NFTs exposes the investor NFT registry over HTTP.
type NFTs struct {
	node *node.Node
}

func New(node *node.Node) *NFTs {
	return &NFTs{node}
}

// Mint is the request body to mint an investor NFT.
type Mint struct {
	Caller bgn.Address `json:"caller"`
	Symbol string      `json:"symbol"`
	Name   string      `json:"name"`
}

// Renting is the request body to open or close rental slots.
type Renting struct {
	Caller bgn.Address `json:"caller"`
	Price  *big.Int    `json:"price"`
	Open   bool        `json:"open"`
}

// Rent is the request body to rent slots of an NFT.
type Rent struct {
	Caller bgn.Address `json:"caller"`
	Slots  []uint8     `json:"slots"`
}

func tokenID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (n *NFTs) handleMint(w http.ResponseWriter, r *http.Request) error {
	var req Mint
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var id uint64
	if err := n.node.Exec(func(st *state.State) error {
		var err error
		id, err = builtin.BillionsNFT.WithState(st).Mint(req.Caller, req.Symbol, req.Name)
		return err
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id})
}

func (n *NFTs) handleGetToken(w http.ResponseWriter, r *http.Request) error {
	id, err := tokenID(r)
	if err != nil {
		return err
	}
	var (
		owner        bgn.Address
		symbol, name string
	)
	if err := n.node.Read(func(st *state.State) error {
		registry := builtin.BillionsNFT.WithState(st)
		var err error
		if owner, err = registry.OwnerOf(id); err != nil {
			return err
		}
		symbol, name, err = registry.MetadataOf(id)
		return err
	}); err != nil {
		return restutil.NotFound(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id, "owner": &owner, "symbol": symbol, "name": name})
}

func (n *NFTs) handleRenting(w http.ResponseWriter, r *http.Request) error {
	id, err := tokenID(r)
	if err != nil {
		return err
	}
	var req Renting
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := n.node.Exec(func(st *state.State) error {
		return builtin.BillionsNFT.WithState(st).UpdateRentingStatus(req.Caller, id, req.Price, req.Open)
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"updated": true})
}

func (n *NFTs) handleRent(w http.ResponseWriter, r *http.Request) error {
	id, err := tokenID(r)
	if err != nil {
		return err
	}
	var req Rent
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := n.node.Exec(func(st *state.State) error {
		return builtin.BillionsNFT.WithState(st).Rent(req.Caller, id, req.Slots, builtin.PlayToken.WithState(st))
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"rented": true})
}

func (n *NFTs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /nfts").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleMint))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /nfts/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleGetToken))
	sub.Path("/{id}/renting").
		Methods(http.MethodPost).
		Name("POST /nfts/{id}/renting").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleRenting))
	sub.Path("/{id}/rentals").
		Methods(http.MethodPost).
		Name("POST /nfts/{id}/rentals").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleRent))
}
