// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nfts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/billions-game/billions/api/restutil"
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

// Scalars exposes the scalar NFT registry over HTTP.
// The mint price comes from governance params.
type Scalars struct {
	node *node.Node
}

func NewScalars(node *node.Node) *Scalars {
	return &Scalars{node}
}

func (s *Scalars) handleMint(w http.ResponseWriter, r *http.Request) error {
	var req Mint
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var (
		id     uint64
		scalar uint64
	)
	if err := s.node.Exec(func(st *state.State) error {
		price, err := builtin.Params.WithState(st).Get(bgn.KeyScalarMintPrice)
		if err != nil {
			return err
		}
		registry := builtin.ScalarNFT.WithState(st)
		if id, err = registry.Mint(req.Caller, price, builtin.PlayToken.WithState(st)); err != nil {
			return err
		}
		scalar, err = registry.ScalarOf(id)
		return err
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id, "scalar": scalar})
}

func (s *Scalars) handleGetToken(w http.ResponseWriter, r *http.Request) error {
	id, err := tokenID(r)
	if err != nil {
		return err
	}
	var (
		owner  bgn.Address
		scalar uint64
	)
	if err := s.node.Read(func(st *state.State) error {
		registry := builtin.ScalarNFT.WithState(st)
		var err error
		if owner, err = registry.OwnerOf(id); err != nil {
			return err
		}
		scalar, err = registry.ScalarOf(id)
		return err
	}); err != nil {
		return restutil.NotFound(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id, "owner": &owner, "scalar": scalar})
}

func (s *Scalars) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /scalars").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleMint))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /scalars/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetToken))
}
