// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/billions-game/billions/api/restutil"
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

// Accounts exposes play token balances and transfers over HTTP.
type Accounts struct {
	node *node.Node
}

func New(node *node.Node) *Accounts {
	return &Accounts{node}
}

// Account is the JSON presentation of a token account.
type Account struct {
	Address bgn.Address `json:"address"`
	Balance *big.Int    `json:"balance"`
}

// Approve is the request body to grant a spending allowance.
type Approve struct {
	Spender bgn.Address `json:"spender"`
	Amount  *big.Int    `json:"amount"`
}

// Transfer is the request body to move tokens.
type Transfer struct {
	Recipient bgn.Address `json:"recipient"`
	Amount    *big.Int    `json:"amount"`
}

func accountAddress(r *http.Request) (bgn.Address, error) {
	addr, err := bgn.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return bgn.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, r *http.Request) error {
	addr, err := accountAddress(r)
	if err != nil {
		return err
	}
	var balance *big.Int
	if err := a.node.Read(func(st *state.State) error {
		var err error
		balance, err = builtin.PlayToken.WithState(st).BalanceOf(addr)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Account{Address: addr, Balance: balance})
}

func (a *Accounts) handleGetAllowance(w http.ResponseWriter, r *http.Request) error {
	owner, err := accountAddress(r)
	if err != nil {
		return err
	}
	spender, err := bgn.ParseAddress(mux.Vars(r)["spender"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "spender"))
	}
	var allowance *big.Int
	if err := a.node.Read(func(st *state.State) error {
		var err error
		allowance, err = builtin.PlayToken.WithState(st).Allowance(owner, spender)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"allowance": allowance})
}

func (a *Accounts) handleApprove(w http.ResponseWriter, r *http.Request) error {
	owner, err := accountAddress(r)
	if err != nil {
		return err
	}
	var req Approve
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.node.Exec(func(st *state.State) error {
		return builtin.PlayToken.WithState(st).Approve(owner, req.Spender, req.Amount)
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"approved": true})
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, r *http.Request) error {
	sender, err := accountAddress(r)
	if err != nil {
		return err
	}
	var req Transfer
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.node.Exec(func(st *state.State) error {
		ok, err := builtin.PlayToken.WithState(st).Transfer(sender, req.Recipient, req.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("insufficient balance")
		}
		return nil
	}); err != nil {
		return restutil.BadRequest(err)
	}
	return restutil.WriteJSON(w, restutil.M{"transferred": true})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/approvals").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/approvals").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleApprove))
	sub.Path("/{address}/approvals/{spender}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/approvals/{spender}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAllowance))
	sub.Path("/{address}/transfers").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/transfers").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleTransfer))
}
