// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battles

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/billions-game/billions/api/restutil"
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/builtin/battle"
	"github.com/billions-game/billions/node"
	"github.com/billions-game/billions/state"
)

// Battles exposes the battle contract over HTTP.
type Battles struct {
	node *node.Node
}

func New(node *node.Node) *Battles {
	return &Battles{node}
}

// convertError maps contract sentinels onto http statuses.
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, battle.ErrNotFound):
		return restutil.NotFound(err)
	case errors.Is(err, battle.ErrUnauthorized):
		return restutil.Forbidden(err)
	case errors.Is(err, battle.ErrInvalidWindow),
		errors.Is(err, battle.ErrBettingClosed),
		errors.Is(err, battle.ErrDuplicateEntry),
		errors.Is(err, battle.ErrCollateralCountMismatch),
		errors.Is(err, battle.ErrLengthMismatch),
		errors.Is(err, battle.ErrTooEarly),
		errors.Is(err, battle.ErrAlreadyEnded),
		errors.Is(err, battle.ErrInsufficientReserve):
		return restutil.BadRequest(err)
	default:
		return err
	}
}

func battleID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func playerAddress(r *http.Request) (bgn.Address, error) {
	addr, err := bgn.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return bgn.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (b *Battles) handleGetBattle(w http.ResponseWriter, r *http.Request) error {
	id, err := battleID(r)
	if err != nil {
		return err
	}
	var result *Battle
	if err := b.node.Read(func(st *state.State) error {
		contract := builtin.Battle.WithState(st)
		info, err := contract.Get(id)
		if err != nil {
			return err
		}
		cnt, err := contract.PlayerCount(id)
		if err != nil {
			return err
		}
		result = convertBattle(id, info, cnt, b.node.Now())
		return nil
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, result)
}

func (b *Battles) handleGetCount(w http.ResponseWriter, _ *http.Request) error {
	var count uint64
	if err := b.node.Read(func(st *state.State) error {
		var err error
		count, err = builtin.Battle.WithState(st).Count()
		return err
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"count": count})
}

func (b *Battles) handleGetReserve(w http.ResponseWriter, _ *http.Request) error {
	var reserve *big.Int
	if err := b.node.Read(func(st *state.State) error {
		var err error
		reserve, err = builtin.Battle.WithState(st).Reserve()
		return err
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"reserve": reserve})
}

func (b *Battles) handleGetPlayer(w http.ResponseWriter, r *http.Request) error {
	id, err := battleID(r)
	if err != nil {
		return err
	}
	addr, err := playerAddress(r)
	if err != nil {
		return err
	}
	var result *Player
	if err := b.node.Read(func(st *state.State) error {
		entry, err := builtin.Battle.WithState(st).Player(id, addr)
		if err != nil {
			return err
		}
		result = convertPlayer(addr, entry)
		return nil
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, result)
}

func (b *Battles) handleGetReward(w http.ResponseWriter, r *http.Request) error {
	id, err := battleID(r)
	if err != nil {
		return err
	}
	addr, err := playerAddress(r)
	if err != nil {
		return err
	}
	var result Reward
	if err := b.node.Read(func(st *state.State) error {
		contract := builtin.Battle.WithState(st)
		if _, err := contract.Get(id); err != nil {
			return err
		}
		reward, err := contract.PlayerReward(id, addr)
		if err != nil {
			return err
		}
		bonus, err := contract.PlayerBonus(id, addr)
		if err != nil {
			return err
		}
		result = Reward{Reward: reward, Bonus: bonus}
		return nil
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, &result)
}

func (b *Battles) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var req CreateBattle
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var id uint64
	if err := b.node.Exec(func(st *state.State) error {
		var err error
		id, err = builtin.Battle.WithState(st).Create(req.Caller, b.node.Now(), &battle.CreateParams{
			Type:      req.Type,
			Exchange:  req.Exchange,
			Country:   req.Country,
			EntryFee:  req.EntryFee,
			NftCount:  req.NftCount,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Label:     req.Label,
		})
		return err
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": id})
}

func (b *Battles) handleEnter(w http.ResponseWriter, r *http.Request) error {
	id, err := battleID(r)
	if err != nil {
		return err
	}
	var req EnterBattle
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := b.node.Exec(func(st *state.State) error {
		return builtin.Battle.WithState(st).Enter(req.Caller, b.node.Now(), id, req.NftIDs, req.ScalarIDs, req.Label)
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"entered": true})
}

func (b *Battles) handleEnd(w http.ResponseWriter, r *http.Request) error {
	id, err := battleID(r)
	if err != nil {
		return err
	}
	var req EndBattle
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := b.node.Exec(func(st *state.State) error {
		return builtin.Battle.WithState(st).End(req.Caller, b.node.Now(), id, req.Ranked, req.Rewards)
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ended": true})
}

func (b *Battles) handleAddVerified(w http.ResponseWriter, r *http.Request) error {
	var req AddVerified
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := b.node.Exec(func(st *state.State) error {
		return builtin.Battle.WithState(st).AddVerifiedPlayer(req.Caller, req.Player)
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"verified": true})
}

func (b *Battles) handleGetVerified(w http.ResponseWriter, r *http.Request) error {
	addr, err := playerAddress(r)
	if err != nil {
		return err
	}
	var verified bool
	if err := b.node.Read(func(st *state.State) error {
		var err error
		verified, err = builtin.Battle.WithState(st).IsVerified(addr)
		return err
	}); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"verified": verified})
}

func (b *Battles) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /battles").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleCreate))
	sub.Path("/count").
		Methods(http.MethodGet).
		Name("GET /battles/count").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetCount))
	sub.Path("/reserve").
		Methods(http.MethodGet).
		Name("GET /battles/reserve").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetReserve))
	sub.Path("/verified").
		Methods(http.MethodPost).
		Name("POST /battles/verified").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleAddVerified))
	sub.Path("/verified/{address}").
		Methods(http.MethodGet).
		Name("GET /battles/verified/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetVerified))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /battles/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetBattle))
	sub.Path("/{id}/entries").
		Methods(http.MethodPost).
		Name("POST /battles/{id}/entries").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleEnter))
	sub.Path("/{id}/end").
		Methods(http.MethodPost).
		Name("POST /battles/{id}/end").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleEnd))
	sub.Path("/{id}/players/{address}").
		Methods(http.MethodGet).
		Name("GET /battles/{id}/players/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetPlayer))
	sub.Path("/{id}/players/{address}/reward").
		Methods(http.MethodGet).
		Name("GET /battles/{id}/players/{address}/reward").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetReward))
}
