// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin/battle"
	"github.com/billions-game/billions/builtin/billionsnft"
	"github.com/billions-game/billions/builtin/marketplace"
	"github.com/billions-game/billions/builtin/params"
	"github.com/billions-game/billions/builtin/playtoken"
	"github.com/billions-game/billions/builtin/scalarnft"
	"github.com/billions-game/billions/state"
)

// Builtin contracts binding. Addresses are fixed, derived from the contract name.
var (
	Params      = &paramsContract{contractAddress("params")}
	PlayToken   = &playTokenContract{contractAddress("play-token")}
	BillionsNFT = &billionsNFTContract{contractAddress("billions-nft")}
	ScalarNFT   = &scalarNFTContract{contractAddress("scalar-nft")}
	Battle      = &battleContract{contractAddress("battle")}
	Marketplace = &marketplaceContract{contractAddress("marketplace")}
)

func contractAddress(name string) bgn.Address {
	return bgn.BytesToAddress(bgn.Keccak256([]byte("billions-builtin"), []byte(name)).Bytes())
}

type (
	paramsContract      struct{ Address bgn.Address }
	playTokenContract   struct{ Address bgn.Address }
	billionsNFTContract struct{ Address bgn.Address }
	scalarNFTContract   struct{ Address bgn.Address }
	battleContract      struct{ Address bgn.Address }
	marketplaceContract struct{ Address bgn.Address }
)

func (p *paramsContract) WithState(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (t *playTokenContract) WithState(state *state.State) *playtoken.PlayToken {
	return playtoken.New(t.Address, state)
}

func (n *billionsNFTContract) WithState(state *state.State) *billionsnft.BillionsNFT {
	return billionsnft.New(n.Address, state)
}

func (n *scalarNFTContract) WithState(state *state.State) *scalarnft.ScalarNFT {
	return scalarnft.New(n.Address, state)
}

// WithState binds the battle contract along with its token and params collaborators.
func (b *battleContract) WithState(state *state.State) *battle.Battle {
	return battle.New(b.Address, state, PlayToken.WithState(state), Params.WithState(state))
}

// WithState binds the marketplace along with its token and NFT collaborators.
func (m *marketplaceContract) WithState(state *state.State) *marketplace.Marketplace {
	return marketplace.New(m.Address, state, PlayToken.WithState(state), BillionsNFT.WithState(state))
}
