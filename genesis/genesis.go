// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/builtin"
	"github.com/billions-game/billions/log"
	"github.com/billions-game/billions/state"
)

var logger = log.WithContext("pkg", "genesis")

// Account is a preminted play-token balance.
type Account struct {
	Address bgn.Address
	Balance *big.Int
}

// Config is the deployment-time configuration of the game world.
type Config struct {
	// Owner is the contest authority: the only address allowed to end
	// battles and to admit verified creators.
	Owner bgn.Address

	// RestrictedCreation switches the eligibility gate to allow-list mode.
	RestrictedCreation bool

	// ReserveSubsidy widens each battle's payout pool beyond its own
	// pooled entry fees. Zero means payouts are capped by the fees.
	ReserveSubsidy *big.Int

	// ScalarMintPrice is the play-token price of minting a scalar NFT.
	ScalarMintPrice *big.Int

	// BonusTiers are the per-tier bonus multipliers, in 1/1000 of a
	// battle's entry fee. This is a policy input, there is no default table.
	BonusTiers [5]*big.Int

	// Premine seeds play-token balances.
	Premine []Account
}

// Build writes the configured world into state and commits it.
// It fails on a state that was already initialized.
func (c *Config) Build(st *state.State) error {
	if c.Owner.IsZero() {
		return errors.New("genesis: owner is required")
	}

	battle := builtin.Battle.WithState(st)
	if err := battle.Initialize(c.Owner); err != nil {
		return errors.Wrap(err, "genesis")
	}

	params := builtin.Params.WithState(st)
	if c.RestrictedCreation {
		if err := params.Set(bgn.KeyRestrictedCreation, big.NewInt(1)); err != nil {
			return err
		}
	}
	if c.ReserveSubsidy != nil {
		if err := params.Set(bgn.KeyReserveSubsidy, c.ReserveSubsidy); err != nil {
			return err
		}
	}
	if c.ScalarMintPrice != nil {
		if err := params.Set(bgn.KeyScalarMintPrice, c.ScalarMintPrice); err != nil {
			return err
		}
	}
	for i, mult := range c.BonusTiers {
		if mult == nil {
			continue
		}
		if err := params.Set(bgn.KeyBonusTiers[i], mult); err != nil {
			return err
		}
	}

	token := builtin.PlayToken.WithState(st)
	for _, acc := range c.Premine {
		if err := token.Mint(acc.Address, acc.Balance); err != nil {
			return errors.Wrapf(err, "premine %s", acc.Address)
		}
	}

	if err := st.Commit(); err != nil {
		return err
	}
	logger.Info("genesis built", "owner", c.Owner, "premined", len(c.Premine))
	return nil
}
