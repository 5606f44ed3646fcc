// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bgn

import "math/big"

// Constants of the Billions contest protocol.
const (
	// MaxRankedWinners the fixed top-N cutoff of a battle ranking.
	MaxRankedWinners = 5
)

var (
	// TokenUnit 1 play token in its smallest denomination (18 decimals).
	TokenUnit = big.NewInt(1e18)

	// Governance param keys.
	KeyRestrictedCreation = BytesToBytes32([]byte("battle-restricted-creation"))
	KeyReserveSubsidy     = BytesToBytes32([]byte("battle-reserve-subsidy"))
	KeyScalarMintPrice    = BytesToBytes32([]byte("scalar-mint-price"))

	// KeyBonusTiers keys of the per-tier bonus multipliers, in 1/1000 of a
	// battle's entry fee. Tier brackets are top 5%, next 5%, next 10%,
	// next 25% and remainder of the ranked list.
	KeyBonusTiers = [5]Bytes32{
		BytesToBytes32([]byte("battle-bonus-tier-0")),
		BytesToBytes32([]byte("battle-bonus-tier-1")),
		BytesToBytes32([]byte("battle-bonus-tier-2")),
		BytesToBytes32([]byte("battle-bonus-tier-3")),
		BytesToBytes32([]byte("battle-bonus-tier-4")),
	}
)
