// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import (
	"math/big"

	"github.com/billions-game/billions/bgn"
)

// tierPercents partitions the ranked list by percentile of the entrant count.
// The last tier takes whatever ranks remain.
var tierPercents = [4]int{5, 5, 10, 25}

var bonusDenominator = big.NewInt(1000)

// tierSizes computes per-tier rank counts for n entrants.
// Each of the first four tiers takes ceil(n*pct/100) ranks, clipped so the
// running total never exceeds n. The remainder falls into the last tier.
func tierSizes(n int) [5]int {
	var sizes [5]int
	total := 0
	for i, pct := range tierPercents {
		size := (n*pct + 99) / 100
		if total+size > n {
			size = n - total
		}
		sizes[i] = size
		total += size
	}
	sizes[4] = n - total
	return sizes
}

// tierOf returns the tier index of a 0-based rank among n entrants.
func tierOf(rank, n int) int {
	sizes := tierSizes(n)
	bound := 0
	for i := range 4 {
		bound += sizes[i]
		if rank < bound {
			return i
		}
	}
	return 4
}

// rankBonus computes the bonus of a 0-based rank: the battle's entry fee
// scaled by the configured per-tier multiplier in 1/1000 units.
func rankBonus(rank, entrants int, entryFee *big.Int, multipliers [5]*big.Int) *big.Int {
	mult := multipliers[tierOf(rank, entrants)]
	if mult == nil || mult.Sign() == 0 || entryFee.Sign() == 0 {
		return &big.Int{}
	}
	bonus := new(big.Int).Mul(entryFee, mult)
	return bonus.Div(bonus, bonusDenominator)
}

// clipRanking bounds the usable length of a ranked list: never more than the
// entrant count, never more than the fixed top-N cutoff of the ranking source.
func clipRanking(rankedLen, entrants int) int {
	n := rankedLen
	if n > entrants {
		n = entrants
	}
	if n > bgn.MaxRankedWinners {
		n = bgn.MaxRankedWinners
	}
	return n
}
