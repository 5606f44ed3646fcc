// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierSizes(t *testing.T) {
	tests := []struct {
		entrants int
		expected [5]int
	}{
		// small entrant counts clip instead of padding out-of-range ranks
		{2, [5]int{1, 1, 0, 0, 0}},
		{3, [5]int{1, 1, 1, 0, 0}},
		{4, [5]int{1, 1, 1, 1, 0}},
		{5, [5]int{1, 1, 1, 2, 0}},
		{10, [5]int{1, 1, 1, 3, 4}},
		{20, [5]int{1, 1, 2, 5, 11}},
		{100, [5]int{5, 5, 10, 25, 55}},
	}

	for _, tt := range tests {
		sizes := tierSizes(tt.entrants)
		assert.Equal(t, tt.expected, sizes, "entrants=%d", tt.entrants)

		total := 0
		for _, s := range sizes {
			total += s
		}
		assert.Equal(t, tt.entrants, total, "sizes of %d entrants must sum to the entrant count", tt.entrants)
	}
}

func TestTierOf(t *testing.T) {
	// 10 entrants: sizes 1,1,1,3,4
	expected := []int{0, 1, 2, 3, 3, 3, 4, 4, 4, 4}
	for rank, tier := range expected {
		assert.Equal(t, tier, tierOf(rank, 10), "rank %d of 10", rank)
	}

	// 2 entrants: both winners sit in the first two tiers
	assert.Equal(t, 0, tierOf(0, 2))
	assert.Equal(t, 1, tierOf(1, 2))
}

func TestRankBonus(t *testing.T) {
	fee := big.NewInt(1000)
	multipliers := [5]*big.Int{
		big.NewInt(100), big.NewInt(80), big.NewInt(60), big.NewInt(40), big.NewInt(20),
	}

	assert.Equal(t, big.NewInt(100), rankBonus(0, 10, fee, multipliers))
	assert.Equal(t, big.NewInt(80), rankBonus(1, 10, fee, multipliers))
	assert.Equal(t, big.NewInt(40), rankBonus(4, 10, fee, multipliers))

	// unset multiplier table yields zero bonuses
	assert.Equal(t, 0, rankBonus(0, 10, fee, [5]*big.Int{}).Sign())

	// free battles carry no bonus either
	assert.Equal(t, 0, rankBonus(0, 10, &big.Int{}, multipliers).Sign())
}

func TestClipRanking(t *testing.T) {
	tests := []struct {
		rankedLen, entrants, expected int
	}{
		{5, 10, 5},
		{5, 3, 3},
		{7, 10, 5}, // top-N cutoff
		{0, 10, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, clipRanking(tt.rankedLen, tt.entrants),
			"rankedLen=%d entrants=%d", tt.rankedLen, tt.entrants)
	}
}
