// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/billions-game/billions/bgn"
)

func RandAddress() (addr bgn.Address) {
	rand.Read(addr[:])
	return
}

func RandBytes32() (b bgn.Bytes32) {
	rand.Read(b[:])
	return
}
