// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import "github.com/pkg/errors"

// Every failed operation aborts with one of these kinds, leaving state untouched.
var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrNotFound                = errors.New("not found")
	ErrInvalidWindow           = errors.New("invalid battle window")
	ErrBettingClosed           = errors.New("betting closed")
	ErrDuplicateEntry          = errors.New("duplicate entry")
	ErrCollateralCountMismatch = errors.New("collateral count mismatch")
	ErrLengthMismatch          = errors.New("ranking length mismatch")
	ErrTooEarly                = errors.New("too early to end")
	ErrAlreadyEnded            = errors.New("already ended")
	ErrInsufficientReserve     = errors.New("insufficient reserve")
)
