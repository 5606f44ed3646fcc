// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// StorageEncoder implement it to customize encoding process for storage data.
// Returning nil bytes clears the storage slot.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder implement it to customize decoding process for storage data.
// Empty input bytes reset the value to its zero state.
type StorageDecoder interface {
	Decode([]byte) error
}
