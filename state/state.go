// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/billions-game/billions/bgn"
	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr bgn.Address
	key  bgn.Bytes32
}

// State manages the game world state.
// All mutations are journaled and take effect on the backing store only at Commit.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object upon the given store.
func New(store kv.Store) *State {
	state := &State{store: store}
	state.sm = stackedmap.New(func(key storageKey) ([]byte, bool, error) {
		raw, err := store.Get(storageSlot(key))
		if err != nil {
			if store.IsNotFound(err) {
				return nil, true, nil
			}
			return nil, false, err
		}
		return raw, true, nil
	})
	// base checkpoint, never popped
	state.sm.Push()
	return state
}

func storageSlot(k storageKey) []byte {
	s := make([]byte, 0, len(k.addr)+len(k.key))
	s = append(s, k.addr[:]...)
	return append(s, k.key[:]...)
}

// GetRawStorage returns storage value in raw bytes for the given address and key.
// Empty value is returned if the key was never set.
func (s *State) GetRawStorage(addr bgn.Address, key bgn.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in raw bytes.
// Pass nil value to clear the storage slot.
func (s *State) SetRawStorage(addr bgn.Address, key bgn.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be wrapped as state Error.
func (s *State) EncodeStorage(addr bgn.Address, key bgn.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be wrapped as state Error.
func (s *State) DecodeStorage(addr bgn.Address, key bgn.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit flushes journaled changes into the backing store.
// The journal is drained afterwards.
func (s *State) Commit() error {
	batch := s.store.NewBatch()
	var err error
	s.sm.Journal(func(key storageKey, raw []byte) bool {
		if len(raw) == 0 {
			err = batch.Delete(storageSlot(key))
		} else {
			err = batch.Put(storageSlot(key), raw)
		}
		return err == nil
	})
	if err != nil {
		return &Error{err}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
