// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"sync"
	"time"

	"github.com/billions-game/billions/kv"
	"github.com/billions-game/billions/state"
)

// Node serializes access to the game world state, the way a ledger
// serializes transactions: one operation at a time, commit-or-nothing.
type Node struct {
	mu    sync.Mutex
	store kv.Store
	now   func() uint64
}

// New creates a node over the given store.
func New(store kv.Store) *Node {
	return &Node{
		store: store,
		now:   func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetClock overrides the time source, for testing.
func (n *Node) SetClock(now func() uint64) {
	n.now = now
}

// Now returns the current timestamp used for all time-gated checks.
func (n *Node) Now() uint64 {
	return n.now()
}

// Read runs fn against a view of the latest committed state.
func (n *Node) Read(fn func(st *state.State) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(state.New(n.store))
}

// Exec runs fn as one transaction: the state is committed only
// when fn succeeds.
func (n *Node) Exec(fn func(st *state.State) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := state.New(n.store)
	if err := fn(st); err != nil {
		return err
	}
	return st.Commit()
}
