// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package relayer

import (
	"sync"

	"github.com/luxfi/ids"
)

// seenCache is a bounded FIFO set of delivered message IDs. Once full, the
// oldest entry is evicted, so very old duplicates can in principle slip
// through; the bound exists to keep memory flat, not to be a ledger.
type seenCache struct {
	mu    sync.Mutex
	set   map[ids.ID]struct{}
	order []ids.ID
	next  int
}

func newSeenCache(size int) *seenCache {
	return &seenCache{
		set:   make(map[ids.ID]struct{}, size),
		order: make([]ids.ID, size),
	}
}

func (c *seenCache) Contains(id ids.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.set[id]
	return ok
}

func (c *seenCache) Add(id ids.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.set[id]; ok {
		return
	}
	if len(c.set) == len(c.order) {
		delete(c.set, c.order[c.next])
	}
	c.order[c.next] = id
	c.next = (c.next + 1) % len(c.order)
	c.set[id] = struct{}{}
}
