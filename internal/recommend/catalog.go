// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

// Catalog is the in-memory collection of items for a run.
//
// Iteration order is insertion order. Adding an item whose ID is already
// present replaces the stored item but keeps its original position.
// A catalog is built once by the loader and treated as read-only afterwards;
// it is safe for concurrent readers but not for concurrent Add.
type Catalog struct {
	items map[int]*Item
	order []int
}

// NewCatalog creates a catalog holding the given items in order.
func NewCatalog(items ...*Item) *Catalog {
	c := &Catalog{
		items: make(map[int]*Item, len(items)),
		order: make([]int, 0, len(items)),
	}
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Add inserts an item. Last write wins for duplicate IDs. Nil items are ignored.
func (c *Catalog) Add(it *Item) {
	if it == nil {
		return
	}
	if _, exists := c.items[it.ID]; !exists {
		c.order = append(c.order, it.ID)
	}
	c.items[it.ID] = it
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id int) (*Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// IDs returns item IDs in catalog order. The returned slice is a copy.
func (c *Catalog) IDs() []int {
	out := make([]int, len(c.order))
	copy(out, c.order)
	return out
}

// Items returns the items in catalog order.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, len(c.order))
	for i, id := range c.order {
		out[i] = c.items[id]
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.order)
}

// MaxRatingCount returns the largest rating count over all items.
func (c *Catalog) MaxRatingCount() int {
	maxCount := 0
	for _, it := range c.items {
		if n := it.RatingCount(); n > maxCount {
			maxCount = n
		}
	}
	return maxCount
}
