package model

import (
	"slices"

	"github.com/justyntemme/launchpad/internal/debug"
)

// Observer receives change notifications from a Collection. Notifications
// are delivered after the outermost batch ends, at most once per batch.
type Observer interface {
	ItemsChanged(c *Collection)
	LayoutChanged(c *Collection)
}

// Collection is an ordered sequence of unique items split into pages.
//
// Every mutation runs inside a batch. Callers may open their own batch with
// Begin and End to group several mutations into one notification; bare calls
// open and close an implicit one.
type Collection struct {
	category      Category
	folder        string
	pageItemCount int
	items         []Item
	page          int

	depth       int
	itemsDirty  bool
	layoutDirty bool
	observers   []Observer
}

// NewCollection creates an empty collection. pageItemCount <= 0 makes it
// unpaged.
func NewCollection(c Category, pageItemCount int) *Collection {
	return &Collection{category: c, pageItemCount: pageItemCount}
}

func newFolderCollection(folder string) *Collection {
	col := NewCollection(Dir, Dir.PageItemCount())
	col.folder = folder
	return col
}

func (c *Collection) Category() Category { return c.category }

// Folder is the owning folder key of a Dir collection.
func (c *Collection) Folder() string { return c.folder }

// OrderKey is the name this sequence is persisted under.
func (c *Collection) OrderKey() string { return OrderKey(c.category, c.folder) }

func (c *Collection) PageItemCount() int { return c.pageItemCount }

// SetPageItemCount changes the page size and clamps the current page.
func (c *Collection) SetPageItemCount(n int) {
	if n == c.pageItemCount {
		return
	}
	c.Begin()
	defer c.End()
	c.pageItemCount = n
	c.layoutDirty = true
	c.clampPage()
}

// Subscribe registers o for change notifications.
func (c *Collection) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Begin opens a batch. Batches nest.
func (c *Collection) Begin() {
	c.depth++
}

// End closes a batch. Closing the outermost batch delivers pending
// notifications.
func (c *Collection) End() {
	if c.depth == 0 {
		return
	}
	c.depth--
	if c.depth > 0 {
		return
	}
	items, layout := c.itemsDirty, c.layoutDirty
	c.itemsDirty, c.layoutDirty = false, false
	if items {
		debug.Log(debug.MODEL, "%s: items changed (%d)", c.OrderKey(), len(c.items))
		for _, o := range c.observers {
			o.ItemsChanged(c)
		}
	}
	if layout {
		debug.Log(debug.MODEL, "%s: layout changed (page %d/%d)", c.OrderKey(), c.page, c.PageCount())
		for _, o := range c.observers {
			o.LayoutChanged(c)
		}
	}
}

func (c *Collection) changed() {
	c.itemsDirty = true
	c.clampPage()
}

func (c *Collection) clampPage() {
	if last := c.PageCount() - 1; c.page > last {
		c.page = last
		c.layoutDirty = true
	}
}

func (c *Collection) Len() int { return len(c.items) }

// At returns the item at pos.
func (c *Collection) At(pos int) (Item, bool) {
	if pos < 0 || pos >= len(c.items) {
		return Item{}, false
	}
	return c.items[pos], true
}

// Items returns a copy of the sequence.
func (c *Collection) Items() []Item {
	return slices.Clone(c.items)
}

// Keys returns the item keys in order.
func (c *Collection) Keys() []string {
	keys := make([]string, len(c.items))
	for i, it := range c.items {
		keys[i] = it.Key
	}
	return keys
}

// IndexOf returns the position of key, or -1.
func (c *Collection) IndexOf(key string) int {
	return slices.IndexFunc(c.items, func(it Item) bool { return it.Key == key })
}

func (c *Collection) Contains(key string) bool { return c.IndexOf(key) >= 0 }

// Move relocates the item at from to position to, shifting the items in
// between. It reports false and does nothing when from == to or either
// index is out of range.
func (c *Collection) Move(from, to int) bool {
	n := len(c.items)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return false
	}
	c.Begin()
	defer c.End()

	it := c.items[from]
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, to, it)
	c.changed()
	debug.Log(debug.MODEL, "%s: move %s %d -> %d", c.OrderKey(), it.Key, from, to)
	return true
}

// InsertAt places it at pos. Positions outside [0, Len] append. When the
// key is already present the call moves the existing entry to pos instead,
// refreshing its metadata.
func (c *Collection) InsertAt(it Item, pos int) {
	c.Begin()
	defer c.End()

	if cur := c.IndexOf(it.Key); cur >= 0 {
		if pos < 0 || pos >= len(c.items) {
			pos = len(c.items) - 1
		}
		c.items[cur] = it
		c.changed()
		c.Move(cur, pos)
		return
	}
	if pos < 0 || pos > len(c.items) {
		pos = len(c.items)
	}
	c.items = slices.Insert(c.items, pos, it)
	c.changed()
}

// Append adds it at the end.
func (c *Collection) Append(it Item) {
	c.InsertAt(it, len(c.items))
}

// RemoveAt removes and returns the item at pos.
func (c *Collection) RemoveAt(pos int) (Item, bool) {
	if pos < 0 || pos >= len(c.items) {
		return Item{}, false
	}
	c.Begin()
	defer c.End()

	it := c.items[pos]
	c.items = slices.Delete(c.items, pos, pos+1)
	c.changed()
	return it, true
}

// RemoveKey removes the item with key, if present.
func (c *Collection) RemoveKey(key string) (Item, bool) {
	return c.RemoveAt(c.IndexOf(key))
}

// Update replaces the metadata of an existing item in place.
func (c *Collection) Update(it Item) bool {
	pos := c.IndexOf(it.Key)
	if pos < 0 {
		return false
	}
	c.Begin()
	defer c.End()
	c.items[pos] = it
	c.itemsDirty = true
	return true
}

// Replace swaps in a new sequence. Later duplicates of a key are dropped.
func (c *Collection) Replace(items []Item) {
	c.Begin()
	defer c.End()

	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if seen[it.Key] {
			continue
		}
		seen[it.Key] = true
		out = append(out, it)
	}
	c.items = out
	c.changed()
}

// PageCount is ceil(Len / PageItemCount), and never less than one.
func (c *Collection) PageCount() int {
	if c.pageItemCount <= 0 || len(c.items) == 0 {
		return 1
	}
	return (len(c.items) + c.pageItemCount - 1) / c.pageItemCount
}

func (c *Collection) Page() int { return c.page }

// SetPage switches the current page, clamped to the valid range. It reports
// whether the page changed.
func (c *Collection) SetPage(p int) bool {
	p = max(0, min(p, c.PageCount()-1))
	if p == c.page {
		return false
	}
	c.Begin()
	defer c.End()
	c.page = p
	c.layoutDirty = true
	return true
}

// PageItems returns a copy of the items on page p.
func (c *Collection) PageItems(p int) []Item {
	if c.pageItemCount <= 0 {
		if p != 0 {
			return nil
		}
		return c.Items()
	}
	start := p * c.pageItemCount
	if p < 0 || start >= len(c.items) {
		return nil
	}
	end := min(start+c.pageItemCount, len(c.items))
	return slices.Clone(c.items[start:end])
}

// RowCountForCurrentPage is the number of occupied slots on the current
// page.
func (c *Collection) RowCountForCurrentPage() int {
	if c.pageItemCount <= 0 {
		return len(c.items)
	}
	return max(0, min(c.pageItemCount, len(c.items)-c.pageItemCount*c.page))
}

// SlotToPosition maps a slot on the current page to a sequence position.
func (c *Collection) SlotToPosition(slot int) int {
	if slot < 0 {
		return -1
	}
	if c.pageItemCount <= 0 {
		return slot
	}
	return c.page*c.pageItemCount + slot
}

// PositionToSlot maps a sequence position to its page and slot.
func (c *Collection) PositionToSlot(pos int) (page, slot int) {
	if pos < 0 {
		return -1, -1
	}
	if c.pageItemCount <= 0 {
		return 0, pos
	}
	return pos / c.pageItemCount, pos % c.pageItemCount
}

// SlotItem returns the item in slot of the current page.
func (c *Collection) SlotItem(slot int) (Item, bool) {
	if slot < 0 || slot >= c.RowCountForCurrentPage() {
		return Item{}, false
	}
	return c.At(c.SlotToPosition(slot))
}
