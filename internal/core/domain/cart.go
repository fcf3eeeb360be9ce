package domain

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"
)

// CartEntry is a snapshot of a product at the time it was added, plus the
// wanted quantity. Name, price and stock are not re-synced with the catalog.
type CartEntry struct {
	ID            ID              `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Images        []string        `json:"images"`
	StockQuantity int             `json:"stock_quantity"`
}

// MarshalJSON keeps price a JSON number and images an array so the stored
// layout matches {id, name, price, quantity, images, stock_quantity}.
func (e CartEntry) MarshalJSON() ([]byte, error) {
	type plain CartEntry
	if e.Images == nil {
		e.Images = []string{}
	}
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(e), Price: json.Number(e.Price.String())})
}

// Subtotal is price × quantity.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart keeps entries in first-insertion order with a product-id index.
// The zero value is an empty cart.
type Cart struct {
	entries []CartEntry
	index   map[ID]int
}

// NewCart builds a cart from stored entries. Entries with a non-positive
// quantity are dropped; repeated ids are merged into the first occurrence.
func NewCart(entries []CartEntry) *Cart {
	c := &Cart{}
	for _, e := range entries {
		if e.Quantity <= 0 {
			continue
		}
		if i, ok := c.index[e.ID]; ok {
			c.entries[i].Quantity += e.Quantity
			continue
		}
		c.insert(e)
	}
	return c
}

func (c *Cart) insert(e CartEntry) {
	if c.index == nil {
		c.index = make(map[ID]int)
	}
	e.Images = slices.Clone(e.Images)
	c.index[e.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

func (c *Cart) reindex() {
	c.index = make(map[ID]int, len(c.entries))
	for i, e := range c.entries {
		c.index[e.ID] = i
	}
}

// Add increments the entry for p by qty, inserting a snapshot of p when
// absent. qty <= 0 is ignored and reported as false.
func (c *Cart) Add(p Product, qty int) bool {
	if qty <= 0 {
		return false
	}
	if i, ok := c.index[p.ID]; ok {
		c.entries[i].Quantity += qty
		return true
	}
	c.insert(CartEntry{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Quantity:      qty,
		Images:        p.Images,
		StockQuantity: p.StockQuantity,
	})
	return true
}

// SetQuantity sets an absolute quantity; qty <= 0 removes the entry.
// Returns false when id is not in the cart.
func (c *Cart) SetQuantity(id ID, qty int) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	if qty <= 0 {
		return c.Remove(id)
	}
	c.entries[i].Quantity = qty
	return true
}

// Remove deletes the entry for id. Returns false when absent.
func (c *Cart) Remove(id ID) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	c.reindex()
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = nil
	c.index = nil
}

// Get returns the entry for id.
func (c *Cart) Get(id ID) (CartEntry, bool) {
	i, ok := c.index[id]
	if !ok {
		return CartEntry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of the entries in insertion order.
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len is the number of distinct products.
func (c *Cart) Len() int { return len(c.entries) }

// Total is Σ price × quantity.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

// Count is Σ quantity.
func (c *Cart) Count() int {
	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	if c.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.entries)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var entries []CartEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*c = *NewCart(entries)
	return nil
}
