// Package cart holds a customer's pending order for one shop.
package cart

import (
	"math"

	"github.com/google/uuid"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/catalog"
)

// Item is one line of the cart. Quantity is always at least 1.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// UnitPrice is the offer price when it is set and non-zero, else the price.
func (i Item) UnitPrice() float64 {
	if o := i.Product.OfferPrice; o != nil && *o != 0 && !math.IsNaN(*o) {
		return *o
	}
	return i.Product.Price
}

// Cart is an ordered set of line items keyed by product id. The zero value
// is an empty cart.
type Cart struct {
	items []Item
}

func (c *Cart) index(id uuid.UUID) int {
	for i := range c.items {
		if c.items[i].Product.ID == id {
			return i
		}
	}
	return -1
}

// Add puts one unit of p in the cart. A product already in the cart keeps its
// stored record and only gains a unit.
func (c *Cart) Add(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
}

// UpdateQuantity changes the quantity of a line by delta and drops the line
// when it reaches zero. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id uuid.UUID, delta int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.items[i].Quantity += delta
	if c.items[i].Quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Remove drops the line for id, if any.
func (c *Cart) Remove(id uuid.UUID) {
	if i := c.index(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Total is the sum of unit price times quantity, unrounded.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.UnitPrice() * float64(it.Quantity)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() { c.items = nil }

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the total number of units.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Len is the number of distinct lines.
func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }
