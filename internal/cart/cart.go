// Package cart holds the in-progress order on the cashier screen. Lines
// merge when the same product arrives with the same options, base price and
// discount, so repeated taps bump quantity instead of duplicating rows.
package cart

import (
	"fmt"
	"strings"
	"sync"

	"qoyupos/internal/catalog"
	"qoyupos/internal/logging"
)

// Line is one row of the cart. UnitTotal is what the cashier sees per unit;
// UnitBase is the discounted base sent to the server (add-ons ride on top of
// it server-side); UnitOriginal is the pre-discount unit price kept for the
// strikethrough on discounted rows.
type Line struct {
	Key           string
	ProductID     int64
	Name          string
	NameSuffix    string // discount marker, e.g. " [-20%]"
	Quantity      int
	UnitBase      catalog.Money
	UnitTotal     catalog.Money
	UnitOriginal  catalog.Money
	OptionItemIDs []int64
	OptionLabels  []string
	DiscountPct   int
}

// Subtotal returns the line's display amount.
func (l Line) Subtotal() catalog.Money {
	return l.UnitTotal * catalog.Money(l.Quantity)
}

// OriginalSubtotal returns the pre-discount amount for the same quantity.
func (l Line) OriginalSubtotal() catalog.Money {
	return l.UnitOriginal * catalog.Money(l.Quantity)
}

// DisplayName returns the name with option labels and discount marker, the
// way the line reads on the ticket.
func (l Line) DisplayName() string {
	name := l.Name
	if len(l.OptionLabels) > 0 {
		name += " (" + strings.Join(l.OptionLabels, ", ") + ")"
	}
	return name + l.NameSuffix
}

// LineKey builds the merge key for a configured product. Option IDs must be
// sorted ascending before calling; pricing.Selection.ItemIDs already is.
func LineKey(productID int64, optionIDs []int64, unitBase catalog.Money, discountPct int) string {
	parts := make([]string, len(optionIDs))
	for i, id := range optionIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%d|%s|%d|%d", productID, strings.Join(parts, ","), unitBase, discountPct)
}

// Cart is the mutable order under construction. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges a line into the cart. An existing line with the same key gains
// the quantity; otherwise the line is appended.
func (c *Cart) Add(line Line) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	if line.Key == "" {
		line.Key = LineKey(line.ProductID, line.OptionItemIDs, line.UnitBase, line.DiscountPct)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key == line.Key {
			c.lines[i].Quantity += line.Quantity
			logging.Cart("merged line %s, qty now %d", line.Key, c.lines[i].Quantity)
			return
		}
	}
	c.lines = append(c.lines, line)
	logging.Cart("added line %s (%s)", line.Key, line.Name)
}

// Increment bumps a line's quantity by one.
func (c *Cart) Increment(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines[i].Quantity++
			return
		}
	}
}

// Decrement lowers a line's quantity by one, removing the line at zero.
func (c *Cart) Decrement(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key != key {
			continue
		}
		c.lines[i].Quantity--
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Remove deletes a line regardless of quantity.
func (c *Cart) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	logging.Cart("cleared")
}

// Lines returns a snapshot of the cart rows in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Units returns the total item count across lines.
func (c *Cart) Units() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total returns the display total for the whole cart.
func (c *Cart) Total() catalog.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum catalog.Money
	for _, l := range c.lines {
		sum += l.UnitTotal * catalog.Money(l.Quantity)
	}
	return sum
}
