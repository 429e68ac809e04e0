// Package cart holds the in-memory shopping cart of the running client.
package cart

import (
	"math"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Cart is an ordered set of lines with at most one line per product id.
// It is not persisted; it lives as long as the process.
type Cart struct {
	mu    sync.RWMutex
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add merges line into the cart: an existing line for the same product has its quantity
// increased by line.Quantity, otherwise line is appended.
func (c *Cart) Add(line domain.CartLine) error {
	line.ProductID = strings.TrimSpace(line.ProductID)
	if line.ProductID == "" {
		return domain.Invalid("productId", "Produit invalide")
	}
	if line.Quantity < 1 {
		return domain.Invalid("quantity", "La quantité doit être au moins 1")
	}
	if line.UnitPrice.IsNegative() {
		return domain.Invalid("unitPrice", "Prix invalide")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(line.ProductID); i >= 0 {
		if line.Quantity > math.MaxInt-c.lines[i].Quantity {
			return domain.Invalid("quantity", "Quantité trop élevée")
		}
		c.lines[i].Quantity += line.Quantity
		return nil
	}
	c.lines = append(c.lines, line)
	return nil
}

// UpdateQuantity replaces the quantity of one line. Quantities below 1 are rejected
// and leave the cart untouched.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return domain.Invalid("quantity", "La quantité doit être au moins 1")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(productID)
	if i < 0 {
		return domain.ErrNotFound
	}
	c.lines[i].Quantity = quantity
	return nil
}

// Remove deletes the line for productID; absent ids are ignored.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(productID); i >= 0 {
		c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	}
}

// Total is the sum of UnitPrice × Quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return totalOf(c.lines)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (domain.CartLine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(productID); i >= 0 {
		return c.lines[i], true
	}
	return domain.CartLine{}, false
}

// Count is the number of distinct lines.
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return c.Count() == 0
}

func (c *Cart) indexLocked(productID string) int {
	productID = strings.TrimSpace(productID)
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Settle removes what an accepted order consumed. Each submitted quantity is taken off the
// matching line and lines that reach zero are dropped; anything added after the order was
// built stays in the cart.
func (c *Cart) Settle(ordered []domain.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range ordered {
		i := c.indexLocked(o.ProductID)
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity <= o.Quantity {
			c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
			continue
		}
		c.lines[i].Quantity -= o.Quantity
	}
	if len(c.lines) == 0 {
		c.lines = nil
	}
}

// Total computes the cart total of an arbitrary line set.
func Total(lines []domain.CartLine) decimal.Decimal {
	return totalOf(lines)
}

func totalOf(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}
