package cart

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func line(id string, price int64, qty int) domain.CartLine {
	return domain.CartLine{ProductID: id, Name: "product " + id, UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

func TestAdd_MergesQuantities(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("1", 1000, 2)))
	require.NoError(t, c.Add(line("1", 1000, 3)))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(5000)))
}

func TestAdd_KeepsOneLinePerProduct(t *testing.T) {
	c := New()
	rng := rand.New(rand.NewSource(42))
	want := map[string]int{}
	for i := 0; i < 200; i++ {
		id := strconv.Itoa(rng.Intn(7))
		qty := rng.Intn(4) + 1
		want[id] += qty
		require.NoError(t, c.Add(line(id, 250, qty)))
	}

	lines := c.Lines()
	assert.Len(t, lines, len(want))
	seen := map[string]bool{}
	for _, l := range lines {
		assert.False(t, seen[l.ProductID], "duplicate line for %s", l.ProductID)
		seen[l.ProductID] = true
		assert.Equal(t, want[l.ProductID], l.Quantity)
	}
}

func TestAdd_RejectsInvalidLines(t *testing.T) {
	c := New()
	var vErr *domain.ValidationError
	assert.True(t, errors.As(c.Add(line("1", 100, 0)), &vErr))
	assert.True(t, errors.As(c.Add(line("", 100, 1)), &vErr))
	assert.True(t, errors.As(c.Add(line("1", -1, 1)), &vErr))
	assert.True(t, c.Empty())
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("b", 1, 1)))
	require.NoError(t, c.Add(line("a", 1, 1)))
	require.NoError(t, c.Add(line("b", 1, 1)))
	lines := c.Lines()
	assert.Equal(t, "b", lines[0].ProductID)
	assert.Equal(t, "a", lines[1].ProductID)
}

func TestUpdateQuantity_TouchesOnlyTarget(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("1", 100, 1)))
	require.NoError(t, c.Add(line("2", 300, 4)))

	require.NoError(t, c.UpdateQuantity("1", 7))

	one, _ := c.Line("1")
	two, _ := c.Line("2")
	assert.Equal(t, 7, one.Quantity)
	assert.Equal(t, 4, two.Quantity)
	assert.True(t, c.Total().Equal(decimal.NewFromInt(1900)))
}

func TestUpdateQuantity_RejectsBelowOne(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("1", 100, 2)))
	before := c.Lines()

	err := c.UpdateQuantity("1", 0)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, before, c.Lines())
}

func TestUpdateQuantity_UnknownProduct(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.UpdateQuantity("missing", 2), domain.ErrNotFound)
}

func TestRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("1", 100, 1)))
	require.NoError(t, c.Add(line("2", 100, 1)))
	require.NoError(t, c.Add(line("3", 100, 1)))

	c.Remove("2")
	c.Remove("missing")

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ProductID)
	assert.Equal(t, "3", lines[1].ProductID)
}

func TestTotal_Decimal(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(domain.CartLine{ProductID: "1", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3}))
	require.NoError(t, c.Add(domain.CartLine{ProductID: "2", UnitPrice: decimal.RequireFromString("0.01"), Quantity: 1}))
	assert.Equal(t, "59.98", c.Total().String())
	assert.True(t, New().Total().IsZero())
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("1", 100, 1)))
	lines := c.Lines()
	lines[0].Quantity = 99
	got, _ := c.Line("1")
	assert.Equal(t, 1, got.Quantity)
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("1", 100, 1)))
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Count())
}

func TestAdd_RejectsQuantityOverflow(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("A", 1000, math.MaxInt)))

	err := c.Add(line("A", 1000, 2))
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)

	l, ok := c.Line("A")
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, l.Quantity)
	assert.True(t, c.Total().IsPositive())
}

func TestProductIDWhitespace(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line(" A ", 1000, 1)))

	require.NoError(t, c.UpdateQuantity("A ", 3))
	l, ok := c.Line(" A")
	require.True(t, ok)
	assert.Equal(t, 3, l.Quantity)

	c.Remove("  A")
	assert.True(t, c.Empty())
}

func TestSettle_KeepsLinesChangedAfterSnapshot(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("A", 1000, 2)))
	require.NoError(t, c.Add(line("B", 500, 1)))
	ordered := c.Lines()

	require.NoError(t, c.Add(line("C", 250, 4)))
	require.NoError(t, c.UpdateQuantity("B", 3))

	c.Settle(ordered)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "B", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "C", lines[1].ProductID)
	assert.Equal(t, 4, lines[1].Quantity)
}

func TestSettle_EmptiesUnchangedCart(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("A", 1000, 2)))
	c.Settle(c.Lines())
	assert.True(t, c.Empty())
}
