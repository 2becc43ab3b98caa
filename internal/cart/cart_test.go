package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

var testDay = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func sellableProduct(id uint, price float64) *models.Product {
	return &models.Product{
		ID:        id,
		Barcode:   "bc",
		SalePrice: decimal.NewFromFloat(price),
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddAccumulatesQuantity(t *testing.T) {
	c := New()
	p := sellableProduct(1, 1.50)
	require.NoError(t, c.Add(p, 2, testDay))
	require.NoError(t, c.Add(p, 3, testDay))
	assert.Equal(t, 5, c.Quantity(1))
	assert.Equal(t, 1, c.Len())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	p := sellableProduct(1, 1.50)
	assert.ErrorIs(t, c.Add(p, 0, testDay), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(p, -4, testDay), ErrInvalidQuantity)
	assert.Equal(t, 0, c.Len())
}

func TestAddRejectsExpiredProduct(t *testing.T) {
	c := New()
	p := sellableProduct(1, 1.50)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	p.EndDate = &end

	err := c.Add(p, 1, testDay)
	var unavailable *catalog.ProductUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, 0, c.Len())
}

func TestUpdateDecrementBelowOneRemovesLine(t *testing.T) {
	c := New()
	p := sellableProduct(1, 1.50)
	require.NoError(t, c.Add(p, 1, testDay))

	assert.True(t, c.Update(1, Decrement))
	assert.Equal(t, 0, c.Quantity(1))
	assert.Equal(t, 0, c.Len())
}

func TestUpdateUnknownProduct(t *testing.T) {
	c := New()
	assert.False(t, c.Update(99, Increment))
}

func TestUpdateIncrementAndDecrement(t *testing.T) {
	c := New()
	p := sellableProduct(1, 1.50)
	require.NoError(t, c.Add(p, 2, testDay))

	c.Update(1, Increment)
	assert.Equal(t, 3, c.Quantity(1))
	c.Update(1, Decrement)
	assert.Equal(t, 2, c.Quantity(1))
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(sellableProduct(1, 1.50), 2, testDay))
	require.NoError(t, c.Add(sellableProduct(2, 3.00), 1, testDay))

	c.Remove(1)
	assert.Equal(t, 1, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestEntriesAreSorted(t *testing.T) {
	c := New()
	for _, id := range []uint{7, 3, 9, 1} {
		require.NoError(t, c.Add(sellableProduct(id, 1), 1, testDay))
	}
	entries := c.Entries()
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].ProductID, entries[i].ProductID)
	}
}

func TestSnapshotResolvesAtReadTime(t *testing.T) {
	c := New()
	p := sellableProduct(1, 2.00)
	require.NoError(t, c.Add(p, 3, testDay))

	price := decimal.NewFromFloat(2.00)
	lookup := func(uint) (*models.Product, error) {
		cp := *p
		cp.SalePrice = price
		return &cp, nil
	}

	_, total, err := c.Snapshot(lookup)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(6.00)), "total=%s", total)

	// a price change is visible on the next snapshot; nothing is cached
	price = decimal.NewFromFloat(2.50)
	lines, total, err := c.Snapshot(lookup)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, total.Equal(decimal.NewFromFloat(7.50)), "total=%s", total)
	assert.True(t, lines[0].Subtotal.Equal(decimal.NewFromFloat(7.50)))
}

func TestSnapshotPropagatesLookupFailure(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(sellableProduct(1, 2.00), 1, testDay))

	wantErr := &catalog.ProductNotFoundError{ID: 1}
	_, _, err := c.Snapshot(func(uint) (*models.Product, error) { return nil, wantErr })
	var notFound *catalog.ProductNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestSessionStoreIsolatesCarts(t *testing.T) {
	store := NewSessionStore()
	a := store.Get("a")
	b := store.Get("b")
	require.NotSame(t, a, b)

	require.NoError(t, a.Add(sellableProduct(1, 1), 2, testDay))
	assert.Equal(t, 0, b.Len())
	assert.Same(t, a, store.Get("a"))

	store.Drop("a")
	assert.Equal(t, 0, store.Get("a").Len())
}
