package marketplace

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func entry(id int64, price string) *Entry {
	p, _ := decimal.NewFromString(price)

	return &Entry{ListingID: id, QuotaID: id, MemberID: id, Price: p}
}

func TestBookCheapestFirst(t *testing.T) {
	book := NewBook()

	book.Add(entry(1, "55.00"))
	book.Add(entry(2, "48.50"))
	book.Add(entry(3, "60.00"))

	cheapest := book.Cheapest()

	assert.NotNil(t, cheapest)
	assert.EqualValues(t, 2, cheapest.ListingID)
	assert.Equal(t, 3, book.Size())
}

func TestBookFIFOWithinPriceLevel(t *testing.T) {
	book := NewBook()

	book.Add(entry(10, "50.00"))
	book.Add(entry(11, "50.00"))
	book.Add(entry(12, "50.00"))

	assert.EqualValues(t, 10, book.Cheapest().ListingID)

	book.Remove(10)
	assert.EqualValues(t, 11, book.Cheapest().ListingID)

	book.Remove(11)
	assert.EqualValues(t, 12, book.Cheapest().ListingID)
}

func TestBookRemoveUnknown(t *testing.T) {
	book := NewBook()

	book.Add(entry(1, "50.00"))
	book.Remove(99)

	assert.Equal(t, 1, book.Size())
}

func TestBookGet(t *testing.T) {
	book := NewBook()

	book.Add(entry(7, "52.00"))

	found := book.Get(7)
	assert.NotNil(t, found)
	assert.True(t, found.Price.Equal(decimal.NewFromFloat(52.00)))

	assert.Nil(t, book.Get(8))
}

func TestBookSnapshotOrdered(t *testing.T) {
	book := NewBook()

	book.Add(entry(1, "60.00"))
	book.Add(entry(2, "45.00"))
	book.Add(entry(3, "45.00"))
	book.Add(entry(4, "52.25"))

	snapshot := book.Snapshot()

	assert.Len(t, snapshot, 4)
	assert.EqualValues(t, 2, snapshot[0].ListingID)
	assert.EqualValues(t, 3, snapshot[1].ListingID)
	assert.EqualValues(t, 4, snapshot[2].ListingID)
	assert.EqualValues(t, 1, snapshot[3].ListingID)

	book.Remove(2)
	assert.Len(t, book.Snapshot(), 3)
}

func TestBookEmpty(t *testing.T) {
	book := NewBook()

	assert.Nil(t, book.Cheapest())
	assert.Equal(t, 0, book.Size())
	assert.Empty(t, book.Snapshot())
}
