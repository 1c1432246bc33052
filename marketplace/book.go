package marketplace

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/shopspring/decimal"
)

// Entry is one open quota listing as the book sees it.
type Entry struct {
	ListingID int64           `json:"listing_id"`
	QuotaID   int64           `json:"quota_id"`
	MemberID  int64           `json:"member_id"`
	Price     decimal.Decimal `json:"price"`
}

// Level holds the FIFO queue of listings at one price.
type Level struct {
	Price   decimal.Decimal
	Entries []*Entry
}

func (l *Level) Add(entry *Entry) {
	for _, e := range l.Entries {
		if e.ListingID == entry.ListingID {
			return
		}
	}

	l.Entries = append(l.Entries, entry)
}

func (l *Level) Remove(listing_id int64) {
	for index, e := range l.Entries {
		if e.ListingID == listing_id {
			l.Entries = append(l.Entries[:index], l.Entries[index+1:]...)
		}
	}
}

func (l *Level) Top() *Entry {
	if len(l.Entries) == 0 {
		return nil
	}

	return l.Entries[0]
}

// Book is the in-memory index of open listings, sorted by ascending
// price with FIFO order inside a price level. It mirrors the listings
// table; the table stays the source of truth.
type Book struct {
	sync.RWMutex
	levels  *redblacktree.Tree
	entries map[int64]*Entry
}

func priceComparator(a, b interface{}) int {
	ad := a.(decimal.Decimal)
	bd := b.(decimal.Decimal)

	return ad.Cmp(bd)
}

func NewBook() *Book {
	return &Book{
		levels:  redblacktree.NewWith(priceComparator),
		entries: make(map[int64]*Entry),
	}
}

func (b *Book) Add(entry *Entry) {
	b.Lock()
	defer b.Unlock()

	var level *Level
	if value, found := b.levels.Get(entry.Price); found {
		level = value.(*Level)
	} else {
		level = &Level{Price: entry.Price}
		b.levels.Put(entry.Price, level)
	}

	level.Add(entry)
	b.entries[entry.ListingID] = entry
}

func (b *Book) Remove(listing_id int64) {
	b.Lock()
	defer b.Unlock()

	entry, found := b.entries[listing_id]
	if !found {
		return
	}

	if value, found := b.levels.Get(entry.Price); found {
		level := value.(*Level)
		level.Remove(listing_id)

		if len(level.Entries) == 0 {
			b.levels.Remove(entry.Price)
		}
	}

	delete(b.entries, listing_id)
}

// Cheapest returns the lowest-priced open listing, oldest first within a
// price.
func (b *Book) Cheapest() *Entry {
	b.RLock()
	defer b.RUnlock()

	node := b.levels.Left()
	if node == nil {
		return nil
	}

	return node.Value.(*Level).Top()
}

func (b *Book) Get(listing_id int64) *Entry {
	b.RLock()
	defer b.RUnlock()

	return b.entries[listing_id]
}

func (b *Book) Size() int {
	b.RLock()
	defer b.RUnlock()

	return len(b.entries)
}

// Snapshot lists every entry in price order, FIFO within a level.
func (b *Book) Snapshot() []*Entry {
	b.RLock()
	defer b.RUnlock()

	snapshot := make([]*Entry, 0, len(b.entries))

	iterator := b.levels.Iterator()
	for iterator.Next() {
		level := iterator.Value().(*Level)
		snapshot = append(snapshot, level.Entries...)
	}

	return snapshot
}
