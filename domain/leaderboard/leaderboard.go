// Package leaderboard ranks market movers from price-change snapshots.
//
// Every price change pushes one snapshot into the gainers heap and one into
// the losers heap. Stale snapshots for a symbol are left in place and
// filtered by recency at read time; periodic compaction keeps the heaps
// bounded.
package leaderboard

import (
	"container/heap"
	"sort"
	"time"
)

// Entry is a snapshot of a symbol's percentage change at push time. It is
// never updated in place; newer changes push newer entries.
type Entry struct {
	Pct    float64
	Symbol string
	Price  float64
	At     time.Time
}

// Mover is one leaderboard row. Price is the symbol's current price at
// query time, not the snapshot price.
type Mover struct {
	Symbol string
	Pct    float64
	Price  float64
}

type entryHeap struct {
	items []Entry
	less  func(a, b Entry) bool
}

func (h *entryHeap) Len() int           { return len(h.items) }
func (h *entryHeap) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h *entryHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *entryHeap) Push(x any)         { h.items = append(h.items, x.(Entry)) }
func (h *entryHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	return e
}

func gainerLess(a, b Entry) bool {
	if a.Pct != b.Pct {
		return a.Pct > b.Pct
	}
	return a.At.Before(b.At)
}

func loserLess(a, b Entry) bool {
	if a.Pct != b.Pct {
		return a.Pct < b.Pct
	}
	return a.At.Before(b.At)
}

// Board holds the two mover heaps. Not safe for concurrent use.
type Board struct {
	gainers *entryHeap
	losers  *entryHeap

	cap    int
	window time.Duration
}

// NewBoard builds a leaderboard that discards snapshots older than window at
// read time and compacts either heap down to cap/2 entries whenever it
// grows past cap.
func NewBoard(cap int, window time.Duration) *Board {
	return &Board{
		gainers: &entryHeap{less: gainerLess},
		losers:  &entryHeap{less: loserLess},
		cap:     cap,
		window:  window,
	}
}

// Record pushes one snapshot into each heap.
func (b *Board) Record(symbol string, pct, price float64, now time.Time) {
	e := Entry{Pct: pct, Symbol: symbol, Price: price, At: now}
	heap.Push(b.gainers, e)
	heap.Push(b.losers, e)
	b.compact(b.gainers)
	b.compact(b.losers)
}

// compact truncates a heap to the most favorable half by its own ordering.
// Older alternative snapshots for out-of-the-money symbols are discarded.
func (b *Board) compact(h *entryHeap) {
	if len(h.items) <= b.cap {
		return
	}
	sort.Slice(h.items, func(i, j int) bool { return h.less(h.items[i], h.items[j]) })
	keep := b.cap / 2
	h.items = append(h.items[:0:0], h.items[:keep]...)
	heap.Init(h)
}

// TopGainers returns up to k rows ordered best-first. resolve maps a symbol
// to its current price and reports whether it still exists.
func (b *Board) TopGainers(k int, now time.Time, resolve func(string) (float64, bool)) []Mover {
	return topK(b.gainers, k, now, b.window, resolve)
}

// TopLosers is the descending-loss counterpart of TopGainers.
func (b *Board) TopLosers(k int, now time.Time, resolve func(string) (float64, bool)) []Mover {
	return topK(b.losers, k, now, b.window, resolve)
}

// topK pops until k entries pass the recency and existence filters or the
// heap runs dry, then pushes every popped entry back so the heap is never
// destructively drained.
func topK(h *entryHeap, k int, now time.Time, window time.Duration, resolve func(string) (float64, bool)) []Mover {
	out := make([]Mover, 0, k)
	popped := make([]Entry, 0, k)

	for h.Len() > 0 && len(out) < k {
		e := heap.Pop(h).(Entry)
		popped = append(popped, e)

		if now.Sub(e.At) >= window {
			continue
		}
		price, ok := resolve(e.Symbol)
		if !ok {
			continue
		}
		out = append(out, Mover{Symbol: e.Symbol, Pct: e.Pct, Price: price})
	}

	for _, e := range popped {
		heap.Push(h, e)
	}
	return out
}

// Sizes reports the heap lengths, mainly for stats and growth checks.
func (b *Board) Sizes() (gainers, losers int) {
	return b.gainers.Len(), b.losers.Len()
}
