package leaderboard

import (
	"testing"
	"time"
)

const window = 300 * time.Second

func resolveAll(string) (float64, bool) { return 42.0, true }

func TestTopGainersOrdering(t *testing.T) {
	b := NewBoard(50, window)
	now := time.Now()

	b.Record("AAPL", 2.5, 100, now)
	b.Record("MSFT", -1.0, 200, now)
	b.Record("TSLA", 5.0, 300, now)

	gainers := b.TopGainers(2, now, resolveAll)
	if len(gainers) != 2 {
		t.Fatalf("expected 2 gainers, got %d", len(gainers))
	}
	if gainers[0].Symbol != "TSLA" || gainers[1].Symbol != "AAPL" {
		t.Errorf("wrong order: %+v", gainers)
	}

	losers := b.TopLosers(1, now, resolveAll)
	if len(losers) != 1 || losers[0].Symbol != "MSFT" {
		t.Errorf("expected MSFT as worst loser, got %+v", losers)
	}
}

func TestTopKNeverExceedsK(t *testing.T) {
	b := NewBoard(50, window)
	now := time.Now()
	for i := 0; i < 20; i++ {
		b.Record("AAPL", float64(i), 100, now)
	}
	if got := b.TopGainers(5, now, resolveAll); len(got) > 5 {
		t.Errorf("top-k returned %d entries", len(got))
	}
}

func TestStaleSnapshotsFiltered(t *testing.T) {
	b := NewBoard(50, window)
	now := time.Now()

	b.Record("OLD", 99.0, 100, now.Add(-window))
	b.Record("NEW", 1.0, 100, now.Add(-window+time.Second))

	gainers := b.TopGainers(5, now, resolveAll)
	if len(gainers) != 1 || gainers[0].Symbol != "NEW" {
		t.Errorf("stale snapshot should be filtered: %+v", gainers)
	}
}

func TestMissingSymbolsFiltered(t *testing.T) {
	b := NewBoard(50, window)
	now := time.Now()
	b.Record("GONE", 9.0, 100, now)
	b.Record("AAPL", 1.0, 100, now)

	resolve := func(sym string) (float64, bool) {
		if sym == "AAPL" {
			return 175.50, true
		}
		return 0, false
	}
	gainers := b.TopGainers(5, now, resolve)
	if len(gainers) != 1 || gainers[0].Symbol != "AAPL" {
		t.Fatalf("delisted symbol should be filtered: %+v", gainers)
	}
	if gainers[0].Price != 175.50 {
		t.Error("mover price should be the current price, not the snapshot price")
	}
}

func TestTopKRestoresHeap(t *testing.T) {
	b := NewBoard(50, window)
	now := time.Now()
	for i := 0; i < 10; i++ {
		b.Record("AAPL", float64(i), 100, now)
	}
	g0, l0 := b.Sizes()

	first := b.TopGainers(3, now, resolveAll)
	second := b.TopGainers(3, now, resolveAll)

	g1, l1 := b.Sizes()
	if g0 != g1 || l0 != l1 {
		t.Errorf("top-k drained the heaps: %d/%d -> %d/%d", g0, l0, g1, l1)
	}
	if len(first) != len(second) {
		t.Fatal("repeated reads should return the same content")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs across reads: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCompactionBoundsGrowth(t *testing.T) {
	b := NewBoard(50, window)
	now := time.Now()
	for i := 0; i < 500; i++ {
		b.Record("AAPL", float64(i%7), 100, now.Add(time.Duration(i)*time.Millisecond))
	}
	g, l := b.Sizes()
	if g > 50 || l > 50 {
		t.Errorf("heaps exceeded cap: gainers=%d losers=%d", g, l)
	}

	// The best snapshots must survive compaction.
	top := b.TopGainers(1, now.Add(time.Second), resolveAll)
	if len(top) != 1 || top[0].Pct != 6 {
		t.Errorf("best gainer lost during compaction: %+v", top)
	}
}
