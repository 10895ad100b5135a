package market

import (
	"math/rand"
	"testing"
	"time"
)

func TestHighLowInvariant(t *testing.T) {
	s := NewStock("AAPL", "Apple Inc.", 175.50)
	now := time.Now()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		price := 175.50 * (1 + (rng.Float64()*6-3)/100)
		now = now.Add(time.Second)
		s.UpdatePrice(price, 100, now)
		if s.DailyLow > s.Current || s.Current > s.DailyHigh {
			t.Fatalf("invariant broken: low=%v current=%v high=%v", s.DailyLow, s.Current, s.DailyHigh)
		}
		if len(s.History()) > historyCap {
			t.Fatalf("history exceeded cap: %d", len(s.History()))
		}
	}
}

func TestPercentChange(t *testing.T) {
	s := NewStock("MSFT", "Microsoft Corp.", 100)
	s.UpdatePrice(110, 0, time.Now())
	if got := s.PercentChange(); got != 10 {
		t.Errorf("expected +10%%, got %v", got)
	}

	z := NewStock("ZERO", "Degenerate", 0)
	z.UpdatePrice(5, 0, time.Now())
	if got := z.PercentChange(); got != 0 {
		t.Errorf("zero previous price should report 0, got %v", got)
	}
}

func TestTrendDirection(t *testing.T) {
	now := time.Now()

	s := NewStock("TSLA", "Tesla Inc.", 100)
	if s.TrendDirection() != TrendStable {
		t.Error("fewer than three prices should be STABLE")
	}

	s.UpdatePrice(101, 0, now)
	s.UpdatePrice(102, 0, now)
	if s.TrendDirection() != TrendUp {
		t.Error("strictly rising prices should be UP")
	}

	s.UpdatePrice(101, 0, now)
	s.UpdatePrice(100, 0, now)
	s.UpdatePrice(99, 0, now)
	if s.TrendDirection() != TrendDown {
		t.Error("strictly falling prices should be DOWN")
	}

	s.UpdatePrice(99, 0, now)
	if s.TrendDirection() != TrendStable {
		t.Error("flat tail should be STABLE")
	}
}

func TestHistoryEviction(t *testing.T) {
	s := NewStock("NVDA", "NVIDIA Corp.", 1)
	now := time.Now()
	for i := 2; i <= historyCap+5; i++ {
		s.UpdatePrice(float64(i), 0, now)
	}
	h := s.History()
	if len(h) != historyCap {
		t.Fatalf("expected history length %d, got %d", historyCap, len(h))
	}
	if h[0] != 6 || h[len(h)-1] != float64(historyCap+5) {
		t.Errorf("oldest entries should be evicted first: got %v..%v", h[0], h[len(h)-1])
	}
}

func TestStoreUnknownSymbol(t *testing.T) {
	p := NewPriceStore()
	p.Add(NewStock("AAPL", "Apple Inc.", 175.50))

	if err := p.UpdatePrice("ZZZZ", 10, 0, time.Now()); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
	if !p.Has("AAPL") || p.Has("ZZZZ") {
		t.Error("store membership wrong")
	}
}
