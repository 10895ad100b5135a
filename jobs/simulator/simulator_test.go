package simulator

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"ticker/domain/orderbook"
)

type mockClock struct{ now time.Time }

func (c *mockClock) Now() time.Time        { return c.now }
func (c *mockClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type mockRand struct {
	ints   []int
	floats []float64
	i, f   int
}

func (r *mockRand) Intn(n int) int {
	v := r.ints[r.i%len(r.ints)]
	r.i++
	return v % n
}

func (r *mockRand) Float64() float64 {
	v := r.floats[r.f%len(r.floats)]
	r.f++
	return v
}

type tickCall struct {
	symbol string
	price  float64
	volume int64
}

type orderCall struct {
	side   orderbook.Side
	symbol string
	price  float64
	qty    int64
}

type mockMarket struct {
	prices map[string]float64
	ticks  []tickCall
	orders []orderCall
}

func (m *mockMarket) Symbols() []string {
	out := make([]string, 0, len(m.prices))
	for sym := range m.prices {
		out = append(out, sym)
	}
	return out
}

func (m *mockMarket) CurrentPrice(symbol string) (float64, bool) {
	p, ok := m.prices[symbol]
	return p, ok
}

func (m *mockMarket) ApplyTick(symbol string, price float64, volume int64) error {
	m.ticks = append(m.ticks, tickCall{symbol, price, volume})
	m.prices[symbol] = price
	return nil
}

func (m *mockMarket) SubmitSynthetic(side orderbook.Side, symbol string, price float64, qty int64) {
	m.orders = append(m.orders, orderCall{side, symbol, price, qty})
}

func runOneTick(t *testing.T, mkt *mockMarket, rnd *mockRand) {
	t.Helper()
	sim := New(zap.NewNop(), mkt, &mockClock{}, rnd, 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	sim.Run(ctx)
}

func TestTickPerturbsSymbolsWithinBounds(t *testing.T) {
	mkt := &mockMarket{prices: map[string]float64{"AAPL": 100, "MSFT": 200, "TSLA": 300}}
	// Intn(3)=0 → 2 symbols per tick; Float64 0.5 → 0% move; final 0.9 blocks the order.
	rnd := &mockRand{ints: []int{0}, floats: []float64{0.5, 0.5, 0.9}}

	runOneTick(t, mkt, rnd)

	if len(mkt.ticks) < 2 {
		t.Fatalf("expected at least 2 perturbations, got %d", len(mkt.ticks))
	}
	for _, tc := range mkt.ticks[:2] {
		base := map[string]float64{"AAPL": 100, "MSFT": 200, "TSLA": 300}[tc.symbol]
		lo, hi := base*0.97, base*1.03
		if tc.price < lo || tc.price > hi {
			t.Errorf("%s perturbed outside ±3%%: %v", tc.symbol, tc.price)
		}
		if tc.volume < minTickVolume || tc.volume > maxTickVolume {
			t.Errorf("volume out of range: %d", tc.volume)
		}
	}
}

func TestSyntheticOrderPlacement(t *testing.T) {
	mkt := &mockMarket{prices: map[string]float64{"AAPL": 100}}
	// Float64 draws: two perturbations at 0.5, then 0.1 < orderChance → place
	// an order, with 0.5 → 0% offset.
	rnd := &mockRand{ints: []int{0, 0, 0, 1, 0}, floats: []float64{0.5, 0.1, 0.5}}

	runOneTick(t, mkt, rnd)

	if len(mkt.orders) == 0 {
		t.Fatal("expected a synthetic order")
	}
	o := mkt.orders[0]
	if o.symbol != "AAPL" {
		t.Errorf("order symbol: %s", o.symbol)
	}
	if o.qty < minOrderQty || o.qty > maxOrderQty {
		t.Errorf("order qty out of range: %d", o.qty)
	}
	cur := mkt.prices["AAPL"]
	if o.price < cur*0.98-1 || o.price > cur*1.02+1 {
		t.Errorf("order price far from market: %v vs %v", o.price, cur)
	}
}

func TestPriceFloor(t *testing.T) {
	mkt := &mockMarket{prices: map[string]float64{"PENNY": 1.01}}
	// Float64 0 → −3% move, which would cross the floor.
	rnd := &mockRand{ints: []int{0}, floats: []float64{0, 0.99}}

	runOneTick(t, mkt, rnd)

	for _, tc := range mkt.ticks {
		if tc.price < priceFloor {
			t.Errorf("price fell through the floor: %v", tc.price)
		}
	}
}

func TestStopsOnCancel(t *testing.T) {
	mkt := &mockMarket{prices: map[string]float64{"AAPL": 100}}
	rnd := &mockRand{ints: []int{0}, floats: []float64{0.5}}
	sim := New(zap.NewNop(), mkt, &mockClock{}, rnd, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("simulator did not observe cancellation")
	}
}
