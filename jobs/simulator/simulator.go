// Package simulator keeps the market alive while it is open: it perturbs a
// few prices every tick and occasionally injects a synthetic counterparty
// order so resting user orders have something to match against.
package simulator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ticker/domain/orderbook"
)

const (
	maxMovePct     = 3.0 // price perturbation bound, percent
	priceFloor     = 1.0 // prices never drop below a dollar
	minTickVolume  = 1000
	maxTickVolume  = 50000
	orderChance    = 0.3 // probability of one synthetic order per tick
	orderOffsetPct = 2.0 // synthetic limit price offset bound, percent
	minOrderQty    = 10
	maxOrderQty    = 100
)

type Simulator struct {
	log      *zap.Logger
	market   Market
	clock    Clock
	rand     Rand
	interval time.Duration
}

func New(log *zap.Logger, market Market, clock Clock, rnd Rand, interval time.Duration) *Simulator {
	return &Simulator{
		log:      log,
		market:   market,
		clock:    clock,
		rand:     rnd,
		interval: interval,
	}
}

// Run loops until the context is cancelled. Each pass perturbs 2–4 random
// symbols and maybe places one synthetic order; an in-flight tick is never
// interrupted, cancellation only prevents future ones.
func (s *Simulator) Run(ctx context.Context) {
	s.log.Info("market simulation started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("market simulation stopped")
			return
		default:
			s.tick()
			s.clock.Sleep(s.interval)
		}
	}
}

func (s *Simulator) tick() {
	symbols := s.market.Symbols()
	if len(symbols) == 0 {
		return
	}

	for _, sym := range s.pick(symbols, 2+s.rand.Intn(3)) {
		price, ok := s.market.CurrentPrice(sym)
		if !ok {
			continue
		}
		movePct := s.rand.Float64()*2*maxMovePct - maxMovePct
		next := price * (1 + movePct/100)
		if next < priceFloor {
			next = priceFloor
		}
		volume := int64(minTickVolume + s.rand.Intn(maxTickVolume-minTickVolume+1))

		if err := s.market.ApplyTick(sym, next, volume); err != nil {
			s.log.Debug("tick skipped", zap.String("symbol", sym), zap.Error(err))
		}
	}

	if s.rand.Float64() < orderChance {
		s.placeSyntheticOrder(symbols)
	}
}

// placeSyntheticOrder submits one limit order close to the current price.
// Anything invalid is dropped inside the service; the simulator never
// surfaces errors.
func (s *Simulator) placeSyntheticOrder(symbols []string) {
	sym := symbols[s.rand.Intn(len(symbols))]
	price, ok := s.market.CurrentPrice(sym)
	if !ok {
		return
	}

	side := orderbook.Buy
	if s.rand.Intn(2) == 1 {
		side = orderbook.Sell
	}
	offsetPct := s.rand.Float64()*2*orderOffsetPct - orderOffsetPct
	limit := price * (1 + offsetPct/100)
	qty := int64(minOrderQty + s.rand.Intn(maxOrderQty-minOrderQty+1))

	s.market.SubmitSynthetic(side, sym, limit, qty)
}

// pick selects n distinct symbols by partial Fisher-Yates shuffle.
func (s *Simulator) pick(symbols []string, n int) []string {
	if n > len(symbols) {
		n = len(symbols)
	}
	idx := make([]int, len(symbols))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + s.rand.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, symbols[idx[i]])
	}
	return out
}
