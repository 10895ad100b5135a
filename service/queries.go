package service

import (
	"fmt"

	"ticker/domain/leaderboard"
	"ticker/domain/market"
)

// Quote is a read-only snapshot of one symbol.
type Quote struct {
	Symbol    string
	Name      string
	Price     float64
	ChangePct float64
	Trend     market.Trend
	Volume    int64
	DailyHigh float64
	DailyLow  float64
	Owned     int64
}

// Level is one resting order in a depth view.
type Level struct {
	Price  float64
	Qty    int64
	Origin string
}

// BookView is the best levels of both sides of one symbol's book.
type BookView struct {
	Symbol string
	Price  float64
	Bids   []Level
	Asks   []Level
}

type Stats struct {
	HeapOps         uint64
	OrdersPlaced    uint64
	TradesExecuted  uint64
	PendingAlerts   int
	TriggeredAlerts int
}

type PortfolioView struct {
	Cash      float64
	Positions map[string]int64
	Value     float64
}

// Symbols lists the universe in sorted order.
func (s *MarketService) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Symbols()
}

// CurrentPrice reports the live price for a symbol, if it exists.
func (s *MarketService) CurrentPrice(symbol string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.store.Get(symbol)
	if !ok {
		return 0, false
	}
	return st.Current, true
}

func (s *MarketService) Quote(symbol string) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.store.Get(symbol)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}
	return Quote{
		Symbol:    st.Symbol,
		Name:      st.Name,
		Price:     st.Current,
		ChangePct: st.PercentChange(),
		Trend:     st.TrendDirection(),
		Volume:    st.Volume,
		DailyHigh: st.DailyHigh,
		DailyLow:  st.DailyLow,
		Owned:     s.ledger.Position(symbol),
	}, nil
}

// Quotes returns a snapshot of the whole universe in symbol order.
func (s *MarketService) Quotes() []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Quote, 0, len(s.books))
	for _, sym := range s.store.Symbols() {
		st, _ := s.store.Get(sym)
		out = append(out, Quote{
			Symbol:    st.Symbol,
			Name:      st.Name,
			Price:     st.Current,
			ChangePct: st.PercentChange(),
			Trend:     st.TrendDirection(),
			Volume:    st.Volume,
			DailyHigh: st.DailyHigh,
			DailyLow:  st.DailyLow,
			Owned:     s.ledger.Position(sym),
		})
	}
	return out
}

// Movers returns the top-k gainers and losers within the recency window.
func (s *MarketService) Movers(k int) (gainers, losers []leaderboard.Mover) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	resolve := func(sym string) (float64, bool) {
		st, ok := s.store.Get(sym)
		if !ok {
			return 0, false
		}
		return st.Current, true
	}
	return s.board.TopGainers(k, now, resolve), s.board.TopLosers(k, now, resolve)
}

// Depth returns the best n levels per side of a symbol's book.
func (s *MarketService) Depth(symbol string, n int) (BookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[symbol]
	if !ok {
		return BookView{}, fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}
	st, _ := s.store.Get(symbol)

	bids, asks := book.Depth(n)
	view := BookView{Symbol: symbol, Price: st.Current}
	for _, o := range bids {
		view.Bids = append(view.Bids, Level{Price: o.Price, Qty: o.Remaining, Origin: o.Origin.String()})
	}
	for _, o := range asks {
		view.Asks = append(view.Asks, Level{Price: o.Price, Qty: o.Remaining, Origin: o.Origin.String()})
	}
	return view, nil
}

func (s *MarketService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		HeapOps:         s.heapOps.Load(),
		OrdersPlaced:    s.ordersPlaced.Load(),
		TradesExecuted:  s.tradesExecuted.Load(),
		PendingAlerts:   s.alerts.PendingCount(),
		TriggeredAlerts: s.alerts.TriggeredCount(),
	}
}

func (s *MarketService) Portfolio() PortfolioView {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolve := func(sym string) (float64, bool) {
		st, ok := s.store.Get(sym)
		if !ok {
			return 0, false
		}
		return st.Current, true
	}
	return PortfolioView{
		Cash:      s.ledger.Cash(),
		Positions: s.ledger.Positions(),
		Value:     s.ledger.Value(resolve),
	}
}

// History returns a copy of the transaction history, oldest first.
func (s *MarketService) History() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transaction, len(s.history))
	copy(out, s.history)
	return out
}
