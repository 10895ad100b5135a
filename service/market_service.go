package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ticker/domain/alert"
	"ticker/domain/leaderboard"
	"ticker/domain/market"
	"ticker/domain/orderbook"
	"ticker/domain/portfolio"
)

// MarketService wires the domain components together and serializes every
// mutation behind one lock. The optional collaborators (Outbox, Ticks,
// QuoteCache, Feed) may be left nil to disable eventing; they are best-effort
// and never fail a command.
type MarketService struct {
	mu    sync.Mutex
	log   *zap.Logger
	clock Clock

	store  *market.PriceStore
	books  map[string]*orderbook.OrderBook
	board  *leaderboard.Board
	alerts *alert.Engine
	ledger *portfolio.Ledger

	Outbox     EventSink
	Ticks      TickPublisher
	QuoteCache QuoteCache
	Feed       FeedHub

	orderSeq       atomic.Uint64
	eventSeq       atomic.Uint64
	heapOps        atomic.Uint64
	ordersPlaced   atomic.Uint64
	tradesExecuted atomic.Uint64

	history []Transaction
}

// NewMarketService builds the service and one order book per symbol in the
// store's universe. No globals; every dependency is passed in.
func NewMarketService(
	log *zap.Logger,
	clock Clock,
	store *market.PriceStore,
	board *leaderboard.Board,
	alerts *alert.Engine,
	ledger *portfolio.Ledger,
) *MarketService {
	s := &MarketService{
		log:    log,
		clock:  clock,
		store:  store,
		board:  board,
		alerts: alerts,
		ledger: ledger,
		books:  make(map[string]*orderbook.OrderBook),
	}
	for _, sym := range store.Symbols() {
		book := orderbook.NewOrderBook(sym)
		book.Execute = s.applyTrade
		s.books[sym] = book
	}
	return s
}

//
// Commands
//

// Buy executes an immediate purchase at the current price. Market buys
// settle against the ledger directly and do not move the price.
func (s *MarketService) Buy(symbol string, qty int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return Transaction{}, fmt.Errorf("%w: quantity must be positive", market.ErrInvalidArgument)
	}
	st, ok := s.store.Get(symbol)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}

	cost := st.Current * float64(qty)
	if cost > s.ledger.Cash() {
		return Transaction{}, fmt.Errorf("%w: need %.2f, have %.2f", market.ErrInsufficientFunds, cost, s.ledger.Cash())
	}

	s.ledger.ApplyBuy(symbol, qty, st.Current)
	tx := Transaction{Type: "BUY", Symbol: symbol, Quantity: qty, Price: st.Current, Total: cost, At: s.clock.Now()}
	s.history = append(s.history, tx)
	s.tradesExecuted.Add(1)

	s.log.Info("market buy",
		zap.String("symbol", symbol), zap.Int64("qty", qty), zap.Float64("price", st.Current))
	return tx, nil
}

// Sell executes an immediate sale at the current price.
func (s *MarketService) Sell(symbol string, qty int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return Transaction{}, fmt.Errorf("%w: quantity must be positive", market.ErrInvalidArgument)
	}
	st, ok := s.store.Get(symbol)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}
	if held := s.ledger.Position(symbol); held < qty {
		return Transaction{}, fmt.Errorf("%w: hold %d of %s", market.ErrInsufficientShares, held, symbol)
	}

	revenue := st.Current * float64(qty)
	s.ledger.ApplySell(symbol, qty, st.Current)
	tx := Transaction{Type: "SELL", Symbol: symbol, Quantity: qty, Price: st.Current, Total: revenue, At: s.clock.Now()}
	s.history = append(s.history, tx)
	s.tradesExecuted.Add(1)

	s.log.Info("market sell",
		zap.String("symbol", symbol), zap.Int64("qty", qty), zap.Float64("price", st.Current))
	return tx, nil
}

// PlaceLimitOrder admits a user limit order into the book after the
// admission checks: cash covers the limit notional for buys, holdings cover
// the quantity for sells. Matching runs to a fixed point before returning.
func (s *MarketService) PlaceLimitOrder(side orderbook.Side, symbol string, price float64, qty int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price <= 0 || qty <= 0 {
		return "", fmt.Errorf("%w: price and quantity must be positive", market.ErrInvalidArgument)
	}
	book, ok := s.books[symbol]
	if !ok {
		return "", fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}

	if side == orderbook.Buy {
		if cost := price * float64(qty); cost > s.ledger.Cash() {
			return "", fmt.Errorf("%w: limit order needs %.2f", market.ErrInsufficientFunds, cost)
		}
	} else {
		if held := s.ledger.Position(symbol); held < qty {
			return "", fmt.Errorf("%w: hold %d of %s", market.ErrInsufficientShares, held, symbol)
		}
	}

	o := &orderbook.Order{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Side:        side,
		Price:       price,
		Remaining:   qty,
		Origin:      orderbook.User,
		SubmittedAt: s.clock.Now(),
		Seq:         s.orderSeq.Add(1),
	}
	s.ordersPlaced.Add(1)
	s.heapOps.Add(1)

	s.log.Info("limit order placed",
		zap.String("id", o.ID), zap.String("side", side.String()),
		zap.String("symbol", symbol), zap.Float64("price", price), zap.Int64("qty", qty))

	book.Submit(o)
	return o.ID, nil
}

// SubmitSynthetic injects a counterparty order from the simulator. Invalid
// synthetic orders are silently skipped; the background path never surfaces
// user-visible errors.
func (s *MarketService) SubmitSynthetic(side orderbook.Side, symbol string, price float64, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price <= 0 || qty <= 0 {
		return
	}
	book, ok := s.books[symbol]
	if !ok {
		return
	}

	book.Submit(&orderbook.Order{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Side:        side,
		Price:       price,
		Remaining:   qty,
		Origin:      orderbook.Synthetic,
		SubmittedAt: s.clock.Now(),
		Seq:         s.orderSeq.Add(1),
	})
}

// SetAlert enqueues a price alert. Duplicates are permitted.
func (s *MarketService) SetAlert(symbol string, dir alert.Direction, target float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target <= 0 {
		return "", fmt.Errorf("%w: target price must be positive", market.ErrInvalidArgument)
	}
	if !s.store.Has(symbol) {
		return "", fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}

	a := &alert.Alert{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Target:    target,
		Direction: dir,
		CreatedAt: s.clock.Now(),
	}
	s.alerts.Set(a)
	s.heapOps.Add(1)

	s.log.Info("alert set",
		zap.String("id", a.ID), zap.String("symbol", symbol),
		zap.String("direction", dir.String()), zap.Float64("target", target))
	return a.ID, nil
}

// ApplyTick applies a simulated price movement: price update, leaderboard
// push, and alert scan, all inside the same critical section.
func (s *MarketService) ApplyTick(symbol string, price float64, volume int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", market.ErrInvalidArgument)
	}
	if !s.store.Has(symbol) {
		return fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}
	s.applyPriceUpdate(symbol, price, volume)
	return nil
}

//
// Trade application
//

// applyTrade is the Execute callback for every book. It runs inside the
// lock held by the command or simulator path that triggered matching.
func (s *MarketService) applyTrade(tr orderbook.Trade) {
	s.applyPriceUpdate(tr.Symbol, tr.Price, tr.Qty)

	if tr.Buy.Origin == orderbook.User {
		s.ledger.ApplyBuy(tr.Symbol, tr.Qty, tr.Price)
	}
	if tr.Sell.Origin == orderbook.User {
		s.ledger.ApplySell(tr.Symbol, tr.Qty, tr.Price)
	}
	s.tradesExecuted.Add(1)

	s.log.Info("order matched",
		zap.String("symbol", tr.Symbol), zap.Float64("price", tr.Price), zap.Int64("qty", tr.Qty),
		zap.String("buyer", tr.Buy.Origin.String()), zap.String("seller", tr.Sell.Origin.String()))

	s.publish(Event{
		Kind:      EventTrade,
		Seq:       s.eventSeq.Add(1),
		Symbol:    tr.Symbol,
		Price:     tr.Price,
		Qty:       tr.Qty,
		Timestamp: s.clock.Now().UnixMicro(),
	}, true)
}

// applyPriceUpdate performs the shared "price update → leaderboard push →
// alert scan" sequence for trades and simulator ticks alike.
func (s *MarketService) applyPriceUpdate(symbol string, price float64, volume int64) {
	now := s.clock.Now()
	_ = s.store.UpdatePrice(symbol, price, volume, now)

	st, _ := s.store.Get(symbol)
	s.board.Record(symbol, st.PercentChange(), st.Current, now)
	s.heapOps.Add(2)

	for _, a := range s.alerts.Scan(symbol, price, now) {
		s.log.Warn("alert triggered",
			zap.String("id", a.ID), zap.String("symbol", a.Symbol),
			zap.String("direction", a.Direction.String()),
			zap.Float64("target", a.Target), zap.Float64("price", price))

		s.publish(Event{
			Kind:      EventAlert,
			Seq:       s.eventSeq.Add(1),
			Symbol:    a.Symbol,
			Price:     price,
			Target:    a.Target,
			Direction: a.Direction.String(),
			Timestamp: now.UnixMicro(),
		}, true)
	}

	s.publish(Event{
		Kind:      EventTick,
		Seq:       s.eventSeq.Add(1),
		Symbol:    symbol,
		Price:     price,
		Qty:       volume,
		Timestamp: now.UnixMicro(),
	}, false)
}

// publish hands an event to the configured sinks. The outbox append is
// synchronous (local write; the broadcaster picks it up later), remote
// publishes run off the hot path.
func (s *MarketService) publish(ev Event, durable bool) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("event marshal failed", zap.Error(err))
		return
	}

	if durable && s.Outbox != nil {
		if err := s.Outbox.Append(ev.Seq, payload); err != nil {
			s.log.Warn("outbox append failed", zap.Uint64("seq", ev.Seq), zap.Error(err))
		}
	}
	if s.Feed != nil {
		s.Feed.Broadcast(payload)
	}

	if ev.Kind == EventTick && (s.Ticks != nil || s.QuoteCache != nil) {
		ticks, quotes := s.Ticks, s.QuoteCache
		symbol := ev.Symbol
		log := s.log
		go func() {
			ctx := context.Background()
			if ticks != nil {
				if err := ticks.Send(ctx, []byte(symbol), payload); err != nil {
					log.Debug("tick publish failed", zap.String("symbol", symbol), zap.Error(err))
				}
			}
			if quotes != nil {
				if err := quotes.Store(ctx, symbol, payload); err != nil {
					log.Debug("quote cache store failed", zap.String("symbol", symbol), zap.Error(err))
				}
			}
		}()
	}
}
