package orderbook

import (
	"container/heap"
	"sort"
)

// Trade is one matched execution. Buy and Sell point at the crossing orders
// before their remainders are decremented, so callers can read origins and
// limit prices.
type Trade struct {
	Symbol string
	Price  float64
	Qty    int64
	Buy    *Order
	Sell   *Order
}

// sideQueue is a heap of resting orders; less decides the side's priority.
type sideQueue struct {
	orders []*Order
	less   func(a, b *Order) bool
}

func (q *sideQueue) Len() int            { return len(q.orders) }
func (q *sideQueue) Less(i, j int) bool  { return q.less(q.orders[i], q.orders[j]) }
func (q *sideQueue) Swap(i, j int)       { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }
func (q *sideQueue) Push(x any)          { q.orders = append(q.orders, x.(*Order)) }
func (q *sideQueue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return o
}

func bidLess(a, b *Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Seq < b.Seq
}

func askLess(a, b *Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Seq < b.Seq
}

// OrderBook holds the two sides for one symbol.
//
// Execute, when set, is called once per matched trade while the match loop
// runs; the callback is expected to apply the trade (price update, ledger,
// downstream notifications) before the loop continues.
type OrderBook struct {
	Symbol  string
	Execute func(Trade)

	bids *sideQueue
	asks *sideQueue
}

func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   &sideQueue{less: bidLess},
		asks:   &sideQueue{less: askLess},
	}
}

// Submit admits an order onto its side and matches to a fixed point.
// Admission checks (funds, holdings, positive price and quantity) belong to
// the caller; the book never validates balances.
func (b *OrderBook) Submit(o *Order) {
	if o.Side == Buy {
		heap.Push(b.bids, o)
	} else {
		heap.Push(b.asks, o)
	}
	b.match()
}

// match drains crossing orders until one side empties or the best bid no
// longer reaches the best ask.
func (b *OrderBook) match() {
	for b.bids.Len() > 0 && b.asks.Len() > 0 {
		if b.bids.orders[0].Price < b.asks.orders[0].Price {
			return
		}

		buy := heap.Pop(b.bids).(*Order)
		sell := heap.Pop(b.asks).(*Order)

		// Deliberate simplification carried over from the venue's rules:
		// the trade prints at the mean of the two limit prices, not at the
		// resting order's price.
		price := (buy.Price + sell.Price) / 2
		qty := min(buy.Remaining, sell.Remaining)

		if b.Execute != nil {
			b.Execute(Trade{Symbol: b.Symbol, Price: price, Qty: qty, Buy: buy, Sell: sell})
		}

		// Partial fills keep their original sequence, so time priority
		// against later same-priced orders is preserved on reinsertion.
		if buy.Remaining > qty {
			buy.Remaining -= qty
			heap.Push(b.bids, buy)
		}
		if sell.Remaining > qty {
			sell.Remaining -= qty
			heap.Push(b.asks, sell)
		}
	}
}

func (b *OrderBook) BidCount() int { return b.bids.Len() }
func (b *OrderBook) AskCount() int { return b.asks.Len() }

// Depth returns up to n resting orders per side in priority order without
// disturbing the queues.
func (b *OrderBook) Depth(n int) (bids, asks []*Order) {
	return topOrders(b.bids, n), topOrders(b.asks, n)
}

func topOrders(q *sideQueue, n int) []*Order {
	out := make([]*Order, len(q.orders))
	copy(out, q.orders)
	sort.Slice(out, func(i, j int) bool { return q.less(out[i], out[j]) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
