// Package portfolio tracks the human user's cash balance and share
// positions. Both are single-writer scalars mutated only inside a trade's
// or market execution's critical section.
package portfolio

type Ledger struct {
	cash      float64
	positions map[string]int64
}

func NewLedger(cash float64) *Ledger {
	return &Ledger{cash: cash, positions: make(map[string]int64)}
}

func (l *Ledger) Cash() float64 { return l.cash }

func (l *Ledger) Position(symbol string) int64 { return l.positions[symbol] }

// Positions returns a copy of all non-zero holdings.
func (l *Ledger) Positions() map[string]int64 {
	out := make(map[string]int64, len(l.positions))
	for sym, qty := range l.positions {
		if qty != 0 {
			out[sym] = qty
		}
	}
	return out
}

// ApplyBuy debits cash and credits the position.
func (l *Ledger) ApplyBuy(symbol string, qty int64, price float64) {
	l.cash -= price * float64(qty)
	l.positions[symbol] += qty
}

// ApplySell credits cash and debits the position.
func (l *Ledger) ApplySell(symbol string, qty int64, price float64) {
	l.cash += price * float64(qty)
	l.positions[symbol] -= qty
}

// Value prices all positions through resolve and returns the holdings value
// excluding cash.
func (l *Ledger) Value(resolve func(string) (float64, bool)) float64 {
	var total float64
	for sym, qty := range l.positions {
		if qty <= 0 {
			continue
		}
		if price, ok := resolve(sym); ok {
			total += price * float64(qty)
		}
	}
	return total
}
