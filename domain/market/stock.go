// Package market holds the per-symbol price state: current and previous
// price, a bounded price history used for trend classification, cumulative
// traded volume, and the daily high/low watermarks.
package market

import "time"

// Trend classifies recent price movement from the last three history entries.
type Trend string

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendStable Trend = "STABLE"
)

// historyCap bounds the rolling price history per symbol. Only the last
// three entries feed trend classification; the rest is display material.
const historyCap = 20

// Stock is the live record for one tradable symbol. It is not safe for
// concurrent use; callers serialize access through the service lock.
type Stock struct {
	Symbol      string
	Name        string
	Current     float64
	Previous    float64
	Volume      int64
	DailyHigh   float64
	DailyLow    float64
	LastUpdated time.Time

	history []float64
}

func NewStock(symbol, name string, price float64) *Stock {
	s := &Stock{
		Symbol:    symbol,
		Name:      name,
		Current:   price,
		Previous:  price,
		DailyHigh: price,
		DailyLow:  price,
	}
	s.history = append(make([]float64, 0, historyCap), price)
	return s
}

// UpdatePrice applies a new trade or tick price. The previous price always
// tracks the price before this update, so percentage change is relative to
// the last update, not the session open.
func (s *Stock) UpdatePrice(price float64, volume int64, now time.Time) {
	s.Previous = s.Current
	s.Current = price
	s.Volume += volume
	s.LastUpdated = now

	if len(s.history) == historyCap {
		copy(s.history, s.history[1:])
		s.history = s.history[:historyCap-1]
	}
	s.history = append(s.history, price)

	if price > s.DailyHigh {
		s.DailyHigh = price
	}
	if price < s.DailyLow {
		s.DailyLow = price
	}
}

// PercentChange returns the change from the previous price in percent.
// A zero previous price is a degenerate startup case and reports 0.
func (s *Stock) PercentChange() float64 {
	if s.Previous == 0 {
		return 0
	}
	return (s.Current - s.Previous) / s.Previous * 100
}

// TrendDirection reports UP for three strictly rising prices, DOWN for
// three strictly falling, and STABLE otherwise.
func (s *Stock) TrendDirection() Trend {
	n := len(s.history)
	if n < 3 {
		return TrendStable
	}
	a, b, c := s.history[n-3], s.history[n-2], s.history[n-1]
	switch {
	case c > b && b > a:
		return TrendUp
	case c < b && b < a:
		return TrendDown
	default:
		return TrendStable
	}
}

// History returns a copy of the rolling price history, oldest first.
func (s *Stock) History() []float64 {
	out := make([]float64, len(s.history))
	copy(out, s.history)
	return out
}
