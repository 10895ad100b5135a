package market

import (
	"fmt"
	"sort"
	"time"
)

// PriceStore indexes the fixed symbol universe. Like Stock it relies on the
// caller for serialization.
type PriceStore struct {
	stocks map[string]*Stock
}

func NewPriceStore() *PriceStore {
	return &PriceStore{stocks: make(map[string]*Stock)}
}

func (p *PriceStore) Add(s *Stock) {
	p.stocks[s.Symbol] = s
}

func (p *PriceStore) Get(symbol string) (*Stock, bool) {
	s, ok := p.stocks[symbol]
	return s, ok
}

func (p *PriceStore) Has(symbol string) bool {
	_, ok := p.stocks[symbol]
	return ok
}

// Symbols returns the universe in sorted order.
func (p *PriceStore) Symbols() []string {
	out := make([]string, 0, len(p.stocks))
	for sym := range p.stocks {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func (p *PriceStore) UpdatePrice(symbol string, price float64, volume int64, now time.Time) error {
	s, ok := p.stocks[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	s.UpdatePrice(price, volume, now)
	return nil
}
