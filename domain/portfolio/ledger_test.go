package portfolio

import "testing"

func TestBuySellRoundTrip(t *testing.T) {
	l := NewLedger(100000)

	l.ApplyBuy("AAPL", 10, 175.50)
	if l.Cash() != 100000-1755.00 {
		t.Errorf("cash after buy: %v", l.Cash())
	}
	if l.Position("AAPL") != 10 {
		t.Errorf("position after buy: %d", l.Position("AAPL"))
	}

	l.ApplySell("AAPL", 10, 180.00)
	if l.Cash() != 100000-1755.00+1800.00 {
		t.Errorf("cash after sell: %v", l.Cash())
	}
	if l.Position("AAPL") != 0 {
		t.Errorf("position after sell: %d", l.Position("AAPL"))
	}
	if len(l.Positions()) != 0 {
		t.Error("zero positions should be omitted from the snapshot")
	}
}

func TestValue(t *testing.T) {
	l := NewLedger(0)
	l.ApplyBuy("AAPL", 2, 100)
	l.ApplyBuy("MSFT", 1, 300)

	resolve := func(sym string) (float64, bool) {
		switch sym {
		case "AAPL":
			return 110, true
		case "MSFT":
			return 290, true
		}
		return 0, false
	}
	if got := l.Value(resolve); got != 2*110+290 {
		t.Errorf("portfolio value: %v", got)
	}
}
