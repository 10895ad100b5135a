package orderbook

import "time"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Origin distinguishes human orders, which settle against the user ledger,
// from synthetic counterparty orders injected by the simulator.
type Origin int

const (
	User Origin = iota
	Synthetic
)

func (o Origin) String() string {
	if o == User {
		return "USER"
	}
	return "AI"
}

// Order is a resting limit order. Remaining decreases on partial fills; the
// submission sequence number is a unique ordinal that preserves time
// priority across pop/reinsert cycles.
type Order struct {
	ID          string
	Symbol      string
	Side        Side
	Price       float64
	Remaining   int64
	Origin      Origin
	SubmittedAt time.Time
	Seq         uint64
}
