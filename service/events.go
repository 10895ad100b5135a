package service

import "time"

type EventKind string

const (
	EventTick  EventKind = "tick"
	EventTrade EventKind = "trade"
	EventAlert EventKind = "alert"
)

// Event is the wire form shared by the outbox, the Kafka feeds, the quote
// cache, and the websocket hub.
type Event struct {
	Kind      EventKind `json:"kind"`
	Seq       uint64    `json:"seq"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Qty       int64     `json:"qty,omitempty"`
	Target    float64   `json:"target,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Timestamp int64     `json:"timestamp"` // unix micro
}

// Transaction is one completed market buy or sell, kept as a passive
// history list.
type Transaction struct {
	Type     string
	Symbol   string
	Quantity int64
	Price    float64
	Total    float64
	At       time.Time
}
