package service

import (
	"context"
	"time"
)

// Clock abstracts wall time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// EventSink receives durable trade and alert events for asynchronous
// broadcast (the pebble outbox in production).
type EventSink interface {
	Append(seq uint64, payload []byte) error
}

// TickPublisher pushes price ticks onto the live feed topic.
type TickPublisher interface {
	Send(ctx context.Context, key, value []byte) error
}

// QuoteCache stores the latest quote per symbol for display collaborators.
type QuoteCache interface {
	Store(ctx context.Context, symbol string, payload []byte) error
}

// FeedHub fans events out to connected websocket viewers.
type FeedHub interface {
	Broadcast(payload []byte)
}
