// Package alert implements the price-alert trigger engine. Pending alerts
// sit in a priority queue keyed by target price; triggering is decided by a
// full scan on every price-changing event, so direction never participates
// in the ordering.
package alert

import (
	"container/heap"
	"time"
)

type Direction int

const (
	Above Direction = iota
	Below
)

func (d Direction) String() string {
	if d == Above {
		return "ABOVE"
	}
	return "BELOW"
}

// Alert fires at most once: Triggered is monotonic and a triggered alert is
// moved out of the pending queue, never reinserted.
type Alert struct {
	ID          string
	Symbol      string
	Target      float64
	Direction   Direction
	Triggered   bool
	CreatedAt   time.Time
	TriggeredAt time.Time
}

type pendingHeap []*Alert

func (h pendingHeap) Len() int           { return len(h) }
func (h pendingHeap) Less(i, j int) bool { return h[i].Target < h[j].Target }
func (h pendingHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x any)        { *h = append(*h, x.(*Alert)) }
func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return a
}

// Engine is the pending queue plus the record of everything that has fired.
// Not safe for concurrent use.
type Engine struct {
	pending   pendingHeap
	triggered []*Alert
}

func NewEngine() *Engine {
	return &Engine{}
}

// Set enqueues a pending alert. Duplicate alerts for the same symbol and
// target are permitted.
func (e *Engine) Set(a *Alert) {
	heap.Push(&e.pending, a)
}

// Scan drains the whole pending queue, fires every alert for symbol whose
// condition holds at price, and re-enqueues the rest. The queue holds a
// small bounded number of user alerts, so the O(n) pass is acceptable.
func (e *Engine) Scan(symbol string, price float64, now time.Time) []*Alert {
	var fired []*Alert
	var keep []*Alert

	for e.pending.Len() > 0 {
		a := heap.Pop(&e.pending).(*Alert)
		if a.Symbol == symbol && !a.Triggered && a.conditionMet(price) {
			a.Triggered = true
			a.TriggeredAt = now
			e.triggered = append(e.triggered, a)
			fired = append(fired, a)
		} else if !a.Triggered {
			keep = append(keep, a)
		}
	}

	for _, a := range keep {
		heap.Push(&e.pending, a)
	}
	return fired
}

func (a *Alert) conditionMet(price float64) bool {
	if a.Direction == Above {
		return price >= a.Target
	}
	return price <= a.Target
}

func (e *Engine) PendingCount() int   { return e.pending.Len() }
func (e *Engine) TriggeredCount() int { return len(e.triggered) }

// Triggered returns the fired alerts, oldest first.
func (e *Engine) Triggered() []*Alert {
	out := make([]*Alert, len(e.triggered))
	copy(out, e.triggered)
	return out
}
