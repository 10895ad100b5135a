package simulator

import (
	"math/rand"
	"time"

	"ticker/domain/orderbook"
)

// Clock and Rand are seams for deterministic testing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Market is the slice of the service the simulator drives.
type Market interface {
	Symbols() []string
	CurrentPrice(symbol string) (float64, bool)
	ApplyTick(symbol string, price float64, volume int64) error
	SubmitSynthetic(side orderbook.Side, symbol string, price float64, qty int64)
}

type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

type RealRand struct{ *rand.Rand }

func (r RealRand) Intn(n int) int   { return r.Rand.Intn(n) }
func (r RealRand) Float64() float64 { return r.Rand.Float64() }
