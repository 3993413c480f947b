package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate throttles calls to the extraction service. Wait blocks until the next
// call is allowed or the context is done.
type Gate interface {
	Wait(ctx context.Context) error
}

type delayGate struct {
	limiter *rate.Limiter
}

// NewDelayGate returns a Gate that admits one call per delay interval. The
// first call passes immediately; subsequent calls are spaced at least delay
// apart. A non-positive delay disables throttling.
func NewDelayGate(delay time.Duration) Gate {
	if delay <= 0 {
		return nopGate{}
	}
	return &delayGate{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

func (g *delayGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

type nopGate struct{}

func (nopGate) Wait(ctx context.Context) error { return ctx.Err() }
