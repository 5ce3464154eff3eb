package settings

import (
	"context"
	"log/slog"
	"time"
)

// Refresher re-runs the TTL-aware fetch path on a fixed interval so the
// persisted cache stays warm while a long-lived process (the preview server,
// mostly) is running. Fetch failures are logged at debug level and otherwise
// swallowed; the last successful payload stays persisted and serveable.
type Refresher struct {
	gateway  *Gateway
	interval time.Duration
	timeout  time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRefresher builds a stopped Refresher. A non-positive interval defaults
// to the gateway TTL.
func NewRefresher(g *Gateway, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = g.TTL()
	}
	return &Refresher{
		gateway:  g,
		interval: interval,
		timeout:  30 * time.Second,
	}
}

// Start launches the background loop. Calling Start on a running Refresher
// is a no-op.
func (r *Refresher) Start() {
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, _, err := r.gateway.Ensure(tctx); err != nil {
		slog.Debug("background settings refresh failed", "error", err)
	}
}
