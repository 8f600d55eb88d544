package reservations

import (
	"context"
	"log"
	"time"
)

// Sweeper runs the expiry sweep on a fixed interval. It is the single
// timeout-based writer: no request path ever flips HELD to AVAILABLE because
// of elapsed time, only this job does.
type Sweeper struct {
	service  Service
	interval time.Duration
	done     chan struct{}
}

func NewSweeper(service Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop
func (sw *Sweeper) Start(ctx context.Context) {
	log.Printf("Starting hold sweeper with %v interval", sw.interval)
	go sw.run(ctx)
}

// Stop stops the sweep loop
func (sw *Sweeper) Stop() {
	log.Println("Stopping hold sweeper...")
	close(sw.done)
}

func (sw *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	// Run immediately on startup to reclaim holds that expired while the
	// process was down.
	sw.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			sw.sweep(ctx)
		case <-sw.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	released, err := sw.service.SweepOnce(ctx)
	if err != nil {
		log.Printf("Error sweeping expired holds: %v", err)
		return
	}
	if released > 0 {
		log.Printf("Swept %d expired holds", released)
	}
}
