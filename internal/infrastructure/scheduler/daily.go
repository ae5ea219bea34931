package scheduler

import (
	"context"
	"time"

	"lectio/internal/ports"
)

// Daily triggers a job once immediately and then every 24 hours. It drives
// the daemon mode's recurring fetch-and-meditate run.
type Daily struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*Daily)(nil)

// NewDaily builds a scheduler; a zero interval defaults to 24 hours.
func NewDaily(interval time.Duration) *Daily {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Daily{interval: interval}
}

// Start begins ticking; the job runs once right away.
func (d *Daily) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-d.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (d *Daily) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}
