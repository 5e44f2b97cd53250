package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/repository"
	"go.uber.org/zap"
)

// DefaultInterval is how often the dispatcher polls for due reminders.
const DefaultInterval = 30 * time.Second

// Sink shows a delivered reminder to the user.
type Sink interface {
	Deliver(ctx context.Context, n *domain.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n *domain.Notification) error

func (f SinkFunc) Deliver(ctx context.Context, n *domain.Notification) error { return f(ctx, n) }

// WriterSink prints reminders to a terminal. It is the fallback when no
// native notification center is available.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(_ context.Context, n *domain.Notification) error {
	_, err := fmt.Fprintf(s.W, "\a%s\n  %s\n", n.Title, n.Body)
	return err
}

// Dispatcher delivers pending reminders once their schedule time passes.
type Dispatcher struct {
	repo     repository.NotificationRepo
	sink     Sink
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewDispatcher(repo repository.NotificationRepo, sink Sink, interval time.Duration, log *zap.Logger) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{repo: repo, sink: sink, interval: interval, log: log, now: time.Now}
}

// Run delivers due reminders immediately and then on every tick until ctx
// is cancelled. It returns ctx.Err().
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.DeliverDue(ctx); err != nil {
			d.log.Warn("delivering notifications", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// DeliverDue sends every due reminder to the sink and marks it delivered.
// A reminder whose delivery fails stays pending for the next round.
func (d *Dispatcher) DeliverDue(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.repo.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, n := range due {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := d.sink.Deliver(ctx, n); err != nil {
			d.log.Warn("notification delivery failed", zap.Int64("id", n.ID), zap.Error(err))
			continue
		}
		if err := d.repo.MarkDelivered(ctx, n.ID, now); err != nil {
			d.log.Warn("marking notification delivered", zap.Int64("id", n.ID), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered, nil
}
