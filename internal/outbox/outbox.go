// Package outbox drains queued email rows into kafka. Rows are written in
// the same transaction as the order change they announce, so a crash between
// "order updated" and "mail queued" cannot lose a notification; at-least-once
// delivery is the trade-off, and the mailer is idempotent enough to wear it.
package outbox

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tapseal/internal/repository"
)

type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

type Dispatcher struct {
	repo     repository.OutboxPostgres
	pub      Publisher
	interval time.Duration
	batch    int
}

func NewDispatcher(repo repository.OutboxPostgres, pub Publisher) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		pub:      pub,
		interval: 2 * time.Second,
		batch:    50,
	}
}

// Run polls until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.drain(ctx); err != nil {
				logrus.Errorf("outbox drain: %v", err)
			}
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) error {
	msgs, err := d.repo.FetchUnsent(d.batch)
	if err != nil {
		return err
	}

	for _, m := range msgs {
		if ctx.Err() != nil {
			return nil
		}

		if err := d.pub.Publish(ctx, m.OrderID, m.Payload); err != nil {
			logrus.WithFields(logrus.Fields{
				"outbox_id": m.ID,
				"order_id":  m.OrderID,
				"kind":      m.Kind,
			}).Errorf("publish: %v", err)
			if ferr := d.repo.MarkFailed(m.ID, err.Error()); ferr != nil {
				logrus.Errorf("mark failed: %v", ferr)
			}
			continue
		}

		if err := d.repo.MarkSent(m.ID); err != nil {
			// Already published; the row will be re-sent next tick and the
			// duplicate swallowed downstream.
			logrus.Errorf("mark sent: %v", err)
		}
	}
	return nil
}
