package club

import (
	"context"
	"time"

	"github.com/panscim/panscim/internal/logger"
	"github.com/panscim/panscim/internal/storage"
	"go.uber.org/zap"
	backoff "gopkg.in/cenkalti/backoff.v1"
)

// Sender delivers a notification to the external notification/email
// collaborator. Delivery tracking past the handoff is its problem.
type Sender interface {
	Send(userID string, title string, message string) error
}

// Dispatcher drains notification rows written by the engine and hands them
// to a Sender. It runs outside every engine transaction: the rows are the
// durable queue, so a crashed or failing dispatcher loses nothing and a
// failed delivery never touches committed points or prizes.
type Dispatcher struct {
	storage         storage.Storage
	sender          Sender
	batchSize       int
	retryMaxElapsed time.Duration
}

func NewDispatcher(s storage.Storage, sender Sender) *Dispatcher {
	return &Dispatcher{
		storage:         s,
		sender:          sender,
		batchSize:       50,
		retryMaxElapsed: 30 * time.Second,
	}
}

// Sweep delivers one batch of undispatched notifications, retrying each
// send with exponential backoff before giving up on it until the next
// sweep. Returns how many were delivered.
func (d *Dispatcher) Sweep() (int, error) {

	notifications, err := d.storage.GetUndispatchedNotifications(d.batchSize)
	if err != nil {
		return 0, mapStorageErr(err)
	}

	delivered := 0
	for _, notification := range notifications {
		n := notification

		policy := backoff.NewExponentialBackOff()
		policy.MaxElapsedTime = d.retryMaxElapsed

		err := backoff.Retry(func() error {
			return d.sender.Send(n.UserID, n.Title, n.Message)
		}, policy)
		if err != nil {
			logger.Warn("notification delivery failed, will retry next sweep",
				zap.String("notification", n.ID),
				zap.String("user", n.UserID),
				zap.Error(err))
			continue
		}

		if err := d.storage.MarkNotificationDispatched(n.ID); err != nil {
			return delivered, mapStorageErr(err)
		}
		delivered++
	}

	return delivered, nil
}

// Run sweeps on an interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Sweep(); err != nil {
				logger.Error("notification sweep failed", zap.Error(err))
			}
		}
	}
}
