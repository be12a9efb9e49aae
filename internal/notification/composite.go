package notification

import (
	"context"
	"errors"
	"sync"

	"leadrouter/internal/leads/ports"
)

// Composite fans a notification out to every channel concurrently. A failing
// channel does not stop the others; their errors are joined.
type Composite struct {
	notifiers []ports.Notifier
}

func NewComposite(notifiers ...ports.Notifier) *Composite {
	return &Composite{notifiers: notifiers}
}

func (c *Composite) SendLeadAlert(ctx context.Context, alert ports.LeadAlert) error {
	return c.fanOut(func(n ports.Notifier) error { return n.SendLeadAlert(ctx, alert) })
}

func (c *Composite) SendStaleReminder(ctx context.Context, reminder ports.StaleReminder) error {
	return c.fanOut(func(n ports.Notifier) error { return n.SendStaleReminder(ctx, reminder) })
}

func (c *Composite) SendDailyDigest(ctx context.Context, digest ports.DailyDigest) error {
	return c.fanOut(func(n ports.Notifier) error { return n.SendDailyDigest(ctx, digest) })
}

func (c *Composite) fanOut(send func(ports.Notifier) error) error {
	errs := make([]error, len(c.notifiers))
	var wg sync.WaitGroup
	for i, n := range c.notifiers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = send(n)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

var _ ports.Notifier = (*Composite)(nil)
