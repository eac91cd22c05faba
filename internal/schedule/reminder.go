// internal/schedule/reminder.go
//
// Background reminder forwarder.
//
// Context
// -------
// Visits that start soon trigger one reminder event toward the
// automation gateway.  A single goroutine polls DueReminders on a fixed
// interval; each delivered reminder is flagged via MarkReminded so the
// next scan skips it.  A failed delivery leaves the flag unset, which is
// the only retry semantic the flow has.
package schedule

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/brokerkit/brokerkit/internal/lead"
	"github.com/brokerkit/brokerkit/internal/webhook"
)

const (
	// ReminderWindow is how far ahead the scan looks.
	ReminderWindow = 2 * time.Hour
	// ReminderInterval is the polling cadence.
	ReminderInterval = 5 * time.Minute
)

// Reminder polls for upcoming visits and forwards reminder events.
type Reminder struct {
	db     *sqlx.DB
	notify *webhook.Notifier
	window time.Duration
}

// NewReminder wires the forwarder; Run starts it.
func NewReminder(db *sqlx.DB, notify *webhook.Notifier) *Reminder {
	return &Reminder{db: db, notify: notify, window: ReminderWindow}
}

// Run blocks until ctx is cancelled, scanning every ReminderInterval.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.scan(ctx)
		}
	}
}

// scan forwards one reminder per due visit.
func (r *Reminder) scan(ctx context.Context) {
	due, err := DueReminders(ctx, r.db, r.window)
	if err != nil {
		zap.S().Errorw("reminder scan", "error", err)
		return
	}

	for _, visit := range due {
		payload := webhook.Payload{
			Property:  visit.PropertyCode,
			Timestamp: visit.ScheduledAt,
		}
		if visitor, err := lead.ByCode(ctx, r.db, visit.LeadCode); err == nil {
			payload.LeadName = visitor.Name
			payload.LeadPhone = visitor.Phone
		}

		if err := r.notify.Notify(ctx, webhook.EventReminder, payload); err != nil {
			// Row stays unreminded; the next scan picks it up again.
			continue
		}
		if err := MarkReminded(ctx, r.db, visit.Code); err != nil {
			zap.S().Warnw("mark reminded", "visit", visit.Code, "error", err)
		}
	}
}
