// internal/schedule/store.go
//
// Visit-table query helpers plus the due-reminder scan the webhook
// forwarder polls.  Conventions match the lead and property stores.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a code lookup matches no row.
var ErrNotFound = errors.New("visit not found")

const columns = `
        id, code, owner_id, lead_code, property_code, scheduled_at, status,
        reminded, notes, created_at, updated_at`

// Create inserts rec and fills in its generated Code.
func Create(ctx context.Context, db *sqlx.DB, rec *Record) error {
	if rec.Code == "" {
		rec.Code = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = StatusScheduled
	}
	const q = `
        INSERT INTO visit
               (code, owner_id, lead_code, property_code, scheduled_at,
                status, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		rec.Code, rec.OwnerID, rec.LeadCode, rec.PropertyCode,
		rec.ScheduledAt, rec.Status, rec.Notes)
	return err
}

// ByOwner returns the owner's visits ordered by appointment time.
func ByOwner(ctx context.Context, db *sqlx.DB, ownerID string) ([]Record, error) {
	q := `SELECT` + columns + `
        FROM   visit
        WHERE  owner_id = ?
        ORDER  BY scheduled_at ASC`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetStatus moves a visit to another lifecycle state.  The owner id is
// part of the predicate so a caller can only touch its own rows; a code
// that exists under another owner reads as ErrNotFound.
func SetStatus(ctx context.Context, db *sqlx.DB, ownerID, code string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown visit status %q", status)
	}
	res, err := db.ExecContext(ctx,
		`UPDATE visit SET status = ? WHERE code = ? AND owner_id = ?`,
		status, code, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DueReminders returns scheduled visits starting within the window that
// have not yet been reminded.  The forwarder marks each one via
// MarkReminded after the webhook is sent, so a delivery failure leaves the
// row eligible for the next scan.
func DueReminders(ctx context.Context, db *sqlx.DB, within time.Duration) ([]Record, error) {
	q := `SELECT` + columns + `
        FROM   visit
        WHERE  status = 'scheduled'
          AND  reminded = 0
          AND  scheduled_at BETWEEN NOW() AND ?
        ORDER  BY scheduled_at ASC`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q, time.Now().Add(within)); err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkReminded flags a visit so the scan skips it from now on.
func MarkReminded(ctx context.Context, db *sqlx.DB, code string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE visit SET reminded = 1 WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
