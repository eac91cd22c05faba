// internal/lead/store.go
//
// Lead-table query helpers.  Same conventions as the property store: the
// caller supplies the pool, errors come back verbatim, and sql.ErrNoRows
// folds into ErrNotFound.
package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a code lookup matches no row.
var ErrNotFound = errors.New("lead not found")

const columns = `
        id, code, owner_id, property_code, name, phone, email, interest,
        message, status, created_at, updated_at`

// Create inserts rec and fills in its generated Code.
func Create(ctx context.Context, db *sqlx.DB, rec *Record) error {
	if rec.Code == "" {
		rec.Code = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = StatusNew
	}
	const q = `
        INSERT INTO lead
               (code, owner_id, property_code, name, phone, email, interest,
                message, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		rec.Code, rec.OwnerID, rec.PropertyCode, rec.Name, rec.Phone,
		rec.Email, rec.Interest, rec.Message, rec.Status)
	return err
}

// ByOwner returns the owner's leads, newest first, optionally filtered by
// funnel stage (empty status means all).
func ByOwner(ctx context.Context, db *sqlx.DB, ownerID string, status Status) ([]Record, error) {
	var rows []Record
	if status == "" {
		q := `SELECT` + columns + `
	        FROM   lead
	        WHERE  owner_id = ?
	        ORDER  BY created_at DESC`
		if err := db.SelectContext(ctx, &rows, q, ownerID); err != nil {
			return nil, err
		}
		return rows, nil
	}
	q := `SELECT` + columns + `
        FROM   lead
        WHERE  owner_id = ?
          AND  status = ?
        ORDER  BY created_at DESC`
	if err := db.SelectContext(ctx, &rows, q, ownerID, status); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByCode fetches a single lead.
func ByCode(ctx context.Context, db *sqlx.DB, code string) (*Record, error) {
	q := `SELECT` + columns + `
        FROM   lead
        WHERE  code = ?
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// SetStatus moves a lead to another funnel stage.
func SetStatus(ctx context.Context, db *sqlx.DB, code string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown lead status %q", status)
	}
	res, err := db.ExecContext(ctx,
		`UPDATE lead SET status = ? WHERE code = ?`, status, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
