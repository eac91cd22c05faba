// internal/property/store.go
//
// Property-table query helpers.
//
// Workflow
// --------
//  1. Callers supply a *sqlx.DB connected to the control-plane database.
//  2. Each helper executes parameterised SQL; rows are scanned into Record.
//  3. Errors are returned verbatim so the caller can wrap or log them with
//     the project logger.  sql.ErrNoRows folds into ErrNotFound.
//
// Counter columns are incremented in SQL (`col = col + 1`) so concurrent
// visitors never lose a count to read-modify-write races.
package property

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a code lookup matches no row.
var ErrNotFound = errors.New("property not found")

const columns = `
        id, code, owner_id, title, price, price_on_request, neighborhood,
        cover_url, gallery, video_url, tour_url, area_m2, bedrooms,
        bathrooms, suites, parking, description, amenities, status, kind,
        purpose, featured, view_count, click_count, created_at, updated_at`

// Create inserts rec and fills in its generated Code.
func Create(ctx context.Context, db *sqlx.DB, rec *Record) error {
	if rec.Code == "" {
		rec.Code = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = StatusActive
	}
	const q = `
        INSERT INTO property
               (code, owner_id, title, price, price_on_request, neighborhood,
                cover_url, gallery, video_url, tour_url, area_m2, bedrooms,
                bathrooms, suites, parking, description, amenities, status,
                kind, purpose, featured)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		rec.Code, rec.OwnerID, rec.Title, rec.Price, rec.PriceOnRequest,
		rec.Neighborhood, rec.CoverURL, rec.Gallery, rec.VideoURL, rec.TourURL,
		rec.AreaM2, rec.Bedrooms, rec.Bathrooms, rec.Suites, rec.Parking,
		rec.Description, rec.Amenities, rec.Status, rec.Kind, rec.Purpose,
		rec.Featured)
	return err
}

// Update rewrites every editable column of the row identified by code.
func Update(ctx context.Context, db *sqlx.DB, code string, rec *Record) error {
	const q = `
        UPDATE property
           SET title = ?, price = ?, price_on_request = ?, neighborhood = ?,
               cover_url = ?, gallery = ?, video_url = ?, tour_url = ?,
               area_m2 = ?, bedrooms = ?, bathrooms = ?, suites = ?,
               parking = ?, description = ?, amenities = ?, status = ?,
               kind = ?, purpose = ?, featured = ?
         WHERE code = ?`
	res, err := db.ExecContext(ctx, q,
		rec.Title, rec.Price, rec.PriceOnRequest, rec.Neighborhood,
		rec.CoverURL, rec.Gallery, rec.VideoURL, rec.TourURL,
		rec.AreaM2, rec.Bedrooms, rec.Bathrooms, rec.Suites, rec.Parking,
		rec.Description, rec.Amenities, rec.Status, rec.Kind, rec.Purpose,
		rec.Featured, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row identified by code.
func Delete(ctx context.Context, db *sqlx.DB, code string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM property WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ByCode fetches a single property by its public code.
func ByCode(ctx context.Context, db *sqlx.DB, code string) (*Record, error) {
	q := `SELECT` + columns + `
        FROM   property
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

// ByOwner returns the owner's catalog, newest first.
func ByOwner(ctx context.Context, db *sqlx.DB, ownerID string) ([]Record, error) {
	q := `SELECT` + columns + `
        FROM   property
        WHERE  owner_id = ?
        ORDER  BY created_at DESC`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, err
	}
	return rows, nil
}

// Featured returns active, featured listings for the public site, capped at
// limit.
func Featured(ctx context.Context, db *sqlx.DB, ownerID string, limit int) ([]Record, error) {
	q := `SELECT` + columns + `
        FROM   property
        WHERE  owner_id = ?
          AND  status = 'active'
          AND  featured = 1
        ORDER  BY updated_at DESC
        LIMIT  ?`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q, ownerID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementView bumps the view counter.  Missing rows are ignored; the
// public route has no use for the distinction.
func IncrementView(ctx context.Context, db *sqlx.DB, code string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE property SET view_count = view_count + 1 WHERE code = ?`, code)
	return err
}

// IncrementClick bumps the click counter.
func IncrementClick(ctx context.Context, db *sqlx.DB, code string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE property SET click_count = click_count + 1 WHERE code = ?`, code)
	return err
}
