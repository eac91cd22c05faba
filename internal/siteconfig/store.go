// internal/siteconfig/store.go
//
// Persistence gateway for site-configuration documents.
//
// Context
// -------
// Configurations live in the `site_config` table, one row per owner, with
// the published slug exposed for anonymous lookup:
//
//	CREATE TABLE site_config (
//	    user_id    VARCHAR(64) PRIMARY KEY,
//	    slug       VARCHAR(63) NOT NULL UNIQUE,
//	    config     JSON        NOT NULL,
//	    created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP
//	                           ON UPDATE CURRENT_TIMESTAMP
//	);
//
// Publish is an upsert keyed by owner.  Republishing under a new slug frees
// the old slug immediately; old public links go dead.  That mirrors the
// one-site-per-owner model rather than a slug-addressable history.
//
// Workflow
// --------
//  1. Callers supply a *sqlx.DB connected to the control-plane database.
//  2. Each helper executes parameterised SQL and returns errors verbatim,
//     except sql.ErrNoRows which is folded into ErrNotFound.
//  3. The document is validated before every write; reads trust the stored
//     JSON and surface unmarshal failures as errors.
package siteconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no row matches an owner or slug lookup.
var ErrNotFound = errors.New("site configuration not found")

// ErrSlugTaken is returned when another owner has already published the
// requested slug.
var ErrSlugTaken = errors.New("slug already published by another owner")

// row mirrors one `site_config` record for sqlx scans.
type row struct {
	UserID string `db:"user_id"`
	Slug   string `db:"slug"`
	Config []byte `db:"config"`
}

// Load fetches the configuration owned by ownerID.
func Load(ctx context.Context, db *sqlx.DB, ownerID string) (*Config, error) {
	const q = `
        SELECT user_id, slug, config
        FROM   site_config
        WHERE  user_id = ?
        LIMIT  1`
	_, cfg, err := scanOne(ctx, db, q, ownerID)
	return cfg, err
}

// Resolve fetches the configuration published under slug.  Used by the
// public route; never mutates.
func Resolve(ctx context.Context, db *sqlx.DB, slug string) (*Config, error) {
	const q = `
        SELECT user_id, slug, config
        FROM   site_config
        WHERE  slug = ?
        LIMIT  1`
	_, cfg, err := scanOne(ctx, db, q, slug)
	return cfg, err
}

// ResolveOwned is Resolve plus the owning user id, for callers that route
// visitor activity (leads, counters) back to the owner.
func ResolveOwned(ctx context.Context, db *sqlx.DB, slug string) (string, *Config, error) {
	const q = `
        SELECT user_id, slug, config
        FROM   site_config
        WHERE  slug = ?
        LIMIT  1`
	return scanOne(ctx, db, q, slug)
}

// Publish validates cfg and upserts it keyed by ownerID under slug.  The
// stored document always carries the slug it was published under.
func Publish(ctx context.Context, db *sqlx.DB, ownerID, slug string, cfg *Config) error {
	doc := cfg.Clone()
	doc.Subdomain = slug
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("publish %s: %w", slug, err)
	}

	// Reject a slug that belongs to a different owner.  The UNIQUE index
	// backs this up; the pre-check produces a friendlier error.
	var holder string
	err := db.GetContext(ctx, &holder,
		`SELECT user_id FROM site_config WHERE slug = ? LIMIT 1`, slug)
	switch {
	case err == nil && holder != ownerID:
		return ErrSlugTaken
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	const q = `
        INSERT INTO site_config (user_id, slug, config)
        VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE slug = VALUES(slug), config = VALUES(config)`
	_, err = db.ExecContext(ctx, q, ownerID, slug, blob)
	return err
}

// scanOne runs a single-row query and decodes the JSON document.
func scanOne(ctx context.Context, db *sqlx.DB, q string, arg any) (string, *Config, error) {
	var r row
	if err := db.GetContext(ctx, &r, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}

	var cfg Config
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return "", nil, fmt.Errorf("decode site config for %q: %w", r.Slug, err)
	}
	// The column is authoritative for the slug; older rows may predate the
	// subdomain field inside the document.
	cfg.Subdomain = r.Slug
	return r.UserID, &cfg, nil
}
