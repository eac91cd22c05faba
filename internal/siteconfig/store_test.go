// internal/siteconfig/store_test.go
//
// Unit-tests for the persistence gateway using sqlmock.
//
// Run: go test ./internal/siteconfig -v

package siteconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestResolve_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)

	published := Default("Acme Realty")
	published.Subdomain = "acme"
	blob, _ := json.Marshal(published)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT user_id, slug, config FROM site_config WHERE slug = ? LIMIT 1`,
	)).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "slug", "config"}).
			AddRow("owner-1", "acme", blob))

	got, err := Resolve(context.Background(), db, "acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Subdomain != "acme" || got.Title != "Acme Realty" {
		t.Fatalf("unexpected config: %+v", got)
	}
	if len(got.Sections) != 7 {
		t.Fatalf("sections = %d, want 7", len(got.Sections))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT user_id, slug, config FROM site_config WHERE slug = ? LIMIT 1`,
	)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := Resolve(context.Background(), db, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPublish_UpsertsForOwner(t *testing.T) {
	db, mock := newMockDB(t)

	cfg := Default("Acme Realty")

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT user_id FROM site_config WHERE slug = ? LIMIT 1`,
	)).
		WithArgs("acme").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO site_config (user_id, slug, config) VALUES (?, ?, ?) `+
			`ON DUPLICATE KEY UPDATE slug = VALUES(slug), config = VALUES(config)`,
	)).
		WithArgs("owner-1", "acme", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := Publish(context.Background(), db, "owner-1", "acme", cfg); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPublish_SlugHeldByOtherOwner(t *testing.T) {
	db, mock := newMockDB(t)

	cfg := Default("Acme Realty")

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT user_id FROM site_config WHERE slug = ? LIMIT 1`,
	)).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("owner-2"))

	err := Publish(context.Background(), db, "owner-1", "acme", cfg)
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("err = %v, want ErrSlugTaken", err)
	}
}

func TestPublish_RejectsInvalidDocument(t *testing.T) {
	db, _ := newMockDB(t)

	cfg := Default("Acme Realty")
	cfg.BrandColor = "not-a-color"

	if err := Publish(context.Background(), db, "owner-1", "acme", cfg); err == nil {
		t.Fatal("expected validation error before any SQL")
	}
}
