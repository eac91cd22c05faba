// internal/schedule/store_test.go

package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/brokerkit/brokerkit/internal/config"
	"github.com/brokerkit/brokerkit/internal/webhook"
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

func TestCreate_GeneratesCodeAndDefaults(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO visit").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &Record{
		OwnerID:     "owner-1",
		LeadCode:    "lead-1",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}
	if err := Create(context.Background(), db, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code == "" {
		t.Error("code not generated")
	}
	if rec.Status != StatusScheduled {
		t.Errorf("status = %q", rec.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetStatus_UnknownCode(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE visit").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := SetStatus(context.Background(), db, "owner-1", "ghost", StatusDone); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// The update predicate carries the owner id, so a code held by another
// owner matches zero rows and reads as not found.
func TestSetStatus_ScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE visit SET status = ? WHERE code = ? AND owner_id = ?`)).
		WithArgs(string(StatusDone), "v-1", "owner-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := SetStatus(context.Background(), db, "owner-2", "v-1", StatusDone); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMarkReminded(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE visit SET reminded = 1 WHERE code = ?`)).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := MarkReminded(context.Background(), db, "v-1"); err != nil {
		t.Fatalf("MarkReminded: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// A reminder that fails to deliver must leave the row unflagged so the
// next scan retries it; a delivered one is flagged exactly once.
func TestReminderScan_MarksOnlyDelivered(t *testing.T) {
	db, mock := newMockDB(t)
	at := time.Now().Add(time.Hour)

	visitRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "code", "owner_id", "lead_code", "property_code",
			"scheduled_at", "status", "reminded", "notes",
			"created_at", "updated_at",
		}).AddRow(1, "v-1", "owner-1", "lead-1", "prop-1",
			at, StatusScheduled, false, "", time.Now(), time.Now())
	}
	leadRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "code", "owner_id", "property_code", "name", "phone",
			"email", "interest", "message", "status",
			"created_at", "updated_at",
		}).AddRow(1, "lead-1", "owner-1", nil, "Ana", "+5511988887777",
			"", "", "", "new", time.Now(), time.Now())
	}

	// First scan: gateway down, row stays unflagged.
	mock.ExpectQuery("SELECT .+ FROM visit").WillReturnRows(visitRows())
	mock.ExpectQuery("SELECT .+ FROM lead").WillReturnRows(leadRows())

	// Second scan: gateway up, row flagged.
	mock.ExpectQuery("SELECT .+ FROM visit").WillReturnRows(visitRows())
	mock.ExpectQuery("SELECT .+ FROM lead").WillReturnRows(leadRows())
	mock.ExpectExec("UPDATE visit SET reminded = 1").
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	var up bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !up {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	notify := webhook.New(config.Automation{URL: srv.URL},
		config.Broker{Name: "Carla", Phone: "x"})
	rem := NewReminder(db, notify)

	rem.scan(context.Background())
	up = true
	rem.scan(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
