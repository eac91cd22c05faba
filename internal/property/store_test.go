// internal/property/store_test.go
//
// Unit-tests for property query helpers using sqlmock.

package property

import (
	"context"
	"database/sql"
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

func TestCreate_GeneratesCode(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO property").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &Record{OwnerID: "owner-1", Title: "Sunny flat", Price: 450000}
	if err := Create(context.Background(), db, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code == "" {
		t.Fatal("Create left Code empty")
	}
	if rec.Status != StatusActive {
		t.Fatalf("status = %q, want active default", rec.Status)
	}
}

func TestByCode_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .* FROM property WHERE code").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := ByCode(context.Background(), db, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIncrementView_SQLSideCounter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE property SET view_count = view_count + 1 WHERE code = ?`,
	)).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := IncrementView(context.Background(), db, "abc"); err != nil {
		t.Fatalf("IncrementView: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdate_MissingRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE property").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := Update(context.Background(), db, "ghost", &Record{Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStringList_ScanValue(t *testing.T) {
	var l StringList
	if err := l.Scan([]byte(`["pool","gym"]`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(l) != 2 || l[0] != "pool" {
		t.Fatalf("scan result: %#v", l)
	}

	v, err := l.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if string(v.([]byte)) != `["pool","gym"]` {
		t.Fatalf("value = %s", v)
	}

	var empty StringList
	if err := empty.Scan(nil); err != nil || empty != nil {
		t.Fatalf("nil scan: %v %#v", err, empty)
	}
}
