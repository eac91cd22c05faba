// internal/schedule/model.go
//
// `visit` table row model.
//
// Context
// -------
// A Visit ties a lead to a property at an agreed time.  The reminder flag
// marks visits whose reminder event has already been forwarded so the
// due-reminder scan never fires twice for the same visit.
//
// Schema reference
//
//	CREATE TABLE visit (
//	    id            INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    code          CHAR(36)    NOT NULL UNIQUE,
//	    owner_id      VARCHAR(64) NOT NULL,
//	    lead_code     CHAR(36)    NOT NULL,
//	    property_code CHAR(36)    NOT NULL,
//	    scheduled_at  TIMESTAMP   NOT NULL,
//	    status        VARCHAR(16) NOT NULL DEFAULT 'scheduled',
//	    reminded      TINYINT(1)  NOT NULL DEFAULT 0,
//	    notes         TEXT        NULL,
//	    created_at    TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at    TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
package schedule

import "time"

// Status tracks a visit through its short lifecycle.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusDone      Status = "done"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is a known visit status.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusDone, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// Record mirrors one row in the `visit` table.
type Record struct {
	ID           uint64    `db:"id"`
	Code         string    `db:"code"`
	OwnerID      string    `db:"owner_id"`
	LeadCode     string    `db:"lead_code"`
	PropertyCode string    `db:"property_code"`
	ScheduledAt  time.Time `db:"scheduled_at"`
	Status       Status    `db:"status"`
	Reminded     bool      `db:"reminded"`
	Notes        string    `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
