// internal/lead/model.go
//
// `lead` table row model and funnel enumeration.
//
// Context
// -------
// A Lead is a prospective client captured from the public contact form, a
// WhatsApp deep-link click, or a scheduled visit.  The funnel status drives
// the back-office CRM board; transitions are free-form (any stage to any
// stage) because brokers reorder their pipeline constantly.
//
// Schema reference
//
//	CREATE TABLE lead (
//	    id            INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    code          CHAR(36)     NOT NULL UNIQUE,
//	    owner_id      VARCHAR(64)  NOT NULL,
//	    property_code CHAR(36)     NULL,
//	    name          VARCHAR(128) NOT NULL,
//	    phone         VARCHAR(32)  NOT NULL DEFAULT '',
//	    email         VARCHAR(256) NOT NULL DEFAULT '',
//	    interest      VARCHAR(64)  NOT NULL DEFAULT '',
//	    message       TEXT         NULL,
//	    status        VARCHAR(24)  NOT NULL DEFAULT 'new',
//	    created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
package lead

import "time"

// Status is the CRM funnel stage.
type Status string

const (
	StatusNew            Status = "new"
	StatusContacted      Status = "contacted"
	StatusVisitScheduled Status = "visit_scheduled"
	StatusNegotiating    Status = "negotiating"
	StatusClosed         Status = "closed"
	StatusLost           Status = "lost"
)

// Valid reports whether s is a known funnel stage.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusVisitScheduled,
		StatusNegotiating, StatusClosed, StatusLost:
		return true
	}
	return false
}

// Record mirrors one row in the `lead` table.
type Record struct {
	ID           uint64    `db:"id"`
	Code         string    `db:"code"`
	OwnerID      string    `db:"owner_id"`
	PropertyCode *string   `db:"property_code"`
	Name         string    `db:"name"`
	Phone        string    `db:"phone"`
	Email        string    `db:"email"`
	Interest     string    `db:"interest"`
	Message      string    `db:"message"`
	Status       Status    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
