// internal/property/model.go
//
// `property` table row model.
//
// Context
// -------
// The Record struct mirrors one row in the persistent **property** table:
// the broker's catalog entry with pricing, location, media, room counts,
// amenities, and the lifetime view/click counters the dashboard reports.
//
// Schema reference
//
//	CREATE TABLE property (
//	    id             INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    code           CHAR(36)      NOT NULL UNIQUE,
//	    owner_id       VARCHAR(64)   NOT NULL,
//	    title          VARCHAR(256)  NOT NULL,
//	    price          DECIMAL(14,2) NOT NULL DEFAULT 0,
//	    price_on_request TINYINT(1)  NOT NULL DEFAULT 0,
//	    neighborhood   VARCHAR(128)  NOT NULL DEFAULT '',
//	    cover_url      VARCHAR(1024) NOT NULL DEFAULT '',
//	    gallery        JSON          NULL,
//	    video_url      VARCHAR(1024) NOT NULL DEFAULT '',
//	    tour_url       VARCHAR(1024) NOT NULL DEFAULT '',
//	    area_m2        INT           NOT NULL DEFAULT 0,
//	    bedrooms       INT           NOT NULL DEFAULT 0,
//	    bathrooms      INT           NOT NULL DEFAULT 0,
//	    suites         INT           NOT NULL DEFAULT 0,
//	    parking        INT           NOT NULL DEFAULT 0,
//	    description    TEXT          NULL,
//	    amenities      JSON          NULL,
//	    status         VARCHAR(16)   NOT NULL DEFAULT 'active',
//	    kind           VARCHAR(16)   NOT NULL DEFAULT 'apartment',
//	    purpose        VARCHAR(16)   NOT NULL DEFAULT 'sale',
//	    featured       TINYINT(1)    NOT NULL DEFAULT 0,
//	    view_count     INT           NOT NULL DEFAULT 0,
//	    click_count    INT           NOT NULL DEFAULT 0,
//	    created_at     TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at     TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • `Gallery` and `Amenities` are JSON columns scanned through StringList.
// • Counter columns are only mutated through the increment helpers; the
//   struct values are snapshots, not live counters.
package property

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

//
// Enumerations
//

// Status tracks catalog lifecycle.
type Status string

const (
	StatusActive   Status = "active"
	StatusReserved Status = "reserved"
	StatusSold     Status = "sold"
	StatusRented   Status = "rented"
	StatusArchived Status = "archived"
)

// Kind is the property type.
type Kind string

const (
	KindApartment  Kind = "apartment"
	KindHouse      Kind = "house"
	KindCommercial Kind = "commercial"
	KindLand       Kind = "land"
)

// Purpose is the transaction the listing offers.
type Purpose string

const (
	PurposeSale    Purpose = "sale"
	PurposeRent    Purpose = "rent"
	PurposeSeasonal Purpose = "seasonal"
)

//
// JSON column helper
//

// StringList maps a JSON array column to []string for sqlx scans.
type StringList []string

// Scan implements sql.Scanner.  NULL and empty blobs scan to nil.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("StringList: unsupported scan type %T", src)
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

//
// Row model
//

// Record mirrors one row in the `property` table.
type Record struct {
	ID             uint64     `db:"id"`
	Code           string     `db:"code"` // public UUID, used in URLs and webhooks
	OwnerID        string     `db:"owner_id"`
	Title          string     `db:"title"`
	Price          float64    `db:"price"`
	PriceOnRequest bool       `db:"price_on_request"`
	Neighborhood   string     `db:"neighborhood"`
	CoverURL       string     `db:"cover_url"`
	Gallery        StringList `db:"gallery"`
	VideoURL       string     `db:"video_url"`
	TourURL        string     `db:"tour_url"`
	AreaM2         int        `db:"area_m2"`
	Bedrooms       int        `db:"bedrooms"`
	Bathrooms      int        `db:"bathrooms"`
	Suites         int        `db:"suites"`
	Parking        int        `db:"parking"`
	Description    string     `db:"description"`
	Amenities      StringList `db:"amenities"`
	Status         Status     `db:"status"`
	Kind           Kind       `db:"kind"`
	Purpose        Purpose    `db:"purpose"`
	Featured       bool       `db:"featured"`
	ViewCount      int        `db:"view_count"`
	ClickCount     int        `db:"click_count"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
