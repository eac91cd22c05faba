// internal/whatsapp/settings.go
//
// Gateway settings with an explicit load/save lifecycle.
//
// Context
// -------
// Earlier iterations of this product kept the gateway settings in implicit
// process-wide state.  Here they are an explicit object: bootstrap seeds
// them from the static config, the settings endpoint persists operator
// edits to the `gateway_settings` table, and whoever needs a client gets
// handed the current Settings value.
//
//	CREATE TABLE gateway_settings (
//	    owner_id   VARCHAR(64)   PRIMARY KEY,
//	    base_url   VARCHAR(1024) NOT NULL,
//	    api_key    VARCHAR(256)  NOT NULL,
//	    instance   VARCHAR(128)  NOT NULL,
//	    updated_at TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	                             ON UPDATE CURRENT_TIMESTAMP
//	);
package whatsapp

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Settings configures one broker's Evolution-style gateway connection.
type Settings struct {
	BaseURL  string `db:"base_url"  json:"baseUrl"`
	APIKey   string `db:"api_key"   json:"apiKey"`
	Instance string `db:"instance"  json:"instance"`
}

// Complete reports whether every field needed for SendText is present.
func (s Settings) Complete() bool {
	return s.BaseURL != "" && s.APIKey != "" && s.Instance != ""
}

// LoadSettings returns the stored settings for ownerID, falling back to
// fallback (typically the static config values) when no row exists.
func LoadSettings(ctx context.Context, db *sqlx.DB, ownerID string, fallback Settings) (Settings, error) {
	const q = `
        SELECT base_url, api_key, instance
        FROM   gateway_settings
        WHERE  owner_id = ?
        LIMIT  1`
	var s Settings
	if err := db.GetContext(ctx, &s, q, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings upserts the operator-edited settings.
func SaveSettings(ctx context.Context, db *sqlx.DB, ownerID string, s Settings) error {
	const q = `
        INSERT INTO gateway_settings (owner_id, base_url, api_key, instance)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE base_url = VALUES(base_url),
                                api_key  = VALUES(api_key),
                                instance = VALUES(instance)`
	_, err := db.ExecContext(ctx, q, ownerID, s.BaseURL, s.APIKey, s.Instance)
	return err
}
