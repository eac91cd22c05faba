// internal/config/model.go
//
// Typed configuration model for BrokerKit.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                        – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `BROKERKIT_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "strings"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the control-plane DSN.  The DSN template stays in YAML so
// operators can tweak host, port, or flags without touching Vault; the
// password may be a `vault:` reference resolved at load time.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

// ResolvedDSN splices the password into the DSN template.  A DSN without
// the `{password}` placeholder passes through unchanged.
func (d Database) ResolvedDSN() string {
	return strings.Replace(d.DSN, "{password}", d.Password, 1)
}

//
// Broker section
//

// Broker identifies the broker whose identity rides along on outbound
// webhook payloads and WhatsApp deep links.
type Broker struct {
	Name  string `koanf:"name"  validate:"required"`
	Phone string `koanf:"phone" validate:"required"`
}

//
// Automation section
//

// Automation configures the outbound event webhook (an n8n-style gateway).
// An empty URL disables event forwarding; per-event overrides win over the
// base URL when present.
type Automation struct {
	URL       string            `koanf:"url" validate:"omitempty,url"`
	EventURLs map[string]string `koanf:"event_urls"`
}

//
// Messaging section
//

// Messaging configures the Evolution-style WhatsApp gateway.  The API key
// is typically a `vault:` reference.  All three fields must be set before
// SendText is usable; the settings endpoint persists operator edits to the
// same shape in the database.
type Messaging struct {
	BaseURL  string `koanf:"base_url" validate:"omitempty,url"`
	APIKey   string `koanf:"api_key"`
	Instance string `koanf:"instance"`
}

//
// AI section
//

// AI configures the generative text/image endpoint.
type AI struct {
	BaseURL    string `koanf:"base_url" validate:"omitempty,url"`
	APIKey     string `koanf:"api_key"`
	TextModel  string `koanf:"text_model"`
	ImageModel string `koanf:"image_model"`
}

//
// Geo section
//

// Geo points at an optional MaxMind database.  An empty or missing path
// silently disables IP geolocation on captured leads and visits.
type Geo struct {
	MMDBPath string `koanf:"mmdb_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or BROKERKIT_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // BROKERKIT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP       HTTP       `koanf:"http"`
	Database   Database   `koanf:"database"`
	Broker     Broker     `koanf:"broker"`
	Automation Automation `koanf:"automation"`
	Messaging  Messaging  `koanf:"messaging"`
	AI         AI         `koanf:"ai"`
	Geo        Geo        `koanf:"geo"`
	Paths      Paths      `koanf:"-"` // not loaded from config files
}
