// internal/lead/validate.go
//
// Server-side validation for public contact-form submissions.
//
// Context
// -------
// The public form is rendered from the site configuration's FormFields, so
// the same document decides what the server accepts.  A field only blocks
// submission when it is both enabled and required; a disabled field is
// ignored entirely even if a stale client posts it.  Errors are captured
// per field so the public page can highlight exact issues.
package lead

import (
	"html"
	"net/mail"
	"net/url"
	"strings"

	"github.com/brokerkit/brokerkit/internal/siteconfig"
)

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const maxFieldLen = 500

// FromSubmission validates posted values against cfg and builds the Record
// to insert.  A non-empty error slice means the submission is rejected.
func FromSubmission(cfg *siteconfig.Config, ownerID string, posted url.Values) (*Record, []FieldError) {
	var errs []FieldError
	rec := &Record{OwnerID: ownerID, Status: StatusNew}

	for _, f := range cfg.FormFields {
		raw := strings.TrimSpace(posted.Get(f.ID))

		if !f.Enabled {
			continue // never collected, never required
		}
		if raw == "" {
			if f.Required {
				errs = append(errs, FieldError{f.ID, f.Label + " is required."})
			}
			continue
		}
		if len(raw) > maxFieldLen {
			errs = append(errs, FieldError{f.ID, f.Label + " is too long."})
			continue
		}

		switch f.ID {
		case siteconfig.FieldName:
			rec.Name = html.EscapeString(raw)
		case siteconfig.FieldPhone:
			if !validPhone(raw) {
				errs = append(errs, FieldError{f.ID, "Phone number looks invalid."})
				continue
			}
			rec.Phone = raw
		case siteconfig.FieldEmail:
			if _, err := mail.ParseAddress(raw); err != nil {
				errs = append(errs, FieldError{f.ID, "Email address looks invalid."})
				continue
			}
			rec.Email = raw
		case siteconfig.FieldMessage:
			rec.Message = html.EscapeString(raw)
		case siteconfig.FieldInterest:
			rec.Interest = html.EscapeString(raw)
		}
	}

	if pc := strings.TrimSpace(posted.Get("property")); pc != "" {
		rec.PropertyCode = &pc
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// validPhone accepts digits, spaces, and the usual separators, requiring at
// least eight digits overall.
func validPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
		default:
			return false
		}
	}
	return digits >= 8
}
