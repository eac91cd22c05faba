// internal/siteconfig/model.go
//
// Site-configuration model.
//
// Context
// -------
// Each broker owns exactly one `Config`: the JSON document that drives the
// public marketing site.  The document carries appearance (colors, logo,
// template variant), copy (title, description, regions), the ordered list
// of toggleable page sections, and the ordered list of contact-form fields.
//
// The section and field identifier sets are closed.  The renderer skips
// anything it does not recognise, and `Validate` rejects unknown entries at
// the persistence boundary so a published document is always well formed.
//
// Notes
// -----
//   - Section order is significant; it is the render order.
//   - A `Fixed` section cannot be disabled (the hero, by default).
//   - JSON field names match the published wire shape; do not rename them
//     without a data migration.
package siteconfig

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

//
// Template variants
//

// Template selects a visual variant of the public site.  Variants share
// rendering logic; only the section markup differs.
type Template string

const (
	TemplateMinimal     Template = "minimal"
	TemplateLuxury      Template = "luxury"
	TemplateLeadFocused Template = "lead_focused"
)

// Valid reports whether t is a known variant.
func (t Template) Valid() bool {
	switch t {
	case TemplateMinimal, TemplateLuxury, TemplateLeadFocused:
		return true
	}
	return false
}

//
// Section and field identifiers (closed sets)
//

const (
	SectionHero         = "hero"
	SectionStats        = "stats"
	SectionServices     = "services"
	SectionFeatured     = "featured"
	SectionTestimonials = "testimonials"
	SectionAbout        = "about"
	SectionFAQ          = "faq"
)

const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldMessage  = "message"
	FieldInterest = "interest"
)

// KnownSections is the full identifier set in conventional order.
var KnownSections = []string{
	SectionHero, SectionStats, SectionServices, SectionFeatured,
	SectionTestimonials, SectionAbout, SectionFAQ,
}

// KnownFormFields is the full contact-form identifier set.
var KnownFormFields = []string{
	FieldName, FieldPhone, FieldEmail, FieldMessage, FieldInterest,
}

var (
	knownSectionSet = toSet(KnownSections)
	knownFieldSet   = toSet(KnownFormFields)
)

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// IsKnownSection reports whether id belongs to the closed section set.
func IsKnownSection(id string) bool {
	_, ok := knownSectionSet[id]
	return ok
}

//
// Document structs
//

// Section is one toggleable, reorderable block of the public site.
type Section struct {
	ID      string `json:"id"      validate:"required"`
	Label   string `json:"label"   validate:"required"`
	Enabled bool   `json:"enabled"`
	Fixed   bool   `json:"fixed,omitempty"`
}

// FormField describes one contact-capture input.  `Required` only takes
// effect while `Enabled` is true; a disabled field is never required.
type FormField struct {
	ID       string `json:"id"       validate:"required"`
	Label    string `json:"label"    validate:"required"`
	Enabled  bool   `json:"enabled"`
	Required bool   `json:"required"`
}

// Config is the root site-configuration document.
type Config struct {
	BrandColor      string      `json:"brandColor"      validate:"required,hexcolor"`
	BackgroundColor string      `json:"backgroundColor" validate:"required,hexcolor"`
	LogoURL         string      `json:"logoUrl,omitempty"`
	Title           string      `json:"title"           validate:"required,max=120"`
	Description     string      `json:"description"     validate:"max=500"`
	Template        Template    `json:"template"`
	Regions         string      `json:"regions"` // comma-separated neighborhoods
	Subdomain       string      `json:"subdomain"`
	Sections        []Section   `json:"sections"   validate:"dive"`
	FormFields      []FormField `json:"formFields" validate:"dive"`
}

//
// Defaults
//

// Default returns the configuration a broker starts from on first edit:
// all seven sections enabled in conventional order, only the hero fixed,
// and the standard contact fields with name and phone mandatory.
func Default(title string) *Config {
	return &Config{
		BrandColor:      "#1d4ed8",
		BackgroundColor: "#ffffff",
		Title:           title,
		Template:        TemplateMinimal,
		Sections: []Section{
			{ID: SectionHero, Label: "Hero", Enabled: true, Fixed: true},
			{ID: SectionStats, Label: "Stats", Enabled: true},
			{ID: SectionServices, Label: "Services", Enabled: true},
			{ID: SectionFeatured, Label: "Featured Listings", Enabled: true},
			{ID: SectionTestimonials, Label: "Testimonials", Enabled: true},
			{ID: SectionAbout, Label: "About", Enabled: true},
			{ID: SectionFAQ, Label: "FAQ", Enabled: true},
		},
		FormFields: []FormField{
			{ID: FieldName, Label: "Name", Enabled: true, Required: true},
			{ID: FieldPhone, Label: "Phone", Enabled: true, Required: true},
			{ID: FieldEmail, Label: "Email", Enabled: true},
			{ID: FieldMessage, Label: "Message", Enabled: true},
			{ID: FieldInterest, Label: "Interest", Enabled: false},
		},
	}
}

//
// Validation (persistence boundary)
//

var v = validator.New()

// Validate enforces the structural rules a published document must meet.
// The renderer itself trusts the stored sequence; this is the single gate.
func (c *Config) Validate() error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if !c.Template.Valid() {
		return fmt.Errorf("unknown template %q", c.Template)
	}
	if !ValidSlug(c.Subdomain) {
		return fmt.Errorf("subdomain %q is not a valid slug", c.Subdomain)
	}

	seen := make(map[string]struct{}, len(c.Sections))
	for _, s := range c.Sections {
		if _, ok := knownSectionSet[s.ID]; !ok {
			return fmt.Errorf("unknown section id %q", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Fixed && !s.Enabled {
			return fmt.Errorf("fixed section %q cannot be disabled", s.ID)
		}
	}

	seenF := make(map[string]struct{}, len(c.FormFields))
	for _, f := range c.FormFields {
		if _, ok := knownFieldSet[f.ID]; !ok {
			return fmt.Errorf("unknown form field id %q", f.ID)
		}
		if _, dup := seenF[f.ID]; dup {
			return fmt.Errorf("duplicate form field id %q", f.ID)
		}
		seenF[f.ID] = struct{}{}
	}
	return nil
}

//
// Effective-state helpers
//

// EnabledSections returns the enabled subset of Sections in stored order.
// Unknown identifiers are dropped, matching the renderer contract.
func (c *Config) EnabledSections() []Section {
	if c == nil {
		return nil
	}
	out := make([]Section, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s.Enabled && IsKnownSection(s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// EnabledFields returns the enabled subset of FormFields in stored order.
func (c *Config) EnabledFields() []FormField {
	if c == nil {
		return nil
	}
	out := make([]FormField, 0, len(c.FormFields))
	for _, f := range c.FormFields {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// FieldRequired reports whether field id blocks submission when empty.  A
// disabled field is never required in effect, regardless of its flag.
func (c *Config) FieldRequired(id string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.FormFields {
		if f.ID == id {
			return f.Enabled && f.Required
		}
	}
	return false
}

// Clone returns a deep copy so editor drafts never alias the stored slices.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Sections = append([]Section(nil), c.Sections...)
	cp.FormFields = append([]FormField(nil), c.FormFields...)
	return &cp
}
