// internal/editor/draft.go
//
// Editor surface for site configurations.
//
// Context
// -------
// The back office edits a *local* copy of the owner's configuration.  Every
// mutator below touches only that in-memory draft; nothing reaches the
// database until Publish.  Concurrent drafts across sessions are therefore
// last-publish-wins, which matches the one-site-per-owner model.
//
// Workflow
// --------
//  1. NewDraft(ownerID, cfg) clones cfg so the caller's copy stays intact.
//  2. ToggleSection / MoveSection / ToggleFormField / SetAppearance mutate
//     the draft.
//  3. UploadLogo reads an image stream into a data URI.
//  4. Publish validates and upserts through the persistence gateway.
package editor

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/brokerkit/brokerkit/internal/siteconfig"
)

// Direction selects a MoveSection neighbor.
type Direction int

const (
	Up Direction = iota
	Down
)

// FieldAttr names the FormField flag ToggleFormField flips.
type FieldAttr string

const (
	AttrEnabled  FieldAttr = "enabled"
	AttrRequired FieldAttr = "required"
)

// Draft is a mutable working copy of one owner's configuration.
type Draft struct {
	OwnerID string
	cfg     *siteconfig.Config
}

// NewDraft wraps a deep copy of cfg.  A nil cfg starts from the defaults.
func NewDraft(ownerID string, cfg *siteconfig.Config) *Draft {
	if cfg == nil {
		cfg = siteconfig.Default("")
	}
	return &Draft{OwnerID: ownerID, cfg: cfg.Clone()}
}

// Config exposes the current draft state for preview rendering.  Callers
// must treat the result as read-only.
func (d *Draft) Config() *siteconfig.Config { return d.cfg }

// ToggleSection flips Enabled for the section with the given id.  Fixed
// sections and unknown ids are no-ops.
func (d *Draft) ToggleSection(id string) {
	for i := range d.cfg.Sections {
		s := &d.cfg.Sections[i]
		if s.ID != id {
			continue
		}
		if s.Fixed {
			return
		}
		s.Enabled = !s.Enabled
		return
	}
}

// MoveSection swaps the section at index with its immediate neighbor.  Out
// of range indexes and boundary moves (first up, last down) are no-ops.
func (d *Draft) MoveSection(index int, dir Direction) {
	secs := d.cfg.Sections
	j := index - 1
	if dir == Down {
		j = index + 1
	}
	if index < 0 || index >= len(secs) || j < 0 || j >= len(secs) {
		return
	}
	secs[index], secs[j] = secs[j], secs[index]
}

// ToggleFormField flips the named attribute on the field with the given id.
// Unknown ids and attributes are no-ops.
func (d *Draft) ToggleFormField(id string, attr FieldAttr) {
	for i := range d.cfg.FormFields {
		f := &d.cfg.FormFields[i]
		if f.ID != id {
			continue
		}
		switch attr {
		case AttrEnabled:
			f.Enabled = !f.Enabled
		case AttrRequired:
			f.Required = !f.Required
		}
		return
	}
}

// SetAppearance updates the visual knobs in one call.  Empty strings leave
// the current value untouched.
func (d *Draft) SetAppearance(brand, background string, tpl siteconfig.Template) {
	if brand != "" {
		d.cfg.BrandColor = brand
	}
	if background != "" {
		d.cfg.BackgroundColor = background
	}
	if tpl != "" {
		d.cfg.Template = tpl
	}
}

// SetCopy updates the display strings.
func (d *Draft) SetCopy(title, description, regions string) {
	d.cfg.Title = title
	d.cfg.Description = description
	d.cfg.Regions = regions
}

// SetSubdomain records the slug the next Publish will use.
func (d *Draft) SetSubdomain(slug string) { d.cfg.Subdomain = slug }

// UploadLogo reads an image stream into a base64 data URI and stores it as
// the logo.  contentType should be an image MIME type; the editor performs
// no size or type validation, mirroring the upload contract.
func (d *Draft) UploadLogo(r io.Reader, contentType string) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read logo: %w", err)
	}
	d.cfg.LogoURL = "data:" + contentType + ";base64," +
		base64.StdEncoding.EncodeToString(raw)
	return nil
}

// Publish persists the draft through the gateway, keyed by the owner and
// the draft's current subdomain.
func (d *Draft) Publish(ctx context.Context, db *sqlx.DB) error {
	return siteconfig.Publish(ctx, db, d.OwnerID, d.cfg.Subdomain, d.cfg)
}
