// internal/render/renderer.go
//
// Section renderer and page assembly.
//
// Context
// -------
// A published site is a single page built from the configuration's
// ordered section list.  Each enabled section maps to a template named
// `section/<id>` in the active theme.  Rendering is pure with respect
// to the configuration: disabled sections are skipped, stored order is
// preserved, and ids without a template are ignored so a stale document
// never breaks the page.
//
// Workflow
// --------
//  1. Blocks renders every visible section to HTML, skipping failures.
//  2. Page executes the theme's `page` shell with those blocks.
//  3. A section template that errors mid-execution is dropped whole;
//     the page renders with the remaining sections and the failure is
//     logged once per request.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/brokerkit/brokerkit/internal/head"
	"github.com/brokerkit/brokerkit/internal/property"
	"github.com/brokerkit/brokerkit/internal/siteconfig"
	"github.com/brokerkit/brokerkit/internal/theme"
)

// PageData carries everything the theme templates can reach.
type PageData struct {
	Config     *siteconfig.Config
	Properties []property.Record // featured listings, newest first
	Fields     []siteconfig.FormField
	Slug       string
	CSRFToken  string
	Head       *head.Builder // seeded by Page when nil
}

// seedHead fills a head builder from the configuration: title, meta
// description, canonical and icon links, brand styling, the click-beacon
// helper, and a RealEstateAgent JSON-LD block.
func seedHead(data *PageData) *head.Builder {
	b := head.New()
	cfg := data.Config

	b.SetTitle(cfg.Title)
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	if cfg.Description != "" {
		b.Meta(`<meta name="description" content="` +
			template.HTMLEscapeString(cfg.Description) + `">`)
	}
	if data.Slug != "" {
		b.Link(`<link rel="canonical" href="/s/` +
			template.HTMLEscapeString(data.Slug) + `">`)
	}
	if cfg.LogoURL != "" {
		b.Link(`<link rel="icon" href="` +
			template.HTMLEscapeString(cfg.LogoURL) + `">`)
	}
	b.Style(":root{--brand:" + cfg.BrandColor +
		";--background:" + cfg.BackgroundColor + ";}")
	// Listing cards call bkTrack on click to feed the view counters.
	b.Script(`<script>function bkTrack(u){try{navigator.sendBeacon(u)}catch(e){fetch(u,{method:"POST"})}}</script>`)

	ld, err := json.Marshal(map[string]any{
		"@context":    "https://schema.org",
		"@type":       "RealEstateAgent",
		"name":        cfg.Title,
		"description": cfg.Description,
		"areaServed":  cfg.Regions,
	})
	if err == nil {
		b.JSONLD(string(ld))
	}
	return b
}

// Block is one rendered section.
type Block struct {
	ID   string
	HTML template.HTML
}

// sectionData is the dot for a `section/<id>` template.
type sectionData struct {
	*PageData
	Section siteconfig.Section
}

// Blocks renders the visible sections of data.Config in stored order.
// Sections that are disabled, lack a template, or fail mid-render are
// skipped.
func Blocks(th *theme.Theme, data *PageData) []Block {
	sections := data.Config.EnabledSections()
	out := make([]Block, 0, len(sections))

	for _, s := range sections {
		name := "section/" + s.ID
		if !th.Has(name) {
			continue
		}
		var buf bytes.Buffer
		err := th.Renderer.ExecuteTemplate(&buf, name, sectionData{
			PageData: data,
			Section:  s,
		})
		if err != nil {
			zap.S().Warnw("section render failed",
				"section", s.ID, "theme", th.Name, "error", err)
			continue
		}
		out = append(out, Block{ID: s.ID, HTML: template.HTML(buf.String())})
	}
	return out
}

// pageDot is the dot for the `page` shell.
type pageDot struct {
	*PageData
	Blocks []Block
}

// Page renders the full public page to w.
func Page(w io.Writer, th *theme.Theme, data *PageData) error {
	if !th.Has("page") {
		return fmt.Errorf("theme %s has no page template", th.Name)
	}
	if data.Head == nil {
		data.Head = seedHead(data)
	}
	// Render into a buffer first so a late failure never emits half a
	// page to the client.
	var buf bytes.Buffer
	err := th.Renderer.ExecuteTemplate(&buf, "page", pageDot{
		PageData: data,
		Blocks:   Blocks(th, data),
	})
	if err != nil {
		return fmt.Errorf("render page for %q: %w", data.Slug, err)
	}
	_, err = buf.WriteTo(w)
	return err
}
