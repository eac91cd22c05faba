// internal/render/renderer_test.go

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brokerkit/brokerkit/internal/siteconfig"
	"github.com/brokerkit/brokerkit/internal/theme"
)

// testTheme parses a throwaway theme where every known section renders
// as a marker div, so tests can assert on presence and order.
func testTheme(t *testing.T) *theme.Theme {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	for _, id := range siteconfig.KnownSections {
		b.WriteString(`{{define "section/` + id + `"}}<div id="` + id + `"></div>{{end}}` + "\n")
	}
	b.WriteString(`{{define "page"}}<main>{{range .Blocks}}{{.HTML}}{{end}}</main>{{end}}` + "\n")
	b.WriteString(`{{define "preview"}}<div class="frame-{{.Device}}">{{.Inner}}</div>{{end}}` + "\n")

	if err := os.WriteFile(filepath.Join(base, "sections.html"), []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "minimal"), 0o755); err != nil {
		t.Fatal(err)
	}

	m := &theme.Manager{BaseDir: dir}
	th, err := m.Load("minimal")
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	return th
}

func blockIDs(blocks []Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func TestBlocks_DefaultConfigRendersAllSeven(t *testing.T) {
	th := testTheme(t)
	cfg := siteconfig.Default("Carla Imóveis")

	blocks := Blocks(th, &PageData{Config: cfg})
	if len(blocks) != 7 {
		t.Fatalf("blocks = %d, want 7 (%v)", len(blocks), blockIDs(blocks))
	}
	for i, s := range cfg.Sections {
		if blocks[i].ID != s.ID {
			t.Errorf("block[%d] = %q, want %q", i, blocks[i].ID, s.ID)
		}
	}
}

func TestBlocks_DisabledSectionSkipped(t *testing.T) {
	th := testTheme(t)
	cfg := siteconfig.Default("Carla Imóveis")
	for i := range cfg.Sections {
		if cfg.Sections[i].ID == siteconfig.SectionFAQ {
			cfg.Sections[i].Enabled = false
		}
	}

	blocks := Blocks(th, &PageData{Config: cfg})
	if len(blocks) != 6 {
		t.Fatalf("blocks = %d, want 6", len(blocks))
	}
	for _, b := range blocks {
		if b.ID == siteconfig.SectionFAQ {
			t.Error("disabled section rendered")
		}
	}
}

func TestBlocks_ReorderPreserved(t *testing.T) {
	th := testTheme(t)
	cfg := siteconfig.Default("Carla Imóveis")
	// Swap the last two sections.
	n := len(cfg.Sections)
	cfg.Sections[n-1], cfg.Sections[n-2] = cfg.Sections[n-2], cfg.Sections[n-1]

	blocks := Blocks(th, &PageData{Config: cfg})
	if blocks[n-1].ID != cfg.Sections[n-1].ID || blocks[n-2].ID != cfg.Sections[n-2].ID {
		t.Errorf("order = %v", blockIDs(blocks))
	}
}

func TestBlocks_UnknownIDIgnored(t *testing.T) {
	th := testTheme(t)
	cfg := siteconfig.Default("Carla Imóveis")
	cfg.Sections = append(cfg.Sections,
		siteconfig.Section{ID: "sparkle", Label: "Sparkle", Enabled: true})

	blocks := Blocks(th, &PageData{Config: cfg})
	for _, b := range blocks {
		if b.ID == "sparkle" {
			t.Error("unknown section rendered")
		}
	}
}

func TestBlocks_FailingSectionDropped(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}
	tpl := `{{define "section/hero"}}<div id="hero"></div>{{end}}
{{define "section/stats"}}{{template "missing" .}}{{end}}
{{define "page"}}{{range .Blocks}}{{.HTML}}{{end}}{{end}}`
	if err := os.WriteFile(filepath.Join(base, "t.html"), []byte(tpl), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "minimal"), 0o755); err != nil {
		t.Fatal(err)
	}
	th, err := (&theme.Manager{BaseDir: dir}).Load("minimal")
	if err != nil {
		t.Fatal(err)
	}

	cfg := siteconfig.Default("x")
	blocks := Blocks(th, &PageData{Config: cfg})
	if len(blocks) != 1 || blocks[0].ID != siteconfig.SectionHero {
		t.Errorf("blocks = %v, want hero only", blockIDs(blocks))
	}
}

func TestPage_WritesAssembledHTML(t *testing.T) {
	th := testTheme(t)
	cfg := siteconfig.Default("Carla Imóveis")

	var buf bytes.Buffer
	if err := Page(&buf, th, &PageData{Config: cfg, Slug: "carla"}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `<div id="hero">`) {
		t.Error("hero missing from page")
	}
	if !strings.HasPrefix(html, "<main>") {
		t.Errorf("page shell missing: %q", html[:20])
	}
}

func TestSeedHead_LinksAndTracker(t *testing.T) {
	cfg := siteconfig.Default("Carla Imóveis")
	cfg.LogoURL = "data:image/png;base64,AA=="

	b := seedHead(&PageData{Config: cfg, Slug: "carla"})

	links := string(b.Links())
	if !strings.Contains(links, `rel="canonical" href="/s/carla"`) {
		t.Errorf("canonical link missing: %s", links)
	}
	if !strings.Contains(links, `rel="icon"`) {
		t.Errorf("icon link missing: %s", links)
	}
	if !strings.Contains(string(b.Scripts()), "bkTrack") {
		t.Errorf("tracker script missing: %s", b.Scripts())
	}
}

func TestPreview_WrapsInDeviceFrame(t *testing.T) {
	th := testTheme(t)
	cfg := siteconfig.Default("Carla Imóveis")

	var buf bytes.Buffer
	if err := Preview(&buf, th, DeviceMobile, &PageData{Config: cfg}); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(buf.String(), `class="frame-mobile"`) {
		t.Error("mobile frame missing")
	}

	buf.Reset()
	// Unknown device falls back to desktop.
	if err := Preview(&buf, th, Device("tv"), &PageData{Config: cfg}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `class="frame-desktop"`) {
		t.Error("desktop fallback missing")
	}
}
