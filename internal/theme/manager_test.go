// internal/theme/manager_test.go

package theme

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTheme(t *testing.T, dir, name, file, content string) {
	t.Helper()
	root := filepath.Join(dir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, file), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_VariantOverridesBase(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "base", "hero.html",
		`{{define "section/hero"}}base-hero{{end}}{{define "section/about"}}base-about{{end}}`)
	writeTheme(t, dir, "luxury", "hero.html",
		`{{define "section/hero"}}luxury-hero{{end}}`)

	m := &Manager{BaseDir: dir}
	th, err := m.Load("luxury")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var buf bytes.Buffer
	if err := th.Renderer.ExecuteTemplate(&buf, "section/hero", nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "luxury-hero" {
		t.Errorf("hero = %q, want override", got)
	}

	// Defines the variant does not override are inherited from base.
	buf.Reset()
	if err := th.Renderer.ExecuteTemplate(&buf, "section/about", nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "base-about" {
		t.Errorf("about = %q, want base define", got)
	}
}

func TestLoad_UnknownVariant(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "base", "page.html", `{{define "page"}}x{{end}}`)

	if _, err := (&Manager{BaseDir: dir}).Load("brutalist"); err == nil {
		t.Error("expected error for missing variant directory")
	}
}

func TestHas(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "base", "page.html", `{{define "page"}}x{{end}}`)
	writeTheme(t, dir, "minimal", "extra.html", `{{define "section/hero"}}h{{end}}`)

	th, err := (&Manager{BaseDir: dir}).Load("minimal")
	if err != nil {
		t.Fatal(err)
	}
	if !th.Has("page") || !th.Has("section/hero") {
		t.Error("expected inherited and own defines")
	}
	if th.Has("section/faq") {
		t.Error("unexpected define reported")
	}
}

func TestCollectHTML_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "base", "page.html", "x")
	writeTheme(t, dir, "base", "notes.txt", "x")

	files, err := CollectHTML(filepath.Join(dir, "base"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || !strings.HasSuffix(files[0], "page.html") {
		t.Errorf("files = %v", files)
	}
}
