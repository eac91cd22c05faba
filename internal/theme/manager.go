package theme

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// Manager discovers and loads template variants.
type Manager struct {
	BaseDir string // e.g., "themes" (relative) or "/srv/brokerkit/themes"
}

// Load parses templates for the given variant name.  Template precedence
// (high → low):
//  1. themes/<variant>/**/*.html (overrides)
//  2. themes/base/**/*.html      (full define-set)
//
// Later parses override same-named defines, so base is parsed first.
func (m *Manager) Load(variant string) (*Theme, error) {
	root := filepath.Join(m.BaseDir, variant)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("theme variant %s not found at %s", variant, root)
	}

	tpl := template.New("").Funcs(FuncMap())

	baseDir := filepath.Join(m.BaseDir, "base")
	if files, _ := CollectHTML(baseDir); len(files) > 0 {
		if _, err := tpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("parse base templates: %w", err)
		}
	}

	if files, _ := CollectHTML(root); len(files) > 0 {
		if _, err := tpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("parse %s overrides: %w", variant, err)
		}
	}

	return &Theme{Name: variant, Root: root, Renderer: tpl}, nil
}

// FuncMap returns the template helpers shared by every variant.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// splitCSV turns the comma-separated regions string into a slice.
		"splitCSV": func(s string) []string {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			parts := strings.Split(s, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if t := strings.TrimSpace(p); t != "" {
					out = append(out, t)
				}
			}
			return out
		},
		// safeURL lets templates emit data-URI logos without escaping.
		"safeURL": func(s string) template.URL { return template.URL(s) },
		// cssColor marks a validated hex color safe for style attributes.
		"cssColor": func(s string) template.CSS { return template.CSS(s) },
	}
}
