// Package theme loads the section templates behind the public site.
//
// A Theme combines:
//
//   - Name     – the template-variant directory name (minimal, luxury,
//     lead_focused).
//   - Root     – path to that directory on disk.
//   - Renderer – parsed templates ready for execution.
//
// Every variant inherits the full define-set from `themes/base/`; a variant
// directory only overrides the sections it wants to restyle.  Section
// templates are named `section/<id>`, the page shell is `page`, and the
// editor's device frame is `preview`.
package theme

import "html/template"

// Theme is returned by the Manager once all templates are parsed.
type Theme struct {
	Name     string
	Root     string
	Renderer *template.Template
}

// Has reports whether the variant defines (or inherits) the named template.
func (t *Theme) Has(name string) bool {
	return t.Renderer.Lookup(name) != nil
}
