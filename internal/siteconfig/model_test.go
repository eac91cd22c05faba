// internal/siteconfig/model_test.go
//
// Unit-tests for the configuration document: default shape, validation at
// the persistence boundary, and effective-state helpers.

package siteconfig

import "testing"

func TestDefault_Shape(t *testing.T) {
	cfg := Default("Acme Realty")

	if len(cfg.Sections) != 7 {
		t.Fatalf("default sections = %d, want 7", len(cfg.Sections))
	}
	for i, s := range cfg.Sections {
		if !s.Enabled {
			t.Errorf("section %q disabled by default", s.ID)
		}
		if s.Fixed != (s.ID == SectionHero) {
			t.Errorf("section %q fixed = %v", s.ID, s.Fixed)
		}
		if i == 0 && s.ID != SectionHero {
			t.Errorf("first section = %q, want hero", s.ID)
		}
	}
}

func TestValidate_RejectsUnknownSection(t *testing.T) {
	cfg := Default("x")
	cfg.Subdomain = "x"
	cfg.Sections = append(cfg.Sections, Section{ID: "banner", Label: "Banner", Enabled: true})

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown section id")
	}
}

func TestValidate_RejectsDisabledFixed(t *testing.T) {
	cfg := Default("x")
	cfg.Subdomain = "x"
	cfg.Sections[0].Enabled = false

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for disabled fixed section")
	}
}

func TestValidate_RejectsBadColor(t *testing.T) {
	cfg := Default("x")
	cfg.Subdomain = "x"
	cfg.BrandColor = "blue"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-hex brand color")
	}
}

func TestValidate_OKDefault(t *testing.T) {
	cfg := Default("Acme Realty")
	cfg.Subdomain = "acme"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEnabledSections_OrderAndFilter(t *testing.T) {
	cfg := Default("x")
	cfg.Sections[6].Enabled = false // faq off
	// An unknown id in the stored sequence must be skipped, not surfaced.
	cfg.Sections = append(cfg.Sections, Section{ID: "mystery", Enabled: true})

	got := cfg.EnabledSections()
	if len(got) != 6 {
		t.Fatalf("enabled = %d, want 6", len(got))
	}
	want := []string{SectionHero, SectionStats, SectionServices, SectionFeatured,
		SectionTestimonials, SectionAbout}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("pos %d = %q, want %q", i, s.ID, want[i])
		}
	}
}

func TestFieldRequired_DisabledNeverRequired(t *testing.T) {
	cfg := Default("x")
	for i := range cfg.FormFields {
		if cfg.FormFields[i].ID == FieldInterest {
			cfg.FormFields[i].Enabled = false
			cfg.FormFields[i].Required = true
		}
	}

	if cfg.FieldRequired(FieldInterest) {
		t.Fatal("disabled field reported as required")
	}
	if !cfg.FieldRequired(FieldName) {
		t.Fatal("name should be required by default")
	}
}

func TestClone_NoAliasing(t *testing.T) {
	cfg := Default("x")
	cp := cfg.Clone()
	cp.Sections[0].Label = "changed"
	if cfg.Sections[0].Label == "changed" {
		t.Fatal("clone aliases the original sections slice")
	}
}
