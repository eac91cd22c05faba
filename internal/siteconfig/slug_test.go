package siteconfig

import "testing"

func TestMakeSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Acme Realty", "acme-realty"},
		{"  João — Imóveis!  ", "jo-o-im-veis"},
		{"---", "site"},
		{"UPPER  case", "upper-case"},
		{"a_b.c", "a-b-c"},
	}
	for _, c := range cases {
		if got := MakeSlug(c.in); got != c.want {
			t.Errorf("MakeSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	if !ValidSlug("acme-realty") {
		t.Error("acme-realty should be valid")
	}
	for _, bad := range []string{"", "Acme", "a b", "-lead", "trailing-"} {
		if ValidSlug(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}
