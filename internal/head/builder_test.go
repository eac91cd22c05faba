// internal/head/builder_test.go

package head

import (
	"strings"
	"testing"
)

func TestTitleEscaped(t *testing.T) {
	b := New()
	b.SetTitle(`Carla <Imóveis>`)

	got := string(b.Title())
	if strings.Contains(got, "<Imóveis>") {
		t.Errorf("title not escaped: %s", got)
	}
	if !strings.HasPrefix(got, "<title>") {
		t.Errorf("title tag missing: %s", got)
	}
}

func TestMetaDeduplicated(t *testing.T) {
	b := New()
	tag := `<meta charset="utf-8">`
	b.Meta(tag)
	b.Meta(tag)
	b.Meta(`<meta name="robots" content="index">`)

	if got := strings.Count(string(b.Metas()), "charset"); got != 1 {
		t.Errorf("charset meta appears %d times", got)
	}
}

func TestLinksAndScriptsDeduplicated(t *testing.T) {
	b := New()
	canonical := `<link rel="canonical" href="/s/carla">`
	b.Link(canonical)
	b.Link(canonical)
	b.Link(`<link rel="icon" href="/logo.png">`)
	b.Script(`<script>function bkTrack(u){}</script>`)
	b.Script(`<script>function bkTrack(u){}</script>`)

	if got := strings.Count(string(b.Links()), "canonical"); got != 1 {
		t.Errorf("canonical link appears %d times", got)
	}
	if !strings.Contains(string(b.Links()), "icon") {
		t.Errorf("icon link missing: %s", b.Links())
	}
	if got := strings.Count(string(b.Scripts()), "bkTrack"); got != 1 {
		t.Errorf("script appears %d times", got)
	}
}

func TestStylesWrappedInOneTag(t *testing.T) {
	b := New()
	b.Style(":root{--brand:#111;}")
	b.Style("body{margin:0;}")

	got := string(b.Styles())
	if strings.Count(got, "<style>") != 1 {
		t.Errorf("styles = %s", got)
	}
	if !strings.Contains(got, "--brand") || !strings.Contains(got, "margin:0") {
		t.Errorf("styles missing blocks: %s", got)
	}
}

func TestJSONLDWrapped(t *testing.T) {
	b := New()
	b.JSONLD(`{"@type":"RealEstateAgent"}`)

	got := string(b.JSON())
	if !strings.Contains(got, `application/ld+json`) {
		t.Errorf("json-ld script tag missing: %s", got)
	}
}
