// internal/lead/validate_test.go
//
// Unit-tests for form submission validation against the site configuration.

package lead

import (
	"net/url"
	"testing"

	"github.com/brokerkit/brokerkit/internal/siteconfig"
)

func TestFromSubmission_RequiredEnforced(t *testing.T) {
	cfg := siteconfig.Default("x")

	_, errs := FromSubmission(cfg, "owner-1", url.Values{
		"phone": {"11 99999-0000"},
	})
	if len(errs) != 1 || errs[0].Field != siteconfig.FieldName {
		t.Fatalf("errs = %+v, want single name error", errs)
	}
}

func TestFromSubmission_DisabledFieldNeverBlocks(t *testing.T) {
	cfg := siteconfig.Default("x")
	for i := range cfg.FormFields {
		if cfg.FormFields[i].ID == siteconfig.FieldInterest {
			cfg.FormFields[i].Enabled = false
			cfg.FormFields[i].Required = true // flag set, but disabled
		}
	}

	rec, errs := FromSubmission(cfg, "owner-1", url.Values{
		"name":     {"Ana"},
		"phone":    {"11 98888-7777"},
		"interest": {"penthouse"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if rec.Interest != "" {
		t.Fatalf("disabled field was collected: %q", rec.Interest)
	}
}

func TestFromSubmission_ValidatesFormats(t *testing.T) {
	cfg := siteconfig.Default("x")

	_, errs := FromSubmission(cfg, "owner-1", url.Values{
		"name":  {"Ana"},
		"phone": {"call me maybe"},
		"email": {"not-an-email"},
	})
	if len(errs) != 2 {
		t.Fatalf("errs = %+v, want phone and email errors", errs)
	}
}

func TestFromSubmission_EscapesAndLinksProperty(t *testing.T) {
	cfg := siteconfig.Default("x")

	rec, errs := FromSubmission(cfg, "owner-1", url.Values{
		"name":     {"<b>Ana</b>"},
		"phone":    {"+55 11 98888-7777"},
		"message":  {"Quero <script>visitar</script>"},
		"property": {"prop-123"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if rec.Name == "<b>Ana</b>" {
		t.Fatal("name not escaped")
	}
	if rec.PropertyCode == nil || *rec.PropertyCode != "prop-123" {
		t.Fatalf("property ref = %v", rec.PropertyCode)
	}
	if rec.Status != StatusNew {
		t.Fatalf("status = %q, want new", rec.Status)
	}
}
