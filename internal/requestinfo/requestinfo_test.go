// internal/requestinfo/requestinfo_test.go

package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const botUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

func TestEnrich_AttachesInfo(t *testing.T) {
	var got *Info
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/s/carla", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.RemoteAddr = "203.0.113.9:51234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("info not attached")
	}
	if got.UA.Browser != "Chrome" {
		t.Errorf("browser = %q", got.UA.Browser)
	}
	if got.UA.Device != "Desktop" {
		t.Errorf("device = %q", got.UA.Device)
	}
	if got.UA.IsBot {
		t.Error("desktop browser flagged as bot")
	}
	if got.Geo.IP == nil || got.Geo.IP.String() != "203.0.113.9" {
		t.Errorf("ip = %v", got.Geo.IP)
	}
}

func TestEnrich_FlagsCrawler(t *testing.T) {
	var got Info
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if info := FromContext(r.Context()); info != nil {
			got = *info
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/s/carla", nil)
	req.Header.Set("User-Agent", botUA)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !got.UA.IsBot {
		t.Error("crawler not flagged")
	}
	// Crawlers carry no device class of their own; the mapper falls
	// through to its default.
	if got.UA.Device == "" {
		t.Errorf("device = %q", got.UA.Device)
	}
}

func TestClientIP_ForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	req.RemoteAddr = "10.0.0.1:80"

	if got := clientIP(req); got == nil || got.String() != "198.51.100.7" {
		t.Errorf("clientIP = %v", got)
	}
}

func TestIsBot_MissingInfoIsHuman(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsBot(req.Context()) {
		t.Error("missing info should not count as bot")
	}
}
