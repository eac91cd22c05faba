// internal/requestinfo/requestinfo.go
//
// Per-request metadata: user-agent fingerprint plus best-effort IP
// geolocation.
//
// Context
// -------
// Public pages feed analytics (view counters, visit events) that must
// not be inflated by crawlers, and lead notifications carry the
// visitor's rough location when available.  The Enrich middleware
// parses the User-Agent once, looks the client IP up in a MaxMind City
// database when one is configured, and stashes the result in the
// request context.
//
// Notes
// -----
//   - Geolocation is optional.  Without a database every lookup returns
//     an empty Geo and nothing else changes.
//   - The structs are inert; they are safe to log or JSON-encode.
package requestinfo

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// UA holds the parsed user-agent properties the analytics layer cares
// about.
type UA struct {
	Raw     string // Entire User-Agent header
	Browser string // "Chrome", "Firefox", "Safari", ...
	Version string // "124.0.6367"
	OS      string // "macOS", "Windows", "Android", "iOS", ...
	Device  string // "Desktop", "Phone", "Tablet", ...
	IsBot   bool   // Crawler signature match
}

// Geo holds IP-based geolocation hints.  Best-effort; empty when the
// database has no match or is not configured.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// Info is stored in the request context by Enrich.
type Info struct {
	UA        UA
	Geo       Geo
	Timestamp time.Time
}

// geoReader is a singleton MaxMind handle, safe for concurrent reads.
// Nil when geolocation is disabled.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2-City database at dbPath.  An empty path or
// an open failure leaves geolocation disabled; the failure is logged,
// not fatal.
func InitGeo(dbPath string) {
	if dbPath == "" {
		return
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		zap.S().Warnw("geolocation disabled", "path", dbPath, "error", err)
		return
	}
	geoReader = r
}

type ctxKey struct{}

// FromContext returns the pointer stored by Enrich, or nil if the
// middleware has not run.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// IsBot reports whether the request came from a known crawler.  Missing
// info counts as human so analytics degrade safe rather than silent.
func IsBot(ctx context.Context) bool {
	if info := FromContext(ctx); info != nil {
		return info.UA.IsBot
	}
	return false
}

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(uaHeader string) UA {
	u := uasurfer.Parse(uaHeader)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}

	return UA{
		Raw:     uaHeader,
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version: trimVersion(u.Browser.Version),
		OS:      osName,
		Device:  deviceTypeToString(u.DeviceType),
		IsBot:   u.IsBot(),
	}
}

// trimVersion builds "major.minor.patch" and removes trailing ".0".
func trimVersion(v uasurfer.Version) string {
	out := strings.Join([]string{
		strconv.Itoa(v.Major),
		strconv.Itoa(v.Minor),
		strconv.Itoa(v.Patch),
	}, ".")
	for strings.HasSuffix(out, ".0") {
		out = strings.TrimSuffix(out, ".0")
	}
	if out == "" {
		return "0"
	}
	return out
}

// deviceTypeToString maps uasurfer.DeviceType to a friendly string.
func deviceTypeToString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceTV:
		return "TV"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	default:
		return "Unknown"
	}
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	if geoReader == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
