// internal/whatsapp/deeplink.go
//
// WhatsApp deep-link builder.
//
// A deep link opens a chat with the broker's number and a pre-filled text,
// e.g. https://wa.me/5511988887777?text=Hello%20…  The number is reduced to
// digits because wa.me rejects formatted numbers.
package whatsapp

import (
	"net/url"
	"strings"
)

// DeepLink returns the wa.me URL for phone with message pre-filled.  An
// empty phone yields an empty string so callers can skip the link.
func DeepLink(phone, message string) string {
	digits := digitsOnly(phone)
	if digits == "" {
		return ""
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// digitsOnly strips every non-digit rune.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
