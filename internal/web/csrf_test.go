// internal/web/csrf_test.go

package web

import (
	"encoding/base64"
	"testing"
)

func TestCSRF_RoundTrip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Error("freshly generated token rejected")
	}
}

func TestCSRF_TamperedTokenRejected(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[len(raw)-1] ^= 0xFF
	bad := base64.RawURLEncoding.EncodeToString(raw)

	if VerifyToken(bad) {
		t.Error("tampered token accepted")
	}
}

func TestCSRF_GarbageRejected(t *testing.T) {
	for _, tok := range []string{"", "not-base64!", "aGVsbG8"} {
		if VerifyToken(tok) {
			t.Errorf("token %q accepted", tok)
		}
	}
}
