package service

import (
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every HTML tag and attribute. Free-text fields pass
// through it before persistence or echoing, neutralizing stored XSS.
var strictPolicy = bluemonday.StrictPolicy()

// Sanitize removes HTML/script markup from user input and trims whitespace.
// Passwords are never sanitized; stripping characters from a secret would
// silently change it.
func Sanitize(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// ValidEmail reports whether addr is a plausible single email address.
func ValidEmail(addr string) bool {
	if addr == "" {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
