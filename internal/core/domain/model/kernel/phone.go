package kernel

import (
	"strings"

	"dispatch/internal/pkg/errs"
)

// NormalizePhone trims the raw number and prefixes "+" when it is missing.
// Digits are not checked; the chat platform already validated shared contacts.
func NormalizePhone(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return "", errs.NewValueIsRequiredError("phone")
	}
	if !strings.HasPrefix(p, "+") {
		p = "+" + p
	}
	return p, nil
}

// PhoneDisplay renders a stored phone for message text, a dash when unknown.
func PhoneDisplay(phone string) string {
	if phone == "" {
		return "—"
	}
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}
