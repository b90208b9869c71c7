package chat

import (
	"strings"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// ParseAddress parses line-oriented "key: value" text into a shipping
// address. Keys match case-insensitively on substrings; a line like
// "Full Name: Sara" resolves via "name". Returns nil unless all of name,
// phone, address and city are present. Postal code is optional.
func ParseAddress(text string) *domain.ShippingAddress {
	var addr domain.ShippingAddress

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch {
		case strings.Contains(key, "name"):
			addr.FullName = value
		case strings.Contains(key, "phone"):
			addr.Phone = value
		case strings.Contains(key, "address"):
			addr.Address = value
		case strings.Contains(key, "city"):
			addr.City = value
		case strings.Contains(key, "postal"):
			addr.PostalCode = value
		}
	}

	if !addr.Valid() {
		return nil
	}
	return &addr
}
