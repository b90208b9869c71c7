package chat

import "testing"

func TestParseAddressComplete(t *testing.T) {
	text := "Name: Sara Ahmed\nPhone: 0300-1234567\nAddress: House 12, Street 5, DHA\nCity: Lahore\nPostal Code: 54000"
	addr := ParseAddress(text)
	if addr == nil {
		t.Fatalf("expected address, got nil")
	}
	if addr.FullName != "Sara Ahmed" || addr.Phone != "0300-1234567" ||
		addr.Address != "House 12, Street 5, DHA" || addr.City != "Lahore" || addr.PostalCode != "54000" {
		t.Fatalf("unexpected address: %+v", addr)
	}
}

func TestParseAddressPostalOptional(t *testing.T) {
	text := "Name: Ali\nPhone: 0311\nAddress: Flat 4\nCity: Karachi"
	addr := ParseAddress(text)
	if addr == nil {
		t.Fatalf("expected address without postal code")
	}
	if addr.PostalCode != "" {
		t.Fatalf("unexpected postal code: %q", addr.PostalCode)
	}
}

func TestParseAddressKeySubstrings(t *testing.T) {
	text := "Full Name: Sara\nPhone Number: 0300\nHome Address: House 1\nYour City: Multan"
	addr := ParseAddress(text)
	if addr == nil {
		t.Fatalf("substring keys should resolve")
	}
	if addr.FullName != "Sara" || addr.City != "Multan" {
		t.Fatalf("unexpected address: %+v", addr)
	}
}

func TestParseAddressIncomplete(t *testing.T) {
	cases := []string{
		"Name: Sara\nPhone: 0300",
		"just some text without colons",
		"",
		"Name: Sara\nPhone: 0300\nAddress: House 1",
	}
	for _, text := range cases {
		if addr := ParseAddress(text); addr != nil {
			t.Fatalf("expected nil for %q, got %+v", text, addr)
		}
	}
}

func TestParseAddressValueWithColon(t *testing.T) {
	text := "Name: Sara\nPhone: 0300\nAddress: Plot 7: Block B\nCity: Lahore"
	addr := ParseAddress(text)
	if addr == nil {
		t.Fatalf("expected address")
	}
	if addr.Address != "Plot 7: Block B" {
		t.Fatalf("value after first colon should be kept whole: %q", addr.Address)
	}
}
