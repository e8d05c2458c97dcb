package validation

import (
	"testing"
	"time"
)

func TestValidVPA(t *testing.T) {
	valid := []string{
		"alice@okhdfc",
		"bob.smith@ybl",
		"user_1-test@ok-axis",
		"  padded@upi  ",
	}
	for _, vpa := range valid {
		if !ValidVPA(vpa) {
			t.Errorf("expected %q to be valid", vpa)
		}
	}

	invalid := []string{
		"",
		"noatsign",
		"@bank",
		"user@",
		"user@@bank",
		"user@bank@extra",
		"user name@bank",
		"user@ok_axis",
	}
	for _, vpa := range invalid {
		if ValidVPA(vpa) {
			t.Errorf("expected %q to be invalid", vpa)
		}
	}
}

func TestValidCardNumber(t *testing.T) {
	valid := []string{
		"4111111111111111",
		"4111 1111 1111 1111",
		"4111-1111-1111-1111",
		"5105105105105100",
		"378282246310005",
		"6011111111111117",
	}
	for _, number := range valid {
		if !ValidCardNumber(number) {
			t.Errorf("expected %q to pass", number)
		}
	}

	invalid := []string{
		"",
		"4111111111111112",     // checksum off by one
		"411111111111",         // 12 digits
		"41111111111111111111", // 20 digits
		"4111x11111111111",
	}
	for _, number := range invalid {
		if ValidCardNumber(number) {
			t.Errorf("expected %q to fail", number)
		}
	}
}

func TestDetectCardNetwork(t *testing.T) {
	cases := map[string]string{
		"4111111111111111":    "visa",
		"5105105105105100":    "mastercard",
		"5505105105105100":    "mastercard",
		"5605105105105100":    "unknown",
		"378282246310005":     "amex",
		"341111111111111":     "amex",
		"6011111111111117":    "rupay",
		"6521111111111117":    "rupay",
		"8111111111111117":    "rupay",
		"8911111111111117":    "rupay",
		"8011111111111117":    "unknown",
		"1234567812345678":    "unknown",
		"":                    "unknown",
		"4111 1111 1111 1111": "visa",
	}
	for number, want := range cases {
		if got := DetectCardNetwork(number); got != want {
			t.Errorf("DetectCardNetwork(%q) = %q, want %q", number, got, want)
		}
	}
}

func TestCardLast4(t *testing.T) {
	if got := CardLast4("4111 1111 1111 1234"); got != "1234" {
		t.Errorf("got %q, want 1234", got)
	}
	if got := CardLast4("12"); got != "12" {
		t.Errorf("got %q, want 12", got)
	}
}

func TestValidExpiry(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		month, year string
		want        bool
	}{
		{"6", "2026", true},  // current month still valid
		{"06", "26", true},   // two-digit year
		{"5", "2026", false}, // last month
		{"12", "2025", false},
		{"1", "2027", true},
		{"1", "27", true},
		{"13", "2027", false},
		{"0", "2027", false},
		{"", "2027", false},
		{"6", "", false},
		{"jun", "2027", false},
	}
	for _, tc := range cases {
		if got := ValidExpiry(tc.month, tc.year, now); got != tc.want {
			t.Errorf("ValidExpiry(%q, %q) = %v, want %v", tc.month, tc.year, got, tc.want)
		}
	}
}

func TestValidCVV(t *testing.T) {
	for _, cvv := range []string{"123", "0000", " 456 "} {
		if !ValidCVV(cvv) {
			t.Errorf("expected %q to be valid", cvv)
		}
	}
	for _, cvv := range []string{"", "12", "12345", "12a", "1 3"} {
		if ValidCVV(cvv) {
			t.Errorf("expected %q to be invalid", cvv)
		}
	}
}
