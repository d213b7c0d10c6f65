package usecase

import (
	"errors"
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	valid := map[string]string{
		"0712345678":       "254712345678",
		"712345678":        "254712345678",
		"254712345678":     "254712345678",
		"+254712345678":    "254712345678",
		"+254 712 345 678": "254712345678",
		"0712-345-678":     "254712345678",
		"(0712) 345 678":   "254712345678",
	}
	for in, want := range valid {
		got, err := NormalizePhoneNumber(in)
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}

	invalid := []string{"", "   ", "12345", "abc", "+14155552671", "07123456789012"}
	for _, in := range invalid {
		if _, err := NormalizePhoneNumber(in); !errors.Is(err, ErrInvalidPhoneNumber) {
			t.Fatalf("%q: expected ErrInvalidPhoneNumber, got %v", in, err)
		}
	}
}
