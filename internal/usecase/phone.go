package usecase

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "KE"

// NormalizePhoneNumber turns "0712345678", "+254 712 345 678" or "254712345678"
// into the gateway's MSISDN form "254712345678". Only mobile numbers are accepted.
func NormalizePhoneNumber(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", ErrInvalidPhoneNumber
	}
	if strings.HasPrefix(cleaned, "254") && len(cleaned) == 12 {
		cleaned = "+" + cleaned
	}

	num, err := phonenumbers.Parse(cleaned, defaultPhoneRegion)
	if err != nil {
		return "", ErrInvalidPhoneNumber
	}
	if !phonenumbers.IsValidNumberForRegion(num, defaultPhoneRegion) {
		return "", ErrInvalidPhoneNumber
	}
	switch phonenumbers.GetNumberType(num) {
	case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
	default:
		return "", ErrInvalidPhoneNumber
	}

	return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+"), nil
}
