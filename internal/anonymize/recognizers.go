package anonymize

import (
	"net"
	"regexp"
)

// Entity type names, matching the hosted API's vocabulary.
const (
	EntityEmail      = "EMAIL_ADDRESS"
	EntityPhone      = "PHONE_NUMBER"
	EntityCreditCard = "CREDIT_CARD"
	EntityIPAddress  = "IP_ADDRESS"
	EntityUSSSN      = "US_SSN"
	EntityURL        = "URL"
	EntityIBAN       = "IBAN_CODE"
)

// Recognizer detects one entity type via a pattern plus an optional
// validation step that weeds out pattern false positives.
type Recognizer struct {
	EntityType string
	Score      float64
	Pattern    *regexp.Regexp
	Validate   func(match string) bool
}

// DefaultRecognizers returns the fixed recognizer registry.
func DefaultRecognizers() []Recognizer {
	return []Recognizer{
		{
			EntityType: EntityEmail,
			Score:      0.85,
			Pattern:    regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		},
		{
			EntityType: EntityURL,
			Score:      0.6,
			Pattern:    regexp.MustCompile(`https?://[^\s<>"']+`),
		},
		{
			EntityType: EntityIPAddress,
			Score:      0.95,
			Pattern:    regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
			Validate:   func(m string) bool { return net.ParseIP(m) != nil },
		},
		{
			EntityType: EntityUSSSN,
			Score:      0.85,
			Pattern:    regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			EntityType: EntityCreditCard,
			Score:      0.9,
			Pattern:    regexp.MustCompile(`\b(?:\d[ \-]?){12,18}\d\b`),
			Validate:   luhnValid,
		},
		{
			EntityType: EntityPhone,
			Score:      0.5,
			Pattern:    regexp.MustCompile(`\+?\d[\d\s().\-]{7,14}\d`),
		},
		{
			EntityType: EntityIBAN,
			Score:      0.8,
			Pattern:    regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
		},
	}
}

// luhnValid checks the Luhn checksum over the digits of a candidate card
// number, ignoring spaces and dashes.
func luhnValid(s string) bool {
	var digits []int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
