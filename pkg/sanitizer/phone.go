package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegions are tried in order when the number carries no country
// prefix. Guests phone in from anywhere, so an unparseable number is
// kept verbatim rather than rejected.
var defaultRegions = []string{
	"",
	"US",
	"GB",
	"DE",
}

// NormalizePhone converts a phone number to E.164 when it parses under
// any of the default regions, and returns the trimmed original
// otherwise.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range defaultRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return phone
}
