package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize collapses internal whitespace runs to a single space
// and trims the ends.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeMail trims the address and lowercases the domain part; the
// local part is left as given.
func NormalizeMail(mail string) string {
	mail = strings.TrimSpace(mail)
	at := strings.LastIndex(mail, "@")
	if at < 0 {
		return mail
	}
	return mail[:at+1] + strings.ToLower(mail[at+1:])
}
