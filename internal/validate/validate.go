package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[0-9]{1,18}$`)
)

const PasswordRule = "Password must be 8-64 characters with upper and lower case letters, a digit and a symbol."

// Email trims and checks format. Case is preserved; lookups are exact.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces length and character classes for new accounts.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// ProductID parses a positive numeric product id from a path segment.
func ProductID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reID.MatchString(s) {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
