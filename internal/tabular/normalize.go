package tabular

import (
	"regexp"
	"strings"
)

// emailPattern requires local@domain with at least one dot after the @ and no
// embedded whitespace.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail trims and lower-cases an email cell. An empty value after
// trimming is treated as "no value present" and is valid; a nil cell yields
// nil and is flagged invalid; a non-empty value that does not look like an
// email is returned (trimmed, lowered) with the invalid flag set.
// Never fails: every input maps to some output plus a flag.
func NormalizeEmail(value *string) (*string, bool) {
	if value == nil {
		return nil, true
	}
	val := strings.ToLower(strings.TrimSpace(*value))
	if val == "" {
		return &val, false
	}
	invalid := !emailPattern.MatchString(val)
	return &val, invalid
}

// NormalizeUSPhone strips all non-digit characters from a phone cell.
// Exactly 10 digits become "+1" + digits; 11 digits with a leading 1 become
// "+1" + the remaining 10. Anything else is returned as the trimmed original
// with the invalid flag set. A nil cell yields nil, invalid.
func NormalizeUSPhone(value *string) (*string, bool) {
	if value == nil {
		return nil, true
	}
	var digits strings.Builder
	for _, ch := range *value {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		out := "+1" + d
		return &out, false
	case len(d) == 11 && d[0] == '1':
		out := "+1" + d[1:]
		return &out, false
	default:
		out := strings.TrimSpace(*value)
		return &out, true
	}
}

// SplitColumns parses a comma-separated column list, trimming whitespace and
// dropping empty entries.
func SplitColumns(s string) []string {
	if s == "" {
		return nil
	}
	var cols []string
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
