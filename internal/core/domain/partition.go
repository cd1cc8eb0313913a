package domain

import (
	"strings"
	"unicode"
)

// UncategorizedKey is the partition for records with no organisation and no
// usable email domain.
const UncategorizedKey = "Uncategorized"

// PartitionKey derives the archive partition for a record: the sanitised
// organisation name, else the sanitised customer email domain, else
// UncategorizedKey. The result is never empty and never contains a path
// separator.
func PartitionKey(r *Record) string {
	if r == nil {
		return UncategorizedKey
	}
	for _, candidate := range []string{r.Customer.Organization, emailDomain(r.Customer.Email)} {
		if key := SanitizeKey(candidate); key != "" {
			return key
		}
	}
	return UncategorizedKey
}

// SanitizeKey keeps letters, digits, '.', '_', '-' and spaces, trims the
// result and replaces spaces with underscores. Names made only of dots
// sanitise to "" so they can never address a parent directory.
func SanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			b.WriteRune(r)
		}
	}
	key := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if strings.Trim(key, ".") == "" {
		return ""
	}
	return key
}

// emailDomain returns the part after the last '@', or "" when the address
// has no '@'.
func emailDomain(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 {
		return ""
	}
	return email[i+1:]
}
