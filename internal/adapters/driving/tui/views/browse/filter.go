package browse

import (
	"slices"
	"strings"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// Filter narrows entries by a free-text query. Each whitespace-separated term
// must match. A term of the form field:value matches that field only
// (id, company, customer, status, tag); any other term matches a substring of
// the ID, subject, company, customer, status or tags. Matching ignores case.
type Filter struct {
	terms []term
}

type term struct {
	field string
	value string
}

// ParseFilter parses a query string.
func ParseFilter(query string) Filter {
	var f Filter
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if field, value, ok := strings.Cut(word, ":"); ok && value != "" && isField(field) {
			f.terms = append(f.terms, term{field: field, value: value})
			continue
		}
		f.terms = append(f.terms, term{value: word})
	}
	return f
}

func isField(name string) bool {
	switch name {
	case "id", "company", "customer", "status", "tag":
		return true
	}
	return false
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f.terms) == 0
}

// Matches reports whether e satisfies every term.
func (f Filter) Matches(e *domain.IndexEntry) bool {
	for _, t := range f.terms {
		if !t.matches(e) {
			return false
		}
	}
	return true
}

// Apply returns the matching entries in their original order.
func (f Filter) Apply(entries []domain.IndexEntry) []domain.IndexEntry {
	if f.IsEmpty() {
		return entries
	}
	out := make([]domain.IndexEntry, 0, len(entries))
	for i := range entries {
		if f.Matches(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}

func (t term) matches(e *domain.IndexEntry) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), t.value) }
	tagged := func() bool { return slices.ContainsFunc(e.Tags, contains) }

	switch t.field {
	case "id":
		return strings.EqualFold(e.ID, t.value)
	case "company":
		return contains(e.Company)
	case "customer":
		return contains(e.Customer)
	case "status":
		return strings.EqualFold(e.Status, t.value)
	case "tag":
		return slices.ContainsFunc(e.Tags, func(tag string) bool { return strings.EqualFold(tag, t.value) })
	}
	return contains(e.ID) || contains(e.Subject) || contains(e.Company) ||
		contains(e.Customer) || contains(e.Status) || tagged()
}
