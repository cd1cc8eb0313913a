package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Partition keys are total: never empty, never able to escape the archive root.
func TestProperty_PartitionKeyIsSafePathSegment(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := &Record{Customer: Customer{
			Organization: rapid.String().Draw(t, "organization"),
			Email:        rapid.String().Draw(t, "email"),
		}}

		key := PartitionKey(rec)

		if key == "" {
			t.Fatalf("empty partition key for %+v", rec.Customer)
		}
		if strings.ContainsAny(key, "/\\\x00") {
			t.Fatalf("partition key %q contains a path separator", key)
		}
		if strings.Trim(key, ".") == "" {
			t.Fatalf("partition key %q addresses a relative directory", key)
		}
		if strings.ContainsRune(key, ' ') {
			t.Fatalf("partition key %q contains a space", key)
		}
	})
}

// Sanitising is idempotent, so keys read back from disk sanitise to themselves.
func TestProperty_SanitizeKeyIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		once := SanitizeKey(rapid.String().Draw(t, "input"))
		if twice := SanitizeKey(once); twice != once {
			t.Fatalf("SanitizeKey not idempotent: %q -> %q", once, twice)
		}
	})
}

// Normalised tags keep exactly the usable names, in order.
func TestProperty_NormalizeTagsKeepsNamedEntries(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		items := make([]any, n)
		var want []string
		for i := range items {
			name := rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "name")
			switch rapid.IntRange(0, 3).Draw(t, "shape") {
			case 0:
				items[i] = name
			case 1:
				items[i] = map[string]any{"id": i, "name": name}
			case 2:
				items[i] = map[string]any{"id": i}
				name = ""
			default:
				items[i] = i
				name = ""
			}
			if name != "" {
				want = append(want, name)
			}
		}

		raw, err := json.Marshal(items)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		got := NormalizeTags(raw)

		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})
}
