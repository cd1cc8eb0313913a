package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ThreadsField is the payload key the conversation history is stored under.
const ThreadsField = "full_threads"

// undatedYear is used when a record carries no usable creation year.
const undatedYear = "undated"

// Record is a conversation as returned by the source API.
// The typed fields are a read-only view; every field of the original
// payload, interpreted or not, is preserved and written back verbatim.
type Record struct {
	// ID is the record identifier, rendered as a string whether the
	// payload carries a number or a string.
	ID string

	// CreatedAt is the raw creation timestamp (ISO 8601).
	CreatedAt string

	// Subject is the conversation subject, if any.
	Subject string

	// Status is the conversation status, if any.
	Status string

	// Customer identifies who the conversation is with.
	Customer Customer

	// Tags is the normalised tag list.
	Tags []string

	fields map[string]json.RawMessage
	// order is the payload's top-level key order, kept for re-encoding.
	order []string
}

// Customer holds the customer fields used for partitioning and indexing.
type Customer struct {
	Email        string
	Organization string
}

// DecodeRecord parses a single record payload.
func DecodeRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
// Any JSON object is accepted; fields of unexpected shape read as empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: record is null", ErrInvalidInput)
	}

	r.fields = fields
	r.order = objectKeys(data)
	r.ID = rawScalar(fields["id"])
	r.CreatedAt = rawString(fields["createdAt"])
	r.Subject = rawString(fields["subject"])
	r.Status = rawString(fields["status"])
	r.Customer = decodeCustomer(fields["customer"])
	r.Tags = NormalizeTags(fields["tags"])
	return nil
}

// MarshalJSON implements json.Marshaler and emits the full payload.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields != nil {
		return r.marshalFields()
	}

	// Built in code rather than decoded: emit the typed view.
	view := map[string]any{
		"id":        r.ID,
		"createdAt": r.CreatedAt,
		"tags":      r.Tags,
		"customer": map[string]string{
			"email":        r.Customer.Email,
			"organization": r.Customer.Organization,
		},
	}
	if r.Subject != "" {
		view["subject"] = r.Subject
	}
	if r.Status != "" {
		view["status"] = r.Status
	}
	return json.Marshal(view)
}

// marshalFields encodes the payload in its original key order. Keys added
// after decoding, such as the thread history, follow in sorted order.
func (r Record) marshalFields() ([]byte, error) {
	keys := make([]string, 0, len(r.fields))
	listed := make(map[string]bool, len(r.fields))
	for _, k := range r.order {
		if _, ok := r.fields[k]; ok && !listed[k] {
			keys = append(keys, k)
			listed[k] = true
		}
	}
	var added []string
	for k := range r.fields {
		if !listed[k] {
			added = append(added, k)
		}
	}
	slices.Sort(added)
	keys = append(keys, added...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := json.Compact(&buf, r.fields[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// objectKeys lists the top-level keys of a JSON object in document order,
// each once.
func objectKeys(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return keys
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// Validate checks the record can be archived under its ID.
func (r *Record) Validate() error {
	id := r.ID
	switch {
	case id == "":
		return fmt.Errorf("%w: record has no id", ErrInvalidInput)
	case id == "." || id == "..":
		return fmt.Errorf("%w: record id %q", ErrInvalidInput, id)
	case strings.ContainsAny(id, "/\\\x00"):
		return fmt.Errorf("%w: record id %q contains a path separator", ErrInvalidInput, id)
	}
	return nil
}

// Year returns the four-digit creation year used as the archive time bucket.
// Timestamps shorter than four characters, or whose first four characters
// are not all digits, are "undated" so the bucket is always a safe path segment.
func (r *Record) Year() string {
	if len(r.CreatedAt) < 4 {
		return undatedYear
	}
	year := r.CreatedAt[:4]
	for _, c := range year {
		if c < '0' || c > '9' {
			return undatedYear
		}
	}
	return year
}

// SetThreads attaches the conversation history to the payload.
func (r *Record) SetThreads(threads []json.RawMessage) {
	if threads == nil {
		threads = []json.RawMessage{}
	}
	if r.fields == nil {
		r.fields = make(map[string]json.RawMessage)
	}
	data, err := json.Marshal(threads)
	if err != nil {
		// Only reachable with invalid RawMessage content.
		data = []byte("[]")
	}
	r.fields[ThreadsField] = data
}

// Threads returns the attached conversation history.
func (r *Record) Threads() []json.RawMessage {
	var threads []json.RawMessage
	if raw, ok := r.fields[ThreadsField]; ok {
		_ = json.Unmarshal(raw, &threads)
	}
	return threads
}

// Tag is one entry of a record's tag list. The source sends either a bare
// string or an object with a name; anything else decodes as a tag with no
// usable name.
type Tag struct {
	Name  string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (t *Tag) UnmarshalJSON(data []byte) error {
	*t = Tag{}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		t.set(plain)
		return nil
	}

	var named struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &named); err == nil && named.Name != nil {
		t.set(*named.Name)
	}
	return nil
}

func (t *Tag) set(name string) {
	name = strings.TrimSpace(name)
	t.Name = name
	t.Valid = name != ""
}

// NormalizeTags resolves a raw tag list to plain names, dropping entries
// without a usable name. A missing or non-list value yields an empty list.
func NormalizeTags(raw json.RawMessage) []string {
	names := []string{}
	if len(raw) == 0 {
		return names
	}

	var tags []Tag
	if err := json.Unmarshal(raw, &tags); err != nil {
		return names
	}
	for _, tag := range tags {
		if tag.Valid {
			names = append(names, tag.Name)
		}
	}
	return names
}

func decodeCustomer(raw json.RawMessage) Customer {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return Customer{}
	}
	return Customer{
		Email:        rawString(fields["email"]),
		Organization: rawString(fields["organization"]),
	}
}

// rawString returns the value of a JSON string, or "" for any other shape.
func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// rawScalar renders a JSON string or number as text.
func rawScalar(raw json.RawMessage) string {
	if s := rawString(raw); s != "" {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return ""
	}
	return n.String()
}
