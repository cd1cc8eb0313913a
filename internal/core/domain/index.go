package domain

import "slices"

// IndexEntry is the flat lookup projection of one archived record.
type IndexEntry struct {
	ID       string   `json:"id"`
	Subject  string   `json:"subject"`
	Company  string   `json:"company"`
	Tags     []string `json:"tags"`
	Customer string   `json:"customer"`
	Status   string   `json:"status"`
	Path     string   `json:"path"`
}

// NewIndexEntry projects a record read back from the archive.
// The company is the partition the file was found under, not a recomputed key.
func NewIndexEntry(r *Record, company, path string) IndexEntry {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return IndexEntry{
		ID:       r.ID,
		Subject:  r.Subject,
		Company:  company,
		Tags:     tags,
		Customer: r.Customer.Email,
		Status:   r.Status,
		Path:     path,
	}
}

// IndexFilter selects entries by exact match. Empty fields match anything.
type IndexFilter struct {
	Company  string
	Tag      string
	Customer string
	Status   string
}

// IsEmpty returns true if no field is set.
func (f IndexFilter) IsEmpty() bool {
	return f == IndexFilter{}
}

// Matches reports whether the entry satisfies every set field.
func (f IndexFilter) Matches(e IndexEntry) bool {
	if f.Company != "" && f.Company != e.Company {
		return false
	}
	if f.Customer != "" && f.Customer != e.Customer {
		return false
	}
	if f.Status != "" && f.Status != e.Status {
		return false
	}
	if f.Tag != "" && !slices.Contains(e.Tags, f.Tag) {
		return false
	}
	return true
}

// IndexReport summarises an index rebuild.
type IndexReport struct {
	// Entries is the number of entries written.
	Entries int

	// Skipped is the number of archive files that could not be parsed.
	Skipped int

	// Path is where the index was written.
	Path string
}

// ArchiveFile is one file found while scanning the archive.
type ArchiveFile struct {
	// Path is the file location, rooted at the archive directory.
	Path string

	// Partition is the first directory below the archive root.
	Partition string

	// Data is the raw file content.
	Data []byte
}
