// Package messages defines Bubbletea message types for the archive browser.
package messages

import (
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewBrowse is the filter input and entry list.
	ViewBrowse ViewType = iota
	// ViewDetails shows one index entry.
	ViewDetails
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewDetails:
		return "details"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// EntriesLoaded carries the whole index.
type EntriesLoaded struct {
	Entries []domain.IndexEntry
	Err     error
}

// EntrySelected is sent when an entry is opened.
type EntrySelected struct {
	Entry domain.IndexEntry
}

// SyncTick asks the app to poll sync progress.
type SyncTick struct{}

// SyncFinished carries the report of a background sync.
type SyncFinished struct {
	Report *domain.SyncReport
	Err    error
}

// IndexRebuilt carries the result of an index rebuild.
type IndexRebuilt struct {
	Report *domain.IndexReport
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
