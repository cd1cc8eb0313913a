// Package list provides list display components for the archive browser.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// EntryList displays index entries in a navigable list.
type EntryList struct {
	entries  []domain.IndexEntry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEntryList creates an empty entry list.
func NewEntryList(s *styles.Styles) *EntryList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EntryList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles navigation keys.
func (l *EntryList) Update(msg tea.Msg) (*EntryList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			l.selected = max(len(l.entries)-1, 0)
		}
	}
	return l, nil
}

// View renders the visible window of entries around the selection.
func (l *EntryList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render("No matching conversations")
	}

	// Each entry takes two lines.
	visible := max((l.height-2)/2, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.entries))

	lines := make([]string, 0, 2*(end-start)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Conversations (%d)", len(l.entries))), "")
	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, &l.entries[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *EntryList) renderEntry(index int, e *domain.IndexEntry) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	subject := e.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	subjectWidth := max(l.width-26, 10)
	subject = truncate(subject, subjectWidth)

	head := fmt.Sprintf("%s%-10s %-*s", indicator, e.ID, subjectWidth, subject)
	var first string
	if index == l.selected {
		first = l.styles.Selected.Render(head)
	} else {
		first = l.styles.Normal.Render(head)
	}
	first += " " + l.styles.Status(e.Status).Render(e.Status)

	detail := e.Company
	if e.Customer != "" {
		detail += " · " + e.Customer
	}
	if len(e.Tags) > 0 {
		detail += " · " + strings.Join(e.Tags, ", ")
	}
	second := l.styles.Muted.Render("    " + truncate(detail, max(l.width-6, 20)))

	return first + "\n" + second
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetEntries replaces the entries and resets the selection.
func (l *EntryList) SetEntries(entries []domain.IndexEntry) {
	l.entries = entries
	l.selected = 0
}

// Entries returns the current entries.
func (l *EntryList) Entries() []domain.IndexEntry {
	return l.entries
}

// Selected returns the selected index.
func (l *EntryList) Selected() int {
	return l.selected
}

// SelectedEntry returns the selected entry, or nil if the list is empty.
func (l *EntryList) SelectedEntry() *domain.IndexEntry {
	if l.selected < 0 || l.selected >= len(l.entries) {
		return nil
	}
	return &l.entries[l.selected]
}

// MoveUp moves the selection up.
func (l *EntryList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down.
func (l *EntryList) MoveDown() {
	if l.selected < len(l.entries)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EntryList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entries.
func (l *EntryList) Count() int {
	return len(l.entries)
}
