// Package details shows a single archived conversation from the index.
package details

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// View is the entry details view.
type View struct {
	styles *styles.Styles

	entry        *domain.IndexEntry
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s}
}

// SetEntry sets the entry to display.
func (v *View) SetEntry(e domain.IndexEntry) {
	v.entry = &e
	v.scrollOffset = 0
}

// Update handles messages for the details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.scrollOffset > 0 {
				v.scrollOffset--
			}
		case "down", "j":
			if v.scrollOffset < v.maxScrollOffset() {
				v.scrollOffset++
			}
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewBrowse}
			}
		}
	}
	return v, nil
}

// visibleLines is the height left after the title, separator and help.
func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

func (v *View) buildContent() []string {
	if v.entry == nil {
		return nil
	}
	e := v.entry

	lines := []string{
		formatField("ID", e.ID),
		formatField("Subject", e.Subject),
		formatField("Company", e.Company),
		formatField("Customer", e.Customer),
		formatField("Status", e.Status),
		formatField("File", e.Path),
	}
	if len(e.Tags) > 0 {
		lines = append(lines, "", "Tags:")
		for _, tag := range e.Tags {
			lines = append(lines, "  "+tag)
		}
	}
	return lines
}

func formatField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// View renders the details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Conversation"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 10)))
	b.WriteString("\n\n")

	if v.entry == nil {
		b.WriteString(v.styles.Muted.Render("No conversation selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(lines))
	for _, line := range lines[v.scrollOffset:end] {
		switch {
		case line == "Tags:":
			b.WriteString(v.styles.Subtitle.Render(line))
		case strings.HasPrefix(line, "  "):
			b.WriteString(v.styles.Tag.Render(strings.TrimSpace(line)))
		case strings.Contains(line, ":"):
			label, value, _ := strings.Cut(line, ":")
			b.WriteString(v.styles.Subtitle.Render(label + ":"))
			b.WriteString(v.styles.Normal.Render(value))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]", v.scrollOffset+1, end, len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Entry returns the displayed entry.
func (v *View) Entry() *domain.IndexEntry {
	return v.entry
}
