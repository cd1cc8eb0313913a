// Package status provides the status bar for the archive browser.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// State represents what the browser is doing.
type State string

const (
	StateReady      State = "ready"
	StateLoading    State = "loading"
	StateSyncing    State = "syncing"
	StateRebuilding State = "rebuilding"
	StateError      State = "error"
	StateList       State = "list"
)

// Bar displays progress, messages and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	spinner  spinner.Model
	state    State
	message  string
	progress driving.SyncStatus
	count    int
	width    int
}

// NewBar creates a new status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Title

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Busy reports whether a background operation is running.
func (b *Bar) Busy() bool {
	return b.state == StateLoading || b.state == StateSyncing || b.state == StateRebuilding
}

// SpinnerTick starts the spinner animation.
func (b *Bar) SpinnerTick() tea.Cmd {
	return b.spinner.Tick
}

// Update advances the spinner while busy.
func (b *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && b.Busy() {
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateLoading:
		return b.spinner.View() + b.styles.Muted.Render(" Loading index...")
	case StateSyncing:
		p := b.progress
		text := " Syncing"
		if p.Running {
			text = fmt.Sprintf(" Syncing %s: %d pages, %d records", p.Cursor.Label(), p.Pages, p.RecordsArchived)
		}
		return b.spinner.View() + b.styles.Normal.Render(text)
	case StateRebuilding:
		return b.spinner.View() + b.styles.Muted.Render(" Rebuilding index...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateReady, StateList:
	}
	if b.message != "" {
		return b.styles.Normal.Render(b.message)
	}
	if b.count > 0 {
		return b.styles.Normal.Render(fmt.Sprintf("%d conversations", b.count))
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderRight() string {
	var bindings []key.Binding
	if b.state == StateList {
		bindings = b.keymap.ListHelp()
	} else {
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a message shown when idle, or the error text.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetProgress records the latest sync progress.
func (b *Bar) SetProgress(p driving.SyncStatus) {
	b.progress = p
}

// Progress returns the latest sync progress.
func (b *Bar) Progress() driving.SyncStatus {
	return b.progress
}

// SetCount sets the number of listed conversations.
func (b *Bar) SetCount(n int) {
	b.count = n
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
