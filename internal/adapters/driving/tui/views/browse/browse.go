// Package browse provides the main view of the archive browser: a filter
// input over the lookup index and the list of matching conversations.
package browse

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// NoIndexMessage is shown when the index has not been built yet.
const NoIndexMessage = "No index yet. Press ctrl+r to build it, or ctrl+s to sync."

// View is the browse view with filter input, entry list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.FilterInput
	list      *list.EntryList
	statusbar *status.Bar

	index driving.IndexService
	ctx   context.Context

	all        []domain.IndexEntry
	query      string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new browse view.
func NewView(s *styles.Styles, km *keymap.KeyMap, index driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewFilterInput(s),
		list:       list.NewEntryList(s),
		statusbar:  status.NewBar(s, km),
		index:      index,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for index queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor and loads the index.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.Load())
}

// Load reads every index entry in the background.
func (v *View) Load() tea.Cmd {
	v.statusbar.SetState(status.StateLoading)
	index, ctx := v.index, v.ctx
	return tea.Batch(v.statusbar.SpinnerTick(), func() tea.Msg {
		if index == nil {
			return messages.EntriesLoaded{Err: ErrNoIndexService}
		}
		entries, err := index.Find(ctx, domain.IndexFilter{})
		return messages.EntriesLoaded{Entries: entries, Err: err}
	})
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.EntriesLoaded:
		v.handleEntriesLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	return v, tea.Batch(cmd, inputCmd)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			if v.list.Count() > 0 {
				v.focusList()
			}
			return v, nil
		case tea.KeyEsc:
			v.input.SetValue("")
			v.applyFilter()
			return v, nil
		case tea.KeyUp, tea.KeyDown:
			v.list, _ = v.list.Update(msg)
			return v, nil
		default:
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		if v.input.Value() != v.query {
			v.applyFilter()
		}
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Open):
		if e := v.list.SelectedEntry(); e != nil {
			entry := *e
			return v, func() tea.Msg { return messages.EntrySelected{Entry: entry} }
		}
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Filter), keymap.Matches(msg.String(), v.keymap.Back):
		v.focusInput = true
		v.statusbar.SetState(v.idleState())
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case msg.String() == "q":
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleEntriesLoaded(msg messages.EntriesLoaded) {
	v.statusbar.SetState(v.idleState())
	switch {
	case errors.Is(msg.Err, domain.ErrNotFound):
		v.err = nil
		v.all = nil
		v.statusbar.SetMessage(NoIndexMessage)
	case msg.Err != nil:
		v.setError(msg.Err)
		return
	default:
		v.err = nil
		v.all = msg.Entries
	}
	v.applyFilter()
}

func (v *View) applyFilter() {
	v.query = v.input.Value()
	v.list.SetEntries(ParseFilter(v.query).Apply(v.all))
	v.statusbar.SetCount(v.list.Count())
}

func (v *View) focusList() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(v.idleState())
}

func (v *View) idleState() status.State {
	if v.focusInput {
		return status.StateReady
	}
	return status.StateList
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the browse view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	title := v.styles.Title.Render("hsarchive")
	if len(v.all) > 0 {
		title += v.styles.Muted.Render(fmt.Sprintf("  %d archived conversations", len(v.all)))
	}
	sections = append(sections, title, "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// StatusBar returns the status bar so the app can report background work.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

// Settle returns the status bar to its idle state after background work.
func (v *View) Settle(message string) {
	v.statusbar.SetState(v.idleState())
	v.statusbar.SetMessage(message)
}

// Fail shows err in the status bar.
func (v *View) Fail(err error) {
	v.setError(err)
}

// Entries returns the listed entries.
func (v *View) Entries() []domain.IndexEntry {
	return v.list.Entries()
}

// Total returns the number of loaded entries before filtering.
func (v *View) Total() int {
	return len(v.all)
}

// Query returns the current filter text.
func (v *View) Query() string {
	return v.input.Value()
}

// SelectedEntry returns the selected entry, or nil.
func (v *View) SelectedEntry() *domain.IndexEntry {
	return v.list.SelectedEntry()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the filter input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
