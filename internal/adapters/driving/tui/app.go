package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/views/browse"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/tui/views/details"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// DefaultPollInterval is how often sync progress is refreshed.
const DefaultPollInterval = 250 * time.Millisecond

// App is the archive browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	browseView  *browse.View
	detailsView *details.View
	currentView messages.ViewType

	// syncing and rebuilding guard against overlapping background work.
	syncing    bool
	rebuilding bool
	lastSync   *domain.SyncReport

	pollInterval time.Duration

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the browser with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		browseView:   browse.NewView(s, km, ports.Index),
		detailsView:  details.NewView(s),
		currentView:  messages.ViewBrowse,
		pollInterval: DefaultPollInterval,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.browseView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("hsarchive"),
		a.browseView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.EntrySelected:
		a.detailsView.SetEntry(msg.Entry)
		a.currentView = messages.ViewDetails
		return a, nil

	case messages.SyncTick:
		if !a.syncing {
			return a, nil
		}
		if st := a.ports.Sync.Status(); st != nil {
			a.browseView.StatusBar().SetProgress(*st)
		}
		return a, a.tick()

	case messages.SyncFinished:
		return a, a.handleSyncFinished(msg)

	case messages.IndexRebuilt:
		a.rebuilding = false
		if msg.Err != nil {
			a.browseView.Fail(fmt.Errorf("rebuild: %w", msg.Err))
			return a, nil
		}
		a.browseView.Settle(fmt.Sprintf("Indexed %d conversations (%d unreadable skipped)", msg.Report.Entries, msg.Report.Skipped))
		return a, a.browseView.Load()
	}

	a.browseView, cmd = a.browseView.Update(msg)
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	switch {
	case key == "ctrl+c":
		return a, tea.Quit
	case keymap.Matches(key, a.keymap.Sync):
		return a, a.startSync()
	case keymap.Matches(key, a.keymap.Rebuild):
		return a, a.startRebuild()
	}

	switch a.currentView {
	case messages.ViewDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	case messages.ViewHelp:
		if key == "esc" || key == "q" || key == "?" {
			a.currentView = messages.ViewBrowse
		}
	case messages.ViewBrowse:
		a.browseView, cmd = a.browseView.Update(msg)
	}
	return a, cmd
}

// startSync runs one sync invocation in the background and polls its progress.
func (a *App) startSync() tea.Cmd {
	if a.syncing || a.rebuilding {
		return nil
	}
	a.syncing = true
	bar := a.browseView.StatusBar()
	bar.SetMessage("")
	if st := a.ports.Sync.Status(); st != nil {
		bar.SetProgress(*st)
	}
	bar.SetState(status.StateSyncing)

	sync, ctx := a.ports.Sync, a.ctx
	run := func() tea.Msg {
		report, err := sync.Run(ctx, nil)
		return messages.SyncFinished{Report: report, Err: err}
	}
	return tea.Batch(run, a.tick(), bar.SpinnerTick())
}

func (a *App) handleSyncFinished(msg messages.SyncFinished) tea.Cmd {
	a.syncing = false
	a.lastSync = msg.Report

	if msg.Err != nil {
		outcome := domain.SyncOutcome("failed")
		if msg.Report != nil && msg.Report.Outcome != "" {
			outcome = msg.Report.Outcome
		}
		a.browseView.Fail(fmt.Errorf("sync %s: %w", outcome, msg.Err))
		return nil
	}

	r := msg.Report
	summary := "Sync done"
	if r != nil {
		summary = fmt.Sprintf("Sync done: %d pages, %d records", r.Pages, r.Records)
		if r.StopReason != "" {
			summary += fmt.Sprintf(" (%s, resumes at %s)", r.StopReason, r.EndCursor)
		}
	}
	a.browseView.Settle(summary)
	return a.browseView.Load()
}

// startRebuild rebuilds the index in the background.
func (a *App) startRebuild() tea.Cmd {
	if a.syncing || a.rebuilding {
		return nil
	}
	a.rebuilding = true
	bar := a.browseView.StatusBar()
	bar.SetMessage("")
	bar.SetState(status.StateRebuilding)

	index, ctx := a.ports.Index, a.ctx
	return tea.Batch(func() tea.Msg {
		report, err := index.Rebuild(ctx)
		return messages.IndexRebuilt{Report: report, Err: err}
	}, bar.SpinnerTick())
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.pollInterval, func(time.Time) tea.Msg { return messages.SyncTick{} })
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDetails:
		return a.detailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.browseView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Filter (typing):
  (type)      Narrow the list; terms combine
  field:value Match id, company, customer, status or tag
  enter       Move to the list
  esc         Clear the filter

List:
  j/k, ↑/↓    Navigate
  enter       Show conversation
  /, esc      Back to the filter
  q           Quit

Anywhere:
  ctrl+s      Sync from the stored checkpoint
  ctrl+r      Rebuild the index from the archive
  ctrl+c      Quit

` + a.styles.Help.Render("[esc] back")
}

// Run starts the browser and blocks until it exits. Background work is
// cancelled when the browser exits.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	a.WithContext(ctx)

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Syncing reports whether a background sync is running.
func (a *App) Syncing() bool {
	return a.syncing
}

// LastSync returns the report of the last background sync, or nil.
func (a *App) LastSync() *domain.SyncReport {
	return a.lastSync
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.browseView.SetDimensions(width, height)
	a.detailsView.SetDimensions(width, height)
}
