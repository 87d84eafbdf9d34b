package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seberle/plume/internal/feed"
	"github.com/seberle/plume/internal/prefs"
	"github.com/seberle/plume/internal/profile"
)

const toastDuration = 4 * time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Profile   *profile.Store
	Feed      *feed.Feed
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	profile   *profile.Store
	feed      *feed.Feed
	prefs     prefs.Prefs
	prefsPath string

	keys   keyMap
	theme  Theme
	styles Styles

	width  int
	height int
	ready  bool

	vp   viewport.Model
	spin spinner.Model

	profSnap profile.Snapshot
	feedSnap feed.Snapshot

	toast string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := GetTheme(opts.Prefs.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	return Model{
		ctx:       ctx,
		profile:   opts.Profile,
		feed:      opts.Feed,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		keys:      defaultKeyMap(),
		theme:     theme,
		styles:    theme.Styles(),
		spin:      sp,
		profSnap:  opts.Profile.Snapshot(),
		feedSnap:  opts.Feed.Snapshot(),
	}
}

// Init implements tea.Model. It kicks off both fetch pipelines concurrently
// and subscribes to the stores' change channels.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spin.Tick,
		watchProfileCmd(m.ctx, m.profile),
		watchFeedCmd(m.ctx, m.feed),
		fetchProfileCmd(m.ctx, m.profile),
		refreshFeedCmd(m.ctx, m.feed),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.vp = viewport.New(msg.Width, 10)
			m.ready = true
		}
		m.layout()
		return m, nil

	case profileChangedMsg:
		m.profSnap = profile.Snapshot(msg)
		m.layout()
		cmds := []tea.Cmd{watchProfileCmd(m.ctx, m.profile)}
		if m.profSnap.State.Phase == profile.PhaseLoaded && m.profSnap.State.Account != nil {
			// The profile settled first; make sure the statuses list has its
			// first page without duplicating one already in flight.
			m.feed.Bind(m.profSnap.State.Account.ID, m.profSnap.IsCurrentUser)
			cmds = append(cmds, ensureFeedCmd(m.ctx, m.feed))
		}
		return m, tea.Batch(cmds...)

	case feedChangedMsg:
		m.feedSnap = feed.Snapshot(msg)
		m.layout()
		return m, watchFeedCmd(m.ctx, m.feed)

	case toggleDoneMsg:
		if msg.err != nil {
			m.toast = msg.err.Error()
			return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
				return clearToastMsg{}
			})
		}
		return m, nil

	case fetchDoneMsg:
		// Fetch outcomes surface through the stores' snapshots.
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.render()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		// Pull-to-refresh: re-trigger both pipelines.
		return m, tea.Batch(
			fetchProfileCmd(m.ctx, m.profile),
			refreshFeedCmd(m.ctx, m.feed),
		)

	case key.Matches(msg, m.keys.Follow):
		if m.profSnap.IsCurrentUser || m.profSnap.Relationship == nil {
			return m, nil
		}
		return m, toggleFollowCmd(m.ctx, m.profile, !m.profSnap.Following())

	case key.Matches(msg, m.keys.Tab):
		if !m.profSnap.IsCurrentUser {
			return m, nil
		}
		next := feed.TabFollowedTags
		if m.feedSnap.Tab.Kind == feed.TabFollowedTags {
			next = feed.TabStatuses
		}
		return m, selectTabCmd(m.ctx, m.feed, next)

	case key.Matches(msg, m.keys.Theme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.prefs.Theme = m.theme.Name
		// Save carries the whole preference set so the other fields
		// survive a theme change. An empty path resolves to the default.
		_ = prefs.Save(m.prefsPath, m.prefs)
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.vp.ScrollDown(1)
		if m.vp.AtBottom() {
			// Infinite scroll: the bottom of the list asks for the next page
			// through the generic pager contract.
			var pager feed.Pager = m.feed
			if !pager.Loading() && !pager.Exhausted() {
				return m, nextPageCmd(m.ctx, pager)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.vp.ScrollUp(1)
		return m, nil
	}

	return m, nil
}

// Messages

type profileChangedMsg profile.Snapshot

type feedChangedMsg feed.Snapshot

type fetchDoneMsg struct{ err error }

type toggleDoneMsg struct{ err error }

type clearToastMsg struct{}

// Commands

func watchProfileCmd(ctx context.Context, s *profile.Store) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-s.Watch():
			return profileChangedMsg(s.Snapshot())
		}
	}
}

func watchFeedCmd(ctx context.Context, f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-f.Watch():
			return feedChangedMsg(f.Snapshot())
		}
	}
}

func fetchProfileCmd(ctx context.Context, s *profile.Store) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: s.FetchAccount(ctx)}
	}
}

func refreshFeedCmd(ctx context.Context, f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: f.Refresh(ctx)}
	}
}

func ensureFeedCmd(ctx context.Context, f *feed.Feed) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: f.EnsureInitial(ctx)}
	}
}

func nextPageCmd(ctx context.Context, p feed.Pager) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: p.FetchNextPage(ctx)}
	}
}

func toggleFollowCmd(ctx context.Context, s *profile.Store, follow bool) tea.Cmd {
	return func() tea.Msg {
		if follow {
			return toggleDoneMsg{err: s.Follow(ctx)}
		}
		return toggleDoneMsg{err: s.Unfollow(ctx)}
	}
}

func selectTabCmd(ctx context.Context, f *feed.Feed, kind feed.TabKind) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{err: f.SelectTab(ctx, kind)}
	}
}

// Run starts the Bubble Tea program until the context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	return err
}
