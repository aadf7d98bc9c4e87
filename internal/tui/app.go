package tui

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/emphasis"
	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/server"
	"github.com/lotas/salonreviews/internal/storage"
	"github.com/lotas/salonreviews/internal/tabbar"
	"github.com/lotas/salonreviews/internal/types"
	screen "github.com/lotas/salonreviews/internal/viewport"
)

// --- Messages ---

type catalogLoadedMsg struct {
	cat *types.Catalog
	err error
}

// emphasisDeadlineMsg carries a due emphasis callback onto the event loop.
type emphasisDeadlineMsg struct{ fire func() }

// Screen rows: the navbar is row 0, then the pill top, the labels and the
// box top.
const (
	tabTopRow  = 1
	tabTextRow = 2
	headerRows = 4
)

// Options configures the reviews screen.
type Options struct {
	DB       *sql.DB        // nil means the catalog arrives by other means
	Server   *server.Server // nil disables the live feed
	Pad      int
	Emphasis time.Duration
	Select   string // initially selected artist id; "" is "All"

	// Hub defaults to viewport.Default.
	Hub *screen.Hub
	// Scheduler defaults to a LoopScheduler drained by the program.
	Scheduler emphasis.Scheduler
	Clock     func() time.Time
}

// --- Model ---

type Model struct {
	// Data
	db     *sql.DB
	server *server.Server
	cat    *types.Catalog

	// Tab bar
	sel  *tabbar.Selection
	bar  *tabbar.Controller
	row  *tabRow
	loop *emphasis.LoopScheduler
	hub  *screen.Hub
	now  func() time.Time

	// UI state
	list     viewport.Model
	starts   []int
	cursor   int
	detail   bool
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	loading  bool
	err      error
	status   string
	width    int
	height   int
	quitting bool
}

func NewModel(opts Options) Model {
	hub := opts.Hub
	if hub == nil {
		hub = screen.Default
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	var loop *emphasis.LoopScheduler
	sched := opts.Scheduler
	if sched == nil {
		loop = emphasis.NewLoopScheduler()
		sched = loop
	}
	var emOpts []emphasis.Option
	if opts.Clock != nil {
		emOpts = append(emOpts, emphasis.WithClock(opts.Clock))
	}

	sel := tabbar.NewSelection(opts.Select)
	row := newTabRow(max(opts.Pad, 0))
	row.selected = sel.Current()
	bar := tabbar.New(
		tabbar.Config{Pad: opts.Pad, Emphasis: opts.Emphasis},
		sched, row,
		func(id string) { sel.Set(id) },
		emOpts...,
	)
	bar.Mount(hub)
	bar.Sync(sel.Current())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	return Model{
		db:      opts.DB,
		server:  opts.Server,
		cat:     &types.Catalog{},
		sel:     sel,
		bar:     bar,
		row:     row,
		loop:    loop,
		hub:     hub,
		now:     now,
		list:    viewport.New(0, 0),
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: sp,
		loading: opts.DB != nil,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.db != nil {
		cmds = append(cmds, loadCatalog(m.db))
	}
	if m.loop != nil {
		cmds = append(cmds, waitForDeadline(m.loop))
	}
	if m.server != nil {
		cmds = append(cmds, listenWebSocket(m.server), startWSServer(m.server))
	}
	return tea.Batch(cmds...)
}

// Close tears the tab bar down and stops deadline delivery. It is safe to
// call more than once.
func (m Model) Close() {
	m.bar.Teardown()
	if m.loop != nil {
		m.loop.Close()
	}
}

func loadCatalog(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		cat, err := storage.LoadCatalog(db)
		return catalogLoadedMsg{cat: cat, err: err}
	}
}

func waitForDeadline(loop *emphasis.LoopScheduler) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-loop.Fired():
			return emphasisDeadlineMsg{fire: f}
		case <-loop.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	if m.quitting {
		return m, cmd
	}
	syncCmd := m.syncSelection()
	return m, tea.Batch(cmd, syncCmd)
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.hub.Publish(screen.Size{Width: msg.Width, Height: msg.Height})
		m.resizeList()
		return nil

	case emphasisDeadlineMsg:
		msg.fire()
		return waitForDeadline(m.loop)

	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			applog.Error("tui.load_catalog", msg.err)
			m.err = msg.err
			return nil
		}
		m.err = nil
		m.setCatalog(msg.cat)
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case wsDisconnectedMsg:
		// ListenAndServe returned, e.g. the port was taken.
		m.status = fmt.Sprintf("live feed stopped on :%d", m.server.Port())
		return nil

	case wsSnapshotMsg, wsArtistMsg, wsArtistRemovedMsg, wsReviewMsg, wsHelpfulMsg, wsSelectMsg, wsErrorMsg:
		return tea.Batch(m.handleLive(msg), listenWebSocket(m.server))
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.detail {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Detail):
			m.detail = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeList()
	case key.Matches(msg, m.keys.Prev):
		m.step(-1)
	case key.Matches(msg, m.keys.Next):
		m.step(1)
	case key.Matches(msg, m.keys.All):
		m.bar.Select("")
	case key.Matches(msg, m.keys.Nth):
		n := int(msg.String()[0] - '0')
		if n <= len(m.cat.Artists) {
			m.bar.Select(m.cat.Artists[n-1].ID)
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshList()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.shownReviews())-1 {
			m.cursor++
			m.refreshList()
		}
	case key.Matches(msg, m.keys.Detail):
		if len(m.shownReviews()) > 0 {
			m.detail = true
		}
	case key.Matches(msg, m.keys.Reload):
		if m.db == nil {
			return nil
		}
		m.loading = true
		return tea.Batch(loadCatalog(m.db), m.spinner.Tick)
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.detail {
		return nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
		(msg.Y == tabTopRow || msg.Y == tabTextRow) {
		if id, ok := m.bar.TabAt(msg.X); ok {
			m.bar.Select(id)
		}
		return nil
	}
	if msg.Y >= headerRows {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.Close()
	return tea.Quit
}

// step moves the selection by delta tabs, wrapping around.
func (m *Model) step(delta int) {
	ids := make([]string, 0, len(m.cat.Artists)+1)
	ids = append(ids, "")
	for _, a := range m.cat.Artists {
		ids = append(ids, a.ID)
	}
	cur := 0
	for i, id := range ids {
		if id == m.sel.Current() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(ids)) % len(ids)
	m.bar.Select(ids[next])
}

// syncSelection hands the current selection to the tab bar after every
// update. A change scrolls the row, moves the pill and resets the list.
func (m *Model) syncSelection() tea.Cmd {
	cur := m.sel.Current()
	if cur == m.bar.Selected() {
		return nil
	}
	m.row.selected = cur
	m.bar.Relayout()
	m.bar.Sync(cur)
	m.cursor = 0
	m.detail = false
	m.list.GotoTop()
	m.refreshList()
	return m.announceSelection()
}

func (m *Model) setCatalog(cat *types.Catalog) {
	m.cat = cat
	m.catalogChanged()
}

func (m *Model) catalogChanged() {
	m.row.artists = m.cat.Artists
	m.bar.Relayout()
	m.refreshList()
}

func (m *Model) shownReviews() []types.Review {
	return reviews.Filter(m.cat.Reviews, m.sel.Current())
}

func (m *Model) heading() string {
	if a, ok := m.cat.FindArtist(m.sel.Current()); ok {
		return reviews.Heading(&a)
	}
	return reviews.Heading(nil)
}

func (m *Model) footer() string {
	status := ""
	if m.status != "" {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(" " + m.status)
	}
	return m.help.View(m.keys) + "\n" + status
}

func (m *Model) resizeList() {
	if m.width == 0 {
		return
	}
	m.list.Width = max(m.width-4, 1)
	// heading line and bottom border
	m.list.Height = max(m.height-headerRows-2-lipgloss.Height(m.footer()), 1)
	m.refreshList()
}

func (m *Model) refreshList() {
	shown := m.shownReviews()
	if m.cursor >= len(shown) {
		m.cursor = max(len(shown)-1, 0)
	}
	content, starts := renderCards(shown, m.cursor, m.list.Width, m.now())
	m.list.SetContent(content)
	m.starts = starts
	if m.cursor < len(starts) {
		top := starts[m.cursor]
		if top < m.list.YOffset || top >= m.list.YOffset+m.list.Height {
			m.list.SetYOffset(top)
		}
	}
}

func (m *Model) liveStatus() string {
	if m.server == nil {
		return fmt.Sprintf("%d stylists · %d reviews", len(m.cat.Artists), len(m.cat.Reviews))
	}
	if m.server.Connected() {
		return fmt.Sprintf("Live ● front desk on :%d", m.server.Port())
	}
	return fmt.Sprintf("Live ○ waiting on :%d", m.server.Port())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading && len(m.cat.Artists) == 0 {
		return fmt.Sprintf("\n  %s Loading reviews...\n", m.spinner.View())
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press 'r' to retry, 'q' to quit.\n", m.err)
	}
	if m.width == 0 {
		return ""
	}

	if m.detail {
		shown := m.shownReviews()
		if m.cursor < len(shown) {
			r := shown[m.cursor]
			artist := r.ArtistID
			if a, ok := m.cat.FindArtist(r.ArtistID); ok {
				artist = a.Name
			}
			return renderDetail(r, artist, m.width, m.height)
		}
	}

	navbar := renderNavbar("Our Stylists", m.liveStatus(), m.width)

	span, visible := m.bar.Indicator()
	left := m.bar.Container().Left + span.Offset
	pill := pillView{
		left:       left,
		right:      left + span.Size - 1,
		visible:    visible && span.Size > 0,
		emphasized: m.bar.Emphasizing(),
	}
	row := renderTabRow(m.row, pill, m.width, rowStyles(pill.emphasized))

	// Box heading: "Mia S. Reviews" with the last word accented, average on the right.
	inner := max(m.width-4, 1)
	h := m.heading()
	title := lipgloss.NewStyle().Foreground(ink).Render(strings.TrimSuffix(h, "Reviews")) +
		lipgloss.NewStyle().Italic(true).Foreground(accent).Render("Reviews")
	avg := lipgloss.NewStyle().Bold(true).Foreground(ink).Render("★ " + reviews.Average(m.shownReviews()))
	gap := max(inner-lipgloss.Width(title)-lipgloss.Width(avg), 1)
	headingLine := title + strings.Repeat(" ", gap) + avg

	borderColor := cardBorder
	if pill.emphasized {
		borderColor = accent
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 2).
		Render(headingLine + "\n" + m.list.View())

	return lipgloss.JoinVertical(lipgloss.Left, navbar, row, box, m.footer())
}
