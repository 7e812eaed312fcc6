package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bcdxn/carrera/internal/domain"
	"github.com/bcdxn/carrera/internal/race"
	"github.com/bcdxn/carrera/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	defaultWidth = 80
	minWidth     = 40
)

var (
	s = styles.Default()
)

// NewTrack returns the Bubbletea program that shows the race and, unless configured as a
// spectator, lets the user create a grid and run or pause it.
func NewTrack(opts ...TUIOption) *tea.Program {
	t := newTrack(opts...)
	return tea.NewProgram(t, tea.WithContext(t.ctx), tea.WithAltScreen())
}

func newTrack(opts ...TUIOption) Track {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = s.Yellow

	t := Track{
		logger:   slog.Default(),
		ctx:      context.Background(),
		interval: race.DefaultTickInterval,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
	}
	// apply given options
	for _, opt := range opts {
		opt(&t)
	}
	if t.race == nil && !t.spectator {
		t.race = race.New(race.WithLogger(t.logger))
	}
	return t.refresh()
}

type TUIOption = func(t *Track)

// WithRace configures the race driven by the TUI; the caller keeps the pointer to persist it.
func WithRace(r *race.Race) TUIOption {
	return func(t *Track) { t.race = r }
}

// WithLogger configures the logger to use within the TUI program
func WithLogger(l *slog.Logger) TUIOption {
	return func(t *Track) { t.logger = l }
}

// WithContext configures the context to use within the TUI program
func WithContext(ctx context.Context) TUIOption {
	return func(t *Track) { t.ctx = ctx }
}

// WithTickInterval configures the delay between two race ticks.
func WithTickInterval(d time.Duration) TUIOption {
	return func(t *Track) { t.interval = d }
}

// WithPublisher registers a function that receives a snapshot after every change to the race.
func WithPublisher(publish func(race.Snapshot)) TUIOption {
	return func(t *Track) { t.publish = publish }
}

// WithSpectator makes the TUI read-only; snapshots arrive through SnapshotMsg.
func WithSpectator() TUIOption {
	return func(t *Track) { t.spectator = true }
}

/* Bubbletea Interface Implementation
------------------------------------------------------------------------------------------------- */

func (t Track) Init() tea.Cmd {
	return nil
}

func (t Track) View() string {
	if t.err != "" {
		return s.Doc.Render(t.err)
	}
	width := t.trackWidth()
	v := lipgloss.JoinVertical(
		lipgloss.Left,
		titleView(t, width),
		statusView(t, width),
		lanesView(t, width),
		finishView(t),
		t.standings.View(),
		t.help.View(t.keys),
	)
	return s.Doc.Render(v)
}

func (t Track) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyMsg(t, msg)
	case tea.WindowSizeMsg:
		return handleWindowSizeMsg(t, msg)
	case TickMsg:
		return handleTickMsg(t, msg)
	case SnapshotMsg:
		return handleSnapshotMsg(t, msg)
	case DoneMsg:
		return handleDoneMsg(t, msg)
	case spinner.TickMsg:
		if !t.snapshot.Running {
			return t, nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return t, cmd
	}
	return t, nil
}

// Snapshot returns the race as currently displayed.
func (t Track) Snapshot() race.Snapshot {
	return t.snapshot
}

/* Tea Mesage Types
------------------------------------------------------------------------------------------------- */

// TickMsg asks the race to advance. Loop identifies the run that scheduled it; ticks scheduled by
// an earlier run are dropped so that pausing and resuming never doubles the pace.
type TickMsg struct {
	Loop int
	Time time.Time
}

// SnapshotMsg replaces the displayed race; used in spectator mode.
type SnapshotMsg race.Snapshot

// DoneMsg signals that the source of snapshots has gone away.
type DoneMsg struct {
	Err error
}

/* Tea Commands
------------------------------------------------------------------------------------------------- */

func tickCmd(loop int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(now time.Time) tea.Msg {
		return TickMsg{Loop: loop, Time: now}
	})
}

/* Tea Mesage handlers
------------------------------------------------------------------------------------------------- */

func handleKeyMsg(t Track, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, t.keys.Quit):
		t.logger.Debug("received quit tea message")
		return t, tea.Quit
	case key.Matches(msg, t.keys.Create):
		t.race.Create()
		t.loop++
		return t.refresh(), nil
	case key.Matches(msg, t.keys.Run):
		if t.race.Running() {
			t.race.Pause()
			return t.refresh(), nil
		}
		if !t.race.Start() {
			return t, nil
		}
		t.loop++
		t = t.refresh()
		return t, tea.Batch(tickCmd(t.loop, t.interval), t.spinner.Tick)
	}
	return t, nil
}

func handleTickMsg(t Track, msg TickMsg) (tea.Model, tea.Cmd) {
	if t.race == nil || msg.Loop != t.loop || !t.race.Running() {
		return t, nil
	}
	if arrived := t.race.Tick(); len(arrived) > 0 {
		t.logger.Debug("vehicles arrived", "names", arrived)
	}
	t = t.refresh()
	if t.race.Running() {
		return t, tickCmd(t.loop, t.interval)
	}
	return t, nil
}

func handleSnapshotMsg(t Track, msg SnapshotMsg) (tea.Model, tea.Cmd) {
	wasRunning := t.snapshot.Running
	t.snapshot = race.Snapshot(msg)
	t = t.refresh()
	if t.snapshot.Running && !wasRunning {
		return t, t.spinner.Tick
	}
	return t, nil
}

func handleDoneMsg(t Track, msg DoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		t.logger.Error("race feed closed", "err", msg.Err)
		t.err = fmt.Sprintf("race feed closed: %v (press q to quit)", msg.Err)
		return t, nil
	}
	return t, tea.Quit
}

func handleWindowSizeMsg(t Track, msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	h, _ := s.Doc.GetFrameSize()
	t.width = msg.Width - h
	t.help.Width = t.width
	return t, nil
}

/* View Helper Functions
------------------------------------------------------------------------------------------------- */

func titleView(t Track, width int) string {
	title := "CARRERA"
	if id := t.snapshot.RaceID; id != "" {
		title = fmt.Sprintf("%s · %s", title, shortID(id))
	}
	if t.spectator {
		title += " · spectating"
	}
	return s.TitleBar.Width(width).Render(title)
}

func statusView(t Track, width int) string {
	var status string
	switch {
	case len(t.snapshot.Vehicles) == 0 && t.spectator:
		status = "waiting for a race..."
	case len(t.snapshot.Vehicles) == 0:
		status = "press c to line up a grid"
	case t.snapshot.Running:
		status = fmt.Sprintf("%s racing · tick %d", t.spinner.View(), t.snapshot.Tick)
	case t.snapshot.Complete():
		status = s.Green.Render(fmt.Sprintf("🏁 race complete in %d ticks 🏁", t.snapshot.Tick))
	default:
		status = fmt.Sprintf("paused · tick %d", t.snapshot.Tick)
	}
	return s.SubtitleBar.Width(width).Render(status)
}

func lanesView(t Track, width int) string {
	lanes := make([]string, 0, len(t.snapshot.Vehicles))
	for _, v := range t.snapshot.Vehicles {
		lanes = append(lanes, laneView(v, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lanes...)
}

// laneView places the vehicle proportionally to its position between the start of the lane and
// the finish line drawn on the right edge.
func laneView(v domain.Vehicle, width int) string {
	badge := s.Badge.Background(lipgloss.Color(v.Color.Hex())).Render(strconv.Itoa(v.ID))
	runner := lipgloss.JoinHorizontal(
		lipgloss.Center,
		badge, " ", v.Kind.Glyph(), " ", s.VehicleName.Render(v.Name),
	)
	laneWidth := width - 1
	travel := max(laneWidth-lipgloss.Width(runner), 0)
	offset := travel * v.Position / domain.FinishLine
	lane := lipgloss.PlaceHorizontal(laneWidth, lipgloss.Left, strings.Repeat(" ", offset)+runner)
	return s.Lane.Render(lipgloss.JoinHorizontal(lipgloss.Top, lane, s.FinishLine.Render("┃")))
}

func finishView(t Track) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		s.FinishTitle.Render("FINISH"),
		s.FinishBody.Render(strings.Join(t.snapshot.FinishOrder, ", ")),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// refresh re-reads the race after a change, publishes it and updates everything derived from it.
func (t Track) refresh() Track {
	if t.race != nil {
		t.snapshot = t.race.Snapshot()
		if t.publish != nil {
			t.publish(t.snapshot)
		}
	}
	driving := !t.spectator && t.race != nil
	t.keys.Create.SetEnabled(driving)
	t.keys.Run.SetEnabled(driving && len(t.snapshot.Vehicles) > 0 && !t.snapshot.Complete())
	if t.snapshot.Running {
		t.keys.Run.SetHelp("r/space", "pause")
	} else {
		t.keys.Run.SetHelp("r/space", "run")
	}
	t.standings = standingsTable(t.snapshot)
	return t
}

func (t Track) trackWidth() int {
	if t.width <= 0 {
		return defaultWidth
	}
	return max(t.width, minWidth)
}

func standingsTable(snap race.Snapshot) table.Model {
	byName := make(map[string]domain.Vehicle, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		byName[v.Name] = v
	}
	rows := make([]table.Row, 0, len(snap.FinishOrder))
	for i, name := range snap.FinishOrder {
		v := byName[name]
		pos := table.NewStyledCell(i+1, lipgloss.NewStyle())
		if i == 0 {
			pos = table.NewStyledCell(i+1, s.Yellow)
		}
		rows = append(rows, table.NewRow(table.RowData{
			"position": pos,
			"id":       v.ID,
			"name":     name,
			"kind":     v.Kind.String(),
		}))
	}
	return table.New([]table.Column{
		table.NewColumn("position", "POS", 5),
		table.NewColumn("id", "#", 4),
		table.NewColumn("name", "NAME", 14).WithStyle(lipgloss.NewStyle().Align(lipgloss.Left)),
		table.NewColumn("kind", "KIND", 11),
	}).
		WithRows(rows).
		WithBaseStyle(lipgloss.NewStyle().AlignHorizontal(lipgloss.Center))
}

/* Type Definitions
------------------------------------------------------------------------------------------------- */

type Track struct {
	race      *race.Race
	snapshot  race.Snapshot
	loop      int
	interval  time.Duration
	spectator bool
	publish   func(race.Snapshot)
	err       string
	width     int
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	standings table.Model
	logger    *slog.Logger
	ctx       context.Context
}
