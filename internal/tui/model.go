// Package tui is the interactive consumer of the scan stream: a bubbletea
// table over the discovered folders with selection, filtering, and the
// validated deletion flow.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/entro314-labs/claudesweep/internal/app"
	"github.com/entro314-labs/claudesweep/internal/history"
	"github.com/entro314-labs/claudesweep/internal/scanner"
	"github.com/entro314-labs/claudesweep/internal/trash"
)

// Options wires the TUI to its collaborators.
type Options struct {
	Scanner         *scanner.Scanner
	Backend         trash.Backend
	Method          trash.Method
	ConfirmDeletes  bool
	ShowProjectType bool
	ShowFilterBar   bool
	DefaultSort     app.SortOrder
	HistoryPath     string
	Logger          zerolog.Logger
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m := NewModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type scanStreamMsg struct {
	ID int
	Ch <-chan scanner.Event
}

type scanEventMsg struct {
	ID int
	Ch <-chan scanner.Event
	// Ev is nil when the stream closed without a CompleteEvent, which is
	// treated as an implicit complete.
	Ev scanner.Event
}

type scanPulseMsg struct{}

type deleteDoneMsg struct {
	Paths      []string
	TotalSize  uint64
	Err        error
	HistoryErr error
}

type confirmState struct {
	active bool
	paths  []string
	size   uint64
}

type model struct {
	table   table.Model
	spinner spinner.Model
	help    help.Model
	search  textinput.Model
	keys    keyMap

	state *app.State
	opts  Options

	confirm    confirmState
	searchMode bool
	filterBar  bool
	deleting   bool
	message    string

	width  int
	height int

	scanID       int
	scanStart    time.Time
	scanPulse    float64
	scanPulseDir float64
	scanProgress progress.Model

	baseCtx    context.Context
	baseCancel context.CancelFunc
	scanCtx    context.Context
	scanCancel context.CancelFunc
}

// NewModel builds the initial model; the scan starts from Init.
func NewModel(ctx context.Context, opts Options) model {
	baseCtx, baseCancel := context.WithCancel(ctx)
	scanCtx, scanCancel := context.WithCancel(baseCtx)

	t := table.New(
		table.WithColumns(defaultColumns(opts.ShowProjectType, 60)),
		table.WithFocused(true),
	)
	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(tableStyles)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	search := textinput.New()
	search.Placeholder = "search paths…"
	search.CharLimit = 120

	scanBar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
	)

	return model{
		table:        t,
		spinner:      sp,
		help:         help.New(),
		search:       search,
		keys:         newKeyMap(),
		state:        app.NewState(opts.DefaultSort),
		opts:         opts,
		filterBar:    opts.ShowFilterBar,
		scanID:       1,
		scanStart:    time.Now(),
		scanPulseDir: 1,
		scanProgress: scanBar,
		baseCtx:      baseCtx,
		baseCancel:   baseCancel,
		scanCtx:      scanCtx,
		scanCancel:   scanCancel,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, scanStartCmd(m.scanCtx, m.opts.Scanner, m.scanID), scanPulseCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.updateLayout(msg.Width, msg.Height)
	case spinner.TickMsg:
		if !m.state.ScanComplete || m.deleting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	case scanStreamMsg:
		if msg.ID != m.scanID {
			break
		}
		cmds = append(cmds, waitScanEvent(msg.ID, msg.Ch))
	case scanEventMsg:
		if msg.ID != m.scanID {
			break
		}
		cmds = append(cmds, m.applyScanEvent(msg)...)
	case scanPulseMsg:
		if !m.state.ScanComplete {
			m.scanPulse += 0.06 * m.scanPulseDir
			if m.scanPulse >= 1 {
				m.scanPulse = 1
				m.scanPulseDir = -1
			} else if m.scanPulse <= 0 {
				m.scanPulse = 0
				m.scanPulseDir = 1
			}
			cmds = append(cmds, scanPulseCmd())
		}
	case deleteDoneMsg:
		m.applyDeleteDone(msg)
	case tea.KeyMsg:
		handled, keyCmds, quit := m.handleKey(msg)
		cmds = append(cmds, keyCmds...)
		if quit {
			return m, tea.Quit
		}
		if handled {
			break
		}
	}

	if !m.confirm.active && !m.searchMode {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press. Confirm and search modes capture input
// before the normal keymap applies.
func (m *model) handleKey(msg tea.KeyMsg) (handled bool, cmds []tea.Cmd, quit bool) {
	if m.confirm.active {
		switch msg.String() {
		case "y", "Y":
			paths := m.confirm.paths
			size := m.confirm.size
			m.confirm = confirmState{}
			m.deleting = true
			m.message = fmt.Sprintf("Deleting %d folder(s)…", len(paths))
			cmds = append(cmds, m.spinner.Tick, deleteBatchCmd(m.opts, paths, size))
		case "n", "N", "esc":
			m.confirm = confirmState{}
			m.message = "Deletion cancelled"
		}
		return true, cmds, false
	}

	if m.searchMode {
		switch msg.String() {
		case "enter":
			m.state.SetSearch(m.search.Value())
			m.searchMode = false
			m.search.Blur()
			m.setTableRows()
		case "esc":
			m.searchMode = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)
		}
		return true, cmds, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.baseCancel()
		return true, nil, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ToggleSelect):
		m.state.ToggleSelectAt(m.table.Cursor())
		m.setTableRows()
		return true, nil, false
	case key.Matches(msg, m.keys.SelectAll):
		m.state.SelectAll()
		m.setTableRows()
	case key.Matches(msg, m.keys.SelectNone):
		m.state.SelectNone()
		m.setTableRows()
	case key.Matches(msg, m.keys.Delete):
		m.requestDelete(&cmds)
		return true, cmds, false
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.search.SetValue(m.state.Filter.Query)
		cmds = append(cmds, m.search.Focus())
		return true, cmds, false
	case key.Matches(msg, m.keys.Sort):
		m.state.CycleSort()
		m.setTableRows()
		m.message = fmt.Sprintf("Sorted by %s", m.state.Sort.Label())
	case key.Matches(msg, m.keys.FilterBar):
		m.filterBar = !m.filterBar
	case key.Matches(msg, m.keys.ClearFilters):
		m.state.ClearFilters()
		m.search.SetValue("")
		m.setTableRows()
		m.message = "Filters cleared"
	case key.Matches(msg, m.keys.Rescan):
		cmds = append(cmds, m.startRescan()...)
		return true, cmds, false
	}
	return false, cmds, false
}

func (m *model) requestDelete(cmds *[]tea.Cmd) {
	if m.deleting {
		return
	}
	selected := m.state.SelectedFolders()
	if len(selected) == 0 {
		m.message = "Nothing selected"
		return
	}

	paths := make([]string, 0, len(selected))
	var size uint64
	for _, folder := range selected {
		paths = append(paths, folder.Path)
		size += folder.SizeBytes
	}

	if m.opts.ConfirmDeletes {
		m.confirm = confirmState{active: true, paths: paths, size: size}
		return
	}
	m.deleting = true
	m.message = fmt.Sprintf("Deleting %d folder(s)…", len(paths))
	*cmds = append(*cmds, m.spinner.Tick, deleteBatchCmd(m.opts, paths, size))
}

func (m *model) applyScanEvent(msg scanEventMsg) []tea.Cmd {
	switch ev := msg.Ev.(type) {
	case scanner.ScanningEvent:
		m.state.SetScanning(ev.Path)
	case scanner.FoundEvent:
		m.state.AddFolder(ev.Folder)
		m.setTableRows()
		m.message = fmt.Sprintf("Found: %s", ev.Folder.Path)
	case scanner.CompleteEvent:
		m.completeScan()
		return nil
	default:
		// Closed channel without Complete: implicit completion.
		m.completeScan()
		return nil
	}
	return []tea.Cmd{waitScanEvent(msg.ID, msg.Ch)}
}

func (m *model) completeScan() {
	if !m.state.ScanComplete {
		m.state.CompleteScan()
		m.setTableRows()
		m.message = fmt.Sprintf("Scan complete: %d folder(s), %s",
			len(m.state.Folders), scanner.FormatSize(m.state.TotalSize()))
	}
}

func (m *model) applyDeleteDone(msg deleteDoneMsg) {
	m.deleting = false
	if msg.Err != nil {
		// The batch is not recorded; the folder set may be stale now,
		// so point the operator at rescan.
		m.message = fmt.Sprintf("Error: %v — press r to rescan", msg.Err)
		return
	}

	m.state.RemoveDeleted(msg.Paths)
	m.setTableRows()

	verb := "Moved to Trash"
	if m.opts.Method == trash.MethodPermanent {
		verb = "Deleted"
	}
	m.message = fmt.Sprintf("%s %d folder(s). %s reclaimed.",
		verb, len(msg.Paths), scanner.FormatSize(msg.TotalSize))
	if msg.HistoryErr != nil {
		m.opts.Logger.Warn().Err(msg.HistoryErr).Msg("failed to record deletion history")
		m.message += " (history not recorded)"
	}
}

func (m *model) startRescan() []tea.Cmd {
	m.scanCancel()
	ctx, cancel := context.WithCancel(m.baseCtx)
	m.scanCtx = ctx
	m.scanCancel = cancel
	m.scanID++
	m.state = app.NewState(m.state.Sort)
	m.scanStart = time.Now()
	m.scanPulse = 0
	m.scanPulseDir = 1
	m.message = "Scanning…"
	m.setTableRows()
	return []tea.Cmd{m.spinner.Tick, scanStartCmd(ctx, m.opts.Scanner, m.scanID), scanPulseCmd()}
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading…"
	}

	content := ui.base.Render(m.table.View())
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		content,
		m.statusView(),
		m.footerView(),
	)
	return ui.container.Render(view)
}

func (m *model) updateLayout(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	if width < 60 {
		width = 60
	}
	if height < 12 {
		height = 12
	}
	m.width = width
	m.height = height

	m.table.SetColumns(defaultColumns(m.opts.ShowProjectType, width))

	headerHeight := lipgloss.Height(m.headerView())
	statusHeight := lipgloss.Height(m.statusView())
	footerHeight := lipgloss.Height(m.footerView())
	available := max(height-headerHeight-statusHeight-footerHeight-4, 5)
	m.table.SetHeight(available)
	m.table.SetWidth(width - 4)
	m.scanProgress.Width = max(width-28, 20)
}

func defaultColumns(showProjectType bool, width int) []table.Column {
	sizeWidth := 10
	modifiedWidth := 12
	markWidth := 4
	projectWidth := 0
	if showProjectType {
		projectWidth = 12
	}
	pathWidth := max(width-sizeWidth-modifiedWidth-markWidth-projectWidth-12, 24)

	columns := []table.Column{
		{Title: " ", Width: markWidth},
		{Title: "Path", Width: pathWidth},
		{Title: "Size", Width: sizeWidth},
	}
	if showProjectType {
		columns = append(columns, table.Column{Title: "Project", Width: projectWidth})
	}
	columns = append(columns, table.Column{Title: "Modified", Width: modifiedWidth})
	return columns
}

func (m *model) setTableRows() {
	indices := m.state.VisibleIndices()
	rows := make([]table.Row, 0, len(indices))
	for _, idx := range indices {
		folder := m.state.Folders[idx]
		mark := " "
		if folder.Selected {
			mark = ui.accent.Render("●")
		}
		modified := "-"
		if folder.ModifiedAt != nil {
			modified = folder.ModifiedAt.Format("2006-01-02")
		}
		row := table.Row{mark, folder.Path, folder.SizeDisplay()}
		if m.opts.ShowProjectType {
			row = append(row, folder.ProjectType)
		}
		row = append(row, modified)
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
}

func (m model) headerView() string {
	title := ui.title.Render("claudesweep")
	subtitle := ui.subtitle.Render("Find and delete " + scanner.MarkerName + " directories")
	root := ui.muted.Render(fmt.Sprintf("Root: %s", m.opts.Scanner.Root))
	method := ui.chip.Render(string(m.opts.Method))
	line := lipgloss.JoinHorizontal(lipgloss.Left, title, " ", method)
	return ui.header.Render(lipgloss.JoinVertical(lipgloss.Left, line,
		lipgloss.JoinHorizontal(lipgloss.Left, subtitle, " · ", root)))
}

func (m model) statusView() string {
	if m.searchMode {
		return ui.status.Render("Search: " + m.search.View())
	}

	if !m.state.ScanComplete {
		elapsed := time.Since(m.scanStart).Truncate(100 * time.Millisecond)
		current := m.state.ScanningPath
		if current == "" {
			current = "…"
		}
		line := fmt.Sprintf("%s Scanning %s · found %d · total %s · %s",
			m.spinner.View(), current, len(m.state.Folders),
			scanner.FormatSize(m.state.TotalSize()), elapsed)
		bar := m.scanProgress.ViewAs(m.scanPulse)
		return lipgloss.JoinVertical(lipgloss.Left, ui.status.Render(line), ui.muted.Render(bar))
	}

	parts := []string{
		fmt.Sprintf("Folders: %d", m.state.VisibleCount()),
		fmt.Sprintf("Total: %s", scanner.FormatSize(m.state.TotalSize())),
		fmt.Sprintf("Selected: %d (%s)", m.state.SelectedCount(), scanner.FormatSize(m.state.SelectedSize())),
		fmt.Sprintf("Sort: %s", m.state.Sort.Label()),
	}
	if m.state.Filter.Active() {
		parts = append(parts, ui.warning.Render("filtered"))
	}
	lines := []string{ui.status.Render(strings.Join(parts, " · "))}
	if m.filterBar {
		lines = append(lines, ui.muted.Render(m.filterBarView()))
	}
	if m.deleting {
		lines = append(lines, ui.muted.Render(m.spinner.View()+" deleting…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m model) filterBarView() string {
	query := m.state.Filter.Query
	if query == "" {
		query = "(none)"
	}
	return fmt.Sprintf("Filter · query: %s · min size: %s",
		query, scanner.FormatSize(m.state.Filter.MinSize))
}

func (m model) footerView() string {
	if m.confirm.active {
		verb := "move to Trash"
		banner := ui.confirm
		if m.opts.Method == trash.MethodPermanent {
			verb = "PERMANENTLY delete"
			banner = ui.danger
		}
		label := fmt.Sprintf("Really %s %d folder(s), %s? (y/n)",
			verb, len(m.confirm.paths), scanner.FormatSize(m.confirm.size))
		return banner.Render(label)
	}
	if m.message != "" {
		return lipgloss.JoinVertical(lipgloss.Left, ui.muted.Render(m.message), m.help.View(m.keys))
	}
	return m.help.View(m.keys)
}

func scanStartCmd(ctx context.Context, s *scanner.Scanner, id int) tea.Cmd {
	return func() tea.Msg {
		return scanStreamMsg{ID: id, Ch: s.Scan(ctx)}
	}
}

func waitScanEvent(id int, ch <-chan scanner.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return scanEventMsg{ID: id, Ch: ch, Ev: nil}
		}
		return scanEventMsg{ID: id, Ch: ch, Ev: ev}
	}
}

// deleteBatchCmd re-validates and executes the batch, then records it in
// history on full success. Validation failures and execution errors leave
// history untouched.
func deleteBatchCmd(opts Options, paths []string, totalSize uint64) tea.Cmd {
	return func() tea.Msg {
		if err := trash.ValidateBatch(paths); err != nil {
			return deleteDoneMsg{Err: err}
		}
		if err := trash.Delete(opts.Backend, paths, opts.Method); err != nil {
			return deleteDoneMsg{Err: err}
		}

		var historyErr error
		log, loadErr := history.Load(opts.HistoryPath)
		if loadErr != nil {
			opts.Logger.Warn().Err(loadErr).Msg("history unreadable; starting a fresh log")
		}
		log.Add(history.NewRecord(paths, totalSize, opts.Method))
		historyErr = log.Save()

		return deleteDoneMsg{Paths: paths, TotalSize: totalSize, HistoryErr: historyErr}
	}
}

func scanPulseCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return scanPulseMsg{}
	})
}
