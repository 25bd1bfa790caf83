// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/task-cli/internal/tasks"
)

// Source is the task data the viewer displays.
type Source interface {
	Read() ([]tasks.Task, error)
	Path() string
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	tickInterval time.Duration
}

// WithTickInterval sets how often the task file is re-read.
func WithTickInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// RunTUI starts the read-only task viewer on out. out must be a terminal.
func RunTUI(ctx context.Context, src Source, out io.Writer, opts ...TUIOption) error {
	c := &tuiConfig{
		tickInterval: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(out) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(src, c.tickInterval)
	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	}
	program := tea.NewProgram(model, programOpts...)
	_, err := program.Run()
	return err
}

type tuiModel struct {
	src          Source
	loadErr      error
	data         *tuiData
	tickInterval time.Duration
	filter       tasks.Status // Filter by status
	showHelp     bool         // Show help screen
	showTimes    bool         // Show timestamps next to tasks
}

type tuiData struct {
	all    []tasks.Task
	counts map[tasks.Status]int
	other  int
	recent []tasks.Task
}

type tickMsg time.Time

func newTUIModel(src Source, tickInterval time.Duration) *tuiModel {
	return &tuiModel{
		src:          src,
		tickInterval: tickInterval,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "t":
			m.showTimes = !m.showTimes
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.filter = tasks.StatusTodo
		case "2":
			m.filter = tasks.StatusInProgress
		case "3":
			m.filter = tasks.StatusDone
		case "0":
			m.filter = ""
		}
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.data == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.data)
	writeTasks(&b, tasks.FilterByStatus(m.data.all, m.filter), m.showTimes)
	writeRecent(&b, m.data, m.filter)
	b.WriteString(fmt.Sprintf("Task File: %s\n\n", m.src.Path()))
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	all, err := m.src.Read()
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	m.loadErr = nil
	m.data = buildTUIData(all)
}

func buildTUIData(all []tasks.Task) *tuiData {
	data := &tuiData{
		all:    all,
		counts: tasks.CountByStatus(all),
	}
	for status, n := range data.counts {
		if !status.IsCanonical() {
			data.other += n
		}
	}

	sorted := make([]tasks.Task, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt.Time)
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	data.recent = sorted

	return data
}

func writeTitle(b *strings.Builder) {
	title := "task-cli"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, data *tuiData) {
	b.WriteString("Task Overview\n\n")
	b.WriteString(fmt.Sprintf("  Todo: %d  In progress: %d  Done: %d",
		data.counts[tasks.StatusTodo],
		data.counts[tasks.StatusInProgress],
		data.counts[tasks.StatusDone],
	))
	if data.other > 0 {
		b.WriteString(fmt.Sprintf("  Other: %d", data.other))
	}
	b.WriteString("\n\n")
}

func writeTasks(b *strings.Builder, list []tasks.Task, showTimes bool) {
	b.WriteString("Tasks\n\n")
	if len(list) == 0 {
		b.WriteString("  No tasks found\n\n")
		return
	}
	for _, task := range list {
		b.WriteString(formatTask(task, showTimes))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeRecent(b *strings.Builder, data *tuiData, filter tasks.Status) {
	if filter != "" {
		return
	}
	b.WriteString("Recently Updated\n\n")
	if len(data.recent) == 0 {
		b.WriteString("  Nothing yet.\n\n")
		return
	}
	for _, task := range data.recent {
		b.WriteString(formatTask(task, true))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  t            Toggle timestamps\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by in-progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func formatTask(t tasks.Task, showTimes bool) string {
	statusIcon := "?"
	switch t.Status {
	case tasks.StatusTodo:
		statusIcon = " "
	case tasks.StatusInProgress:
		statusIcon = ">"
	case tasks.StatusDone:
		statusIcon = "x"
	}

	line := fmt.Sprintf("  %s %s", statusIcon, t)
	if !showTimes {
		return line
	}
	return line + "  updated " + t.UpdatedAt.Local().Format("2006-01-02 15:04")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
