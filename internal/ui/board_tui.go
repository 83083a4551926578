package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/planwing/planwing/models"
)

// Layout constants
const (
	boardDefaultWidth  = 80
	boardDefaultHeight = 20
	boardMinHeight     = 8
	boardChromeHeight  = 6 // header + separators + footer
)

// BoardSnapshot is one consistent read of the active planning session.
type BoardSnapshot struct {
	Goal models.Goal
	Plan models.Plan
}

// BoardLoader fetches the current snapshot from the store.
type BoardLoader func() (BoardSnapshot, error)

// BoardToggler flips a todo's completion state in the store.
type BoardToggler func(todoID string, isComplete bool) error

type boardLoadedMsg struct {
	snap BoardSnapshot
	err  error
}

type boardFileChangedMsg struct{}

// BoardModel is the live todo board. It re-reads the store whenever the
// data file changes on disk, so edits made through the MCP server show
// up without manual refreshing. Space toggles the selected todo.
type BoardModel struct {
	load     BoardLoader
	toggle   BoardToggler
	changes  <-chan struct{}
	viewport viewport.Model
	snap     BoardSnapshot
	err      error
	loaded   bool
	cursor   int
	width    int
	syncedAt time.Time
}

// NewBoardModel builds the board. A nil changes channel disables live
// refresh; 'r' still reloads manually. A nil toggler makes the board
// read-only.
func NewBoardModel(load BoardLoader, toggle BoardToggler, changes <-chan struct{}) BoardModel {
	return BoardModel{
		load:     load,
		toggle:   toggle,
		changes:  changes,
		viewport: viewport.New(boardDefaultWidth, boardDefaultHeight),
		width:    boardDefaultWidth,
	}
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshot, m.waitForChange)
}

func (m BoardModel) loadSnapshot() tea.Msg {
	snap, err := m.load()
	return boardLoadedMsg{snap: snap, err: err}
}

// waitForChange blocks until the watcher reports a data file change.
func (m BoardModel) waitForChange() tea.Msg {
	if m.changes == nil {
		return nil
	}
	if _, ok := <-m.changes; !ok {
		return nil
	}
	return boardFileChangedMsg{}
}

// toggleCurrent flips the selected todo and reloads the snapshot.
func (m BoardModel) toggleCurrent() tea.Cmd {
	if m.toggle == nil || len(m.snap.Plan.Todos) == 0 {
		return nil
	}
	todo := m.snap.Plan.Todos[m.cursor]
	return func() tea.Msg {
		if err := m.toggle(todo.ID, !todo.IsComplete); err != nil {
			return boardLoadedMsg{err: fmt.Errorf("toggle %s: %w", TruncateID(todo.ID), err)}
		}
		snap, err := m.load()
		return boardLoadedMsg{snap: snap, err: err}
	}
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - boardChromeHeight
		if m.viewport.Height < boardMinHeight {
			m.viewport.Height = boardMinHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.loadSnapshot
		case " ":
			return m, m.toggleCurrent()
		case "j", "down":
			if m.cursor < len(m.snap.Plan.Todos)-1 {
				m.cursor++
			}
			m.refreshViewport()
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			m.refreshViewport()
		case "g":
			m.cursor = 0
			m.refreshViewport()
		case "G":
			if n := len(m.snap.Plan.Todos); n > 0 {
				m.cursor = n - 1
			}
			m.refreshViewport()
		}
		return m, nil

	case boardFileChangedMsg:
		return m, tea.Batch(m.loadSnapshot, m.waitForChange)

	case boardLoadedMsg:
		m.snap = msg.snap
		m.err = msg.err
		m.loaded = true
		m.syncedAt = time.Now()
		if n := len(m.snap.Plan.Todos); m.cursor >= n {
			m.cursor = n - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshViewport re-renders the content and scrolls so the cursor row
// stays visible.
func (m *BoardModel) refreshViewport() {
	content, cursorLine := m.boardContent()
	m.viewport.SetContent(content)
	if cursorLine < 0 {
		return
	}
	if cursorLine < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}

// boardContent renders the goal panel and the todo rows, returning the
// line index of the cursor row (-1 when there is none).
func (m BoardModel) boardContent() (string, int) {
	if m.err != nil {
		return StyleError.Render("✗ " + m.err.Error()), -1
	}
	if !m.loaded {
		return StyleSubtle.Render("Loading..."), -1
	}

	var sb strings.Builder
	sb.WriteString(FormatGoalSummary(m.snap.Goal, m.snap.Plan))
	sb.WriteString("\n\n")

	todos := m.snap.Plan.Todos
	if len(todos) == 0 {
		sb.WriteString(StyleSubtle.Render("No todos yet. Save a plan or add todos to get started."))
		return sb.String(), -1
	}

	headerLines := strings.Count(sb.String(), "\n")
	cursorLine := headerLines + m.cursor

	for i, todo := range todos {
		marker := "  "
		title := StyleText.Render(Truncate(todo.Title, 70))
		if i == m.cursor {
			marker = StylePrimary.Render("▸ ")
			title = StyleTitle.Render(Truncate(todo.Title, 70))
		}
		sb.WriteString(fmt.Sprintf("%s%s %s %s\n",
			marker,
			StatusIcon(todo.IsComplete),
			ComplexityBadge(todo.Complexity),
			title))
	}

	return strings.TrimRight(sb.String(), "\n"), cursorLine
}

func (m BoardModel) View() string {
	var s strings.Builder

	s.WriteString(StyleHeader.Render("🪶 PlanWing Board"))
	if m.loaded && m.err == nil {
		s.WriteString(" " + StyleSubtle.Render("synced "+m.syncedAt.Format("15:04:05")))
	}
	s.WriteString("\n")

	sepWidth := m.width
	if sepWidth < 40 {
		sepWidth = 40
	}
	s.WriteString(StyleSubtle.Render(strings.Repeat("─", sepWidth)) + "\n")
	s.WriteString(m.viewport.View() + "\n")
	s.WriteString(StyleSubtle.Render(strings.Repeat("─", sepWidth)) + "\n")
	s.WriteString(StyleSubtle.Render("[space] toggle  [j/k] move  [g/G] top/bottom  [r] refresh  [q] quit"))
	s.WriteString("\n")
	return s.String()
}

// RunBoard opens the live board in the terminal until the user quits.
func RunBoard(load BoardLoader, toggle BoardToggler, watchPath string) error {
	var changes <-chan struct{}
	if watchPath != "" {
		// Watch failures degrade to manual refresh.
		if ch, closeWatch, err := WatchFile(watchPath); err == nil {
			changes = ch
			defer func() { _ = closeWatch() }()
		}
	}

	p := tea.NewProgram(NewBoardModel(load, toggle, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board UI failed: %w", err)
	}
	return nil
}
