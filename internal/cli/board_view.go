package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/financeflow/flowdesk/internal/pipeline"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/spf13/cobra"
)

type boardLoadedMsg struct {
	projects []*domain.Project
	err      error
}

type projectMovedMsg struct {
	projectID string
	result    service.MoveResult
}

type boardKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveTo    key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "card")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "card")),
		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move right")),
		MoveTo:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "move to column")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Down, k.MoveLeft, k.MoveRight, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveLeft, k.MoveRight, k.MoveTo},
		{k.Reload, k.Help, k.Quit},
	}
}

// boardModel is the interactive kanban board. Moving a card writes the
// new stage and then shows whatever the store returns on reload.
type boardModel struct {
	ctx   context.Context
	app   *App
	scope domain.Scope

	projects []*domain.Project
	loaded   bool
	err      error
	notice   *service.Notice

	col    int
	row    int
	width  int
	height int

	keys boardKeyMap
	help help.Model
}

func newBoardModel(ctx context.Context, app *App, scope domain.Scope) boardModel {
	return boardModel{
		ctx:   ctx,
		app:   app,
		scope: scope,
		width: 120,
		keys:  defaultBoardKeys(),
		help:  help.New(),
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.load()
}

func (m boardModel) load() tea.Cmd {
	ctx, boards, scope := m.ctx, m.app.Boards, m.scope
	return func() tea.Msg {
		projects, err := boards.Load(ctx, scope)
		return boardLoadedMsg{projects: projects, err: err}
	}
}

func (m boardModel) move(p *domain.Project, to domain.Stage) tea.Cmd {
	ctx, boards := m.ctx, m.app.Boards
	req := service.MoveRequest{
		Scope:     m.scope,
		Projects:  m.projects,
		ProjectID: p.ID,
		From:      p.Status,
		To:        to,
	}
	return func() tea.Msg {
		return projectMovedMsg{projectID: req.ProjectID, result: boards.Move(ctx, req)}
	}
}

func (m boardModel) columns() map[domain.Stage][]*domain.Project {
	return pipeline.Columns(m.projects)
}

// selected returns the highlighted card, or nil when the column is empty.
func (m boardModel) selected() *domain.Project {
	cards := m.columns()[domain.Stages[m.col]]
	if m.row < 0 || m.row >= len(cards) {
		return nil
	}
	return cards[m.row]
}

func (m *boardModel) clampRow() {
	n := len(m.columns()[domain.Stages[m.col]])
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// focus puts the cursor on the project with id, if it is on the board.
func (m *boardModel) focus(id string) {
	for ci, st := range domain.Stages {
		for ri, p := range m.columns()[st] {
			if p.ID == id {
				m.col, m.row = ci, ri
				return
			}
		}
	}
	m.clampRow()
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case boardLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.projects = msg.projects
		}
		m.clampRow()
		return m, nil

	case projectMovedMsg:
		res := msg.result
		m.notice = res.Notice
		if res.Moved || res.Notice != nil {
			m.projects = res.Projects
		}
		m.focus(msg.projectID)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(domain.Stages) - 1
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		m.notice = nil
		return m, m.load()
	case key.Matches(msg, m.keys.MoveLeft):
		if p := m.selected(); p != nil && m.col > 0 {
			return m, m.move(p, domain.Stages[m.col-1])
		}
	case key.Matches(msg, m.keys.MoveRight):
		if p := m.selected(); p != nil && m.col < last {
			return m, m.move(p, domain.Stages[m.col+1])
		}
	case key.Matches(msg, m.keys.MoveTo):
		if p := m.selected(); p != nil {
			idx := int(msg.Runes[0] - '1')
			return m, m.move(p, domain.Stages[idx])
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < last {
			m.col++
			m.clampRow()
		}
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampRow()
	}
	return m, nil
}

func (m boardModel) View() string {
	if !m.loaded {
		return formatter.Dim("Loading board…")
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Board · "+m.scope.String()) + "\n")
	if m.err != nil {
		b.WriteString(formatter.Notice("Board unavailable", m.err.Error(), true) + "\n")
	}
	now := m.app.now()
	b.WriteString(formatter.FormatMetrics(pipeline.Compute(m.projects, now)) + "\n\n")

	cols := m.columns()
	colWidth := m.width/len(domain.Stages) - 1
	rendered := make([]string, 0, len(domain.Stages))
	for ci, st := range domain.Stages {
		sel := -1
		if ci == m.col {
			sel = m.row
		}
		rendered = append(rendered, formatter.RenderColumn(st, cols[st], sel, colWidth, ci == m.col, now))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")

	if m.notice != nil {
		b.WriteString(formatter.Notice(m.notice.Title, m.notice.Message, m.notice.Destructive) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func newBoardCmd(app *App) *cobra.Command {
	var agencyID string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scope, err := app.Boards.ResolveScope(ctx, agencyID)
			if err != nil {
				return err
			}

			if !app.Interactive {
				projects, err := app.Boards.Load(ctx, scope)
				if err != nil {
					return err
				}
				cmd.Println(formatter.FormatBoard(projects, 120, app.now()))
				return nil
			}

			_, err = tea.NewProgram(
				newBoardModel(ctx, app, scope),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			).Run()
			return err
		},
	}

	addAgencyFlag(cmd.Flags(), &agencyID)
	return cmd
}
