package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/session"
)

const frameRate = 50 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	cellStyle     = lipgloss.NewStyle().Width(11).Align(lipgloss.Center)
	playerStyle   = cellStyle.Foreground(lipgloss.Color("#5FAFFF"))
	enemyStyle    = cellStyle.Foreground(lipgloss.Color("#FF5F5F"))
	obstacleStyle = cellStyle.Foreground(lipgloss.Color("#6C6C6C"))
	activeStyle   = lipgloss.NewStyle().Reverse(true)
	hitStyle      = lipgloss.NewStyle().Background(lipgloss.Color("#AF0000")).Bold(true)
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

var baseCmds = []string{
	"move to: ", "shoot at: ", "wait", "pass", "retreat", "help", "exit",
	"cast clone at: ", "cast teleport at: ", "cast fireball at: ", "cast lightning at: ",
	"cast freeze at: ", "cast resurrect at: ", "cast turn undead at: ",
}

type tickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type battleModel struct {
	sess        *session.Session
	title       string
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	hit         *engine.Pos
	last        time.Time
	width       int
	height      int
	showList    bool
}

func newBattleModel(sess *session.Session, title string) battleModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., move to: 1 0)..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 60

	welcome := "To arms! Type 'help' for the list of commands."
	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return battleModel{
		sess:        sess,
		title:       title,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *battleModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickEvery())
}

func (m *battleModel) updateSuggestions() {
	val := strings.ToLower(m.textInput.Value())
	var items []list.Item
	if val != "" {
		for _, c := range baseCmds {
			if strings.HasPrefix(c, val) && len(val) < len(c) {
				items = append(items, suggestion(c))
			}
		}
	}
	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		m.suggestions.SetHeight(max(4, min(len(items), 8)))
		m.suggestions.ResetSelected()
	}
}

func (m *battleModel) appendLog(line string) {
	if line == "" {
		return
	}
	m.logContent += "\n" + line
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *battleModel) show(events []engine.Event) {
	for _, evt := range events {
		switch e := evt.(type) {
		case *engine.HitShownEvent:
			at := e.At
			m.hit = &at
		case *engine.HitHiddenEvent:
			m.hit = nil
		case *engine.ModeChangedEvent:
			if e.Mode == engine.CursorShoot {
				m.textInput.Placeholder = "Select a target: move to: X Y"
			} else {
				m.textInput.Placeholder = "Enter command (e.g., move to: 1 0)..."
			}
			m.appendLog(e.Message())
		case *engine.BattleEndedEvent:
			m.appendLog(e.Message())
			m.textInput.Placeholder = "Press enter to leave the field"
		default:
			m.appendLog(evt.Message())
		}
	}
}

func (m *battleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		var dt time.Duration
		if !m.last.IsZero() {
			dt = now.Sub(m.last)
		}
		m.last = now
		events, err := m.sess.Tick(dt)
		m.show(events)
		if err != nil {
			m.appendLog(fmt.Sprintf("Error: %v", err))
		}
		return m, tickEvery()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
			}

		case tea.KeyTab:
			if i, ok := m.suggestions.SelectedItem().(suggestion); ok && m.showList {
				m.textInput.SetValue(string(i))
				m.textInput.SetCursor(len(string(i)))
				m.updateSuggestions()
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" || m.sess.Battle().Outcome() != nil {
				return m, tea.Quit
			}
			if val == "" {
				break
			}
			if len(m.history) == 0 || m.history[len(m.history)-1] != val {
				m.history = append(m.history, val)
			}
			m.historyIdx = -1
			m.textInput.SetValue("")
			m.updateSuggestions()

			m.appendLog("> " + val)
			events, err := m.sess.Execute(val)
			m.show(events)
			// rejections already arrived as a status event
			if err != nil && !engine.IsRejection(err) {
				m.appendLog(fmt.Sprintf("Error: %v", err))
			}

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2
	}
	overhead := lipgloss.Height(titleStyle.Render("Dummy")) +
		lipgloss.Height(m.renderField()) +
		listAreaHeight + 1 + lipgloss.Height(infoStyle.Render("Dummy")) + 4
	m.viewport.Height = max(4, m.height-overhead)

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *battleModel) renderCell(b *engine.Battle, p engine.Pos) string {
	terrain := b.Terrain()
	u := b.UnitAt(p)
	var cell string
	switch {
	case terrain.Blocked(p):
		cell = obstacleStyle.Render("#####")
	case u == nil:
		cell = cellStyle.Render("·")
	default:
		label := fmt.Sprintf("%.7s %d", u.Name(), u.Count)
		style := playerStyle
		if u.Team == engine.TeamEnemy {
			style = enemyStyle
		}
		cell = style.Render(label)
		if u.Ref() == b.Active() && b.Outcome() == nil {
			cell = activeStyle.Render(cell)
		}
	}
	if m.hit != nil && *m.hit == p {
		cell = hitStyle.Render(cell)
	}
	return cell
}

func (m *battleModel) renderGrid(b *engine.Battle) string {
	header := []string{"  "}
	for x := 0; x < engine.GridWidth; x++ {
		header = append(header, cellStyle.Render(fmt.Sprint(x)))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for y := 0; y < engine.GridHeight; y++ {
		cells := []string{fmt.Sprintf("%d ", y)}
		for x := 0; x < engine.GridWidth; x++ {
			cells = append(cells, m.renderCell(b, engine.Pos{X: x, Y: y}))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *battleModel) renderRoster(b *engine.Battle) string {
	var sb strings.Builder
	for _, team := range []engine.Team{engine.TeamPlayer, engine.TeamEnemy} {
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(team.String())))
		for _, u := range b.Units(team) {
			flags := ""
			if u.Frozen {
				flags += " frozen"
			}
			if u.OutOfControl {
				flags += " rebel"
			}
			if u.Flying {
				flags += " aloft"
			}
			ammo := ""
			if u.Species.CanShoot() {
				ammo = fmt.Sprintf(" ammo %d", u.Ammo)
			}
			sb.WriteString(fmt.Sprintf(" %d %-10s x%-4d hp %d/%d%s%s\n",
				u.Slot, u.Name(), u.Count, u.HP-u.Injury, u.HP, ammo, flags))
		}
	}
	return sb.String()
}

func (m *battleModel) renderStatus(b *engine.Battle) string {
	if o := b.Outcome(); o != nil {
		return fmt.Sprintf("Battle over: %s", o.Result)
	}
	active := "-"
	if u := b.ActiveUnit(); u != nil {
		active = fmt.Sprintf("%s (%s)", u.Name(), u.Team)
	}
	var spells []string
	for id := engine.SpellIDClone; id <= engine.SpellIDTurnUndead; id++ {
		if n := b.World().Spells[id]; n > 0 {
			spells = append(spells, fmt.Sprintf("%s %d", id, n))
		}
	}
	cast := "none"
	if len(spells) > 0 {
		cast = strings.Join(spells, ", ")
	}
	if b.SpellUsed() {
		cast += " (used this round)"
	}
	return fmt.Sprintf("Round %d | %s to act | %s | Spells: %s", b.Round(), active, b.Mode(), cast)
}

func (m *battleModel) renderField() string {
	b := m.sess.Battle()
	field := lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(b), "   ", m.renderRoster(b))
	return stateBoxStyle.Width(max(20, m.width-4)).Render(field + "\n\n" + m.renderStatus(b))
}

func (m *battleModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf(" Warband | %s ", m.title))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderField(),
		logBox,
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// RunBattleTUI drives the session from an interactive terminal until the
// player quits.
func RunBattleTUI(sess *session.Session, title string) error {
	m := newBattleModel(sess, title)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
