package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type replTheme struct {
	prompt  lipgloss.Style
	result  lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	title   lipgloss.Style
	keyName lipgloss.Style
	panel   lipgloss.Style
}

func newREPLTheme() replTheme {
	accent := lipgloss.Color("#3B82F6")
	muted := lipgloss.Color("#6B7280")
	return replTheme{
		prompt:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		result:  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		muted:   lipgloss.NewStyle().Foreground(muted),
		title:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		keyName: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}

var theme = newREPLTheme()

// transcriptLine is one evaluated input and what it produced. Completion
// listings are recorded with an empty input.
type transcriptLine struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	session     *replSession
	history     []transcriptLine
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	showStack   bool
	quitting    bool
	initialized bool
}

type replKeyMap struct {
	quit, clear, prev, next, complete, eval key.Binding
	help, vars, stack                       key.Binding
}

var replKeys = replKeyMap{
	quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	prev:     key.NewBinding(key.WithKeys("up")),
	next:     key.NewBinding(key.WithKeys("down")),
	complete: key.NewBinding(key.WithKeys("tab")),
	eval:     key.NewBinding(key.WithKeys("enter")),
	help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	stack:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "stack")),
}

func newREPLModel(session *replSession) replModel {
	ti := textinput.New()
	ti.Prompt = "PS> "
	ti.PromptStyle = theme.prompt
	ti.Placeholder = "1 2 add ="
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	return replModel{
		textInput:  ti,
		session:    session,
		historyIdx: -1,
		showStack:  true,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleKey(msg tea.KeyMsg) (replModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, replKeys.quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, replKeys.clear):
		m.history = nil
	case key.Matches(msg, replKeys.help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, replKeys.vars):
		m.showVars = !m.showVars
	case key.Matches(msg, replKeys.stack):
		m.showStack = !m.showStack
	case key.Matches(msg, replKeys.prev):
		m.recall(-1)
	case key.Matches(msg, replKeys.next):
		m.recall(1)
	case key.Matches(msg, replKeys.complete):
		m = m.handleAutocomplete()
	case key.Matches(msg, replKeys.eval):
		return m.submit()
	default:
		return m, nil, false
	}
	return m, nil, true
}

// recall walks the command history. Moving past the newest entry clears
// the input.
func (m *replModel) recall(delta int) {
	if len(m.cmdHistory) == 0 {
		return
	}
	switch {
	case m.historyIdx == -1 && delta < 0:
		m.historyIdx = len(m.cmdHistory) - 1
	case m.historyIdx == -1:
		return
	default:
		m.historyIdx = max(m.historyIdx+delta, 0)
	}
	if m.historyIdx >= len(m.cmdHistory) {
		m.historyIdx = -1
		m.textInput.SetValue("")
	} else {
		m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	}
	m.textInput.CursorEnd()
}

func (m replModel) submit() (replModel, tea.Cmd, bool) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil, true
	}
	m.textInput.SetValue("")
	m.historyIdx = -1

	if strings.HasPrefix(input, ":") {
		next, cmd := m.handleCommand(input)
		return next, cmd, true
	}

	output, isErr := m.session.eval(input)
	m.history = append(m.history, transcriptLine{input: input, output: output, isErr: isErr})
	m.cmdHistory = append(m.cmdHistory, input)
	return m, nil, true
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	result := m.session.command(input)
	switch {
	case result.quit:
		m.quitting = true
		return m, tea.Quit
	case result.toggle == "help":
		m.showHelp = !m.showHelp
	case result.toggle == "vars":
		m.showVars = !m.showVars
	case result.toggle == "stack":
		m.showStack = !m.showStack
	case result.toggle == "clear":
		m.history = nil
	default:
		m.history = append(m.history, transcriptLine{input: input, output: result.output, isErr: result.isErr})
	}
	return m, nil
}

// handleAutocomplete completes the word before the cursor against primitive
// and global names. A leading '/' is kept so name literals complete too.
func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	fields := strings.Fields(input)
	if len(fields) == 0 || strings.HasSuffix(input, " ") {
		return m
	}

	word := fields[len(fields)-1]
	prefix, stem := "", word
	if strings.HasPrefix(word, "/") {
		prefix, stem = "/", word[1:]
	}

	matches := m.session.completions(stem)
	switch len(matches) {
	case 0:
	case 1:
		m.textInput.SetValue(strings.TrimSuffix(input, word) + prefix + matches[0])
		m.textInput.CursorEnd()
	default:
		m.history = append(m.history, transcriptLine{output: "Completions: " + strings.Join(matches, ", ")})
	}
	return m
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return theme.muted.Render("Goodbye!\n")
	}

	var panels []string
	if m.showStack {
		panels = append(panels, stackPanel(m.session.stackLine()))
	}
	if m.showVars {
		panels = append(panels, varsPanel(m.session.vars()))
	}
	if m.showHelp {
		panels = append(panels, helpPanel())
	}

	panelLines := 0
	for _, p := range panels {
		panelLines += lipgloss.Height(p)
	}

	var b strings.Builder
	b.WriteString(theme.title.Padding(0, 1).Render("pscript REPL") + " " + theme.muted.Render(m.session.status()) + "\n")
	b.WriteString(theme.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")
	b.WriteString(m.transcript(max(m.height-panelLines-6, 1)))
	for _, p := range panels {
		b.WriteString(p + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\n")
	b.WriteString(keyHints(replKeys.help, replKeys.vars, replKeys.stack, replKeys.clear, replKeys.quit))
	return b.String()
}

// transcript renders the newest history entries that fit in lines rows;
// every entry takes up to three.
func (m replModel) transcript(lines int) string {
	start := max(len(m.history)-lines/3, 0)
	var b strings.Builder
	for _, entry := range m.history[start:] {
		if entry.input != "" {
			b.WriteString(theme.muted.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + theme.failure.Render("✗ "+entry.output) + "\n\n")
		} else {
			b.WriteString("  " + theme.result.Render("→ "+entry.output) + "\n\n")
		}
	}
	return b.String()
}

func keyHints(bindings ...key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, theme.keyName.Render(h.Key)+theme.muted.Render(" "+h.Desc))
	}
	return strings.Join(hints, "  ")
}

func stackPanel(stack string) string {
	return theme.panel.Render(theme.title.Render("Stack") + " " + stack)
}

func varsPanel(vars []string) string {
	if len(vars) == 0 {
		return theme.panel.Render(theme.muted.Render("No global bindings"))
	}
	lines := []string{theme.title.Render("Globals")}
	for _, binding := range vars {
		name, value, _ := strings.Cut(binding, " = ")
		lines = append(lines, fmt.Sprintf("  %s = %s", theme.keyName.Render(name), value))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func helpPanel() string {
	lines := []string{theme.title.Render("Help")}
	for _, h := range replHelp {
		lines = append(lines, fmt.Sprintf("  %s  %s", theme.keyName.Render(fmt.Sprintf("%-8s", h.key)), theme.muted.Render(h.desc)))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func runREPL(session *replSession) error {
	_, err := tea.NewProgram(newREPLModel(session), tea.WithAltScreen()).Run()
	return err
}
