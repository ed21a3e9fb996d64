// Package repl implements the interactive configuration shell. Each input
// line is parsed as a configuration statement and merged into the session
// tree, with fuzzy completion over the known symbol and method names.
package repl

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pressmark/parsecfg/cfg"
	"github.com/pressmark/parsecfg/legacy"
	"github.com/pressmark/parsecfg/pkg"
)

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func helpMessage() string {
	return `
Commands (prefix with ':'):

  :help    Print this cruft
  :show    Print the session configuration tree
  :reset   Discard the session configuration tree
  :clear   Clear screen
  :quit    Exit

Usage:
  Type a configuration statement to merge it into the session tree
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Repl is the interactive shell command.
type Repl struct {
	Legacy  bool `default:"true" help:"Translate legacy method calls"                   negatable:""`
	Lenient bool `               help:"Drop unmatched closing braces instead of failing"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(pkg.CacheDir(), baseHistory))
	if err := history.Load(); err != nil {
		return err
	}

	m := newModel(ctx, r, history)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the shell.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	tree       cfg.Config
	registry   *cfg.Registry
	hook       cfg.Hook
	lenient    bool
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTabText string        // input text before tab-cycling began
	width      int           // terminal width for ellipsization
	quitting   bool
}

func newModel(ctx context.Context, r *Repl, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		tree:       cfg.Config{},
		registry:   cfg.DefaultRegistry(),
		lenient:    r.Lenient,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
	}

	if r.Legacy {
		m.hook = legacy.Hook(
			legacy.WithLogger(slog.New(slog.DiscardHandler)),
		)
	}

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a statement, or :help for commands",
		))
		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current tab candidate without executing.
			m.tabActive = false
			refreshMatches(&m)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			refreshMatches(&m)
		}

		return m, nil

	case tea.KeyRunes:
		// Space breaks out of tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) updates the input and
	// recomputes matches.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

func (m model) handleTab(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx += dir
		if m.suggIdx >= len(m.matches) {
			m.suggIdx = 0
		} else if m.suggIdx < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()

		if dir > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx <= 0 {
		return m, nil
	}

	m.historyIdx--

	entry, err := m.history.Entry(m.historyIdx)
	if err != nil {
		return m, nil
	}

	m.input.SetValue(entry)
	m.input.CursorEnd()
	m.tabActive = false
	m.matches = nil

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx >= m.history.Len() {
		return m, nil
	}

	m.historyIdx++

	if m.historyIdx == m.history.Len() {
		m.input.SetValue("")
		m.tabActive = false
		m.matches = nil

		return m, nil
	}

	entry, err := m.history.Entry(m.historyIdx)
	if err != nil {
		return m, nil
	}

	m.input.SetValue(entry)
	m.input.CursorEnd()
	m.tabActive = false
	m.matches = nil

	return m, nil
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	_, _ = m.history.Write(input)
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	m.matches = nil

	echoCmd := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))

	if strings.HasPrefix(input, ":") {
		return m.executeCommand(input, echoCmd)
	}

	return m.executeStatement(input, echoCmd)
}

func (m model) executeCommand(input string, echoCmd tea.Cmd) (model, tea.Cmd) {
	switch strings.TrimPrefix(strings.Fields(input)[0], ":") {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "s", "show":
		return m, tea.Sequence(echoCmd, tea.Println(m.renderTree()))

	case "r", "reset":
		m.tree = cfg.Config{}
		m.registry = cfg.DefaultRegistry()

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("Unknown command: "+input+" (try :help)"),
		))
	}
}

func (m model) executeStatement(input string, echoCmd tea.Cmd) (model, tea.Cmd) {
	var unused []*cfg.Statement

	opts := []cfg.Option{
		cfg.WithText(input),
		cfg.WithConfig(m.tree),
		cfg.WithRegistry(m.registry),
		cfg.WithUnused(&unused),
		cfg.WithLogger(slog.New(slog.DiscardHandler)),
	}

	if m.hook != nil {
		opts = append(opts, cfg.WithConvert(m.hook))
	}

	if m.lenient {
		opts = append(opts, cfg.WithLenientClosers())
	}

	tree, err := cfg.Parse(m.ctxFunc(), opts...)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	m.tree = tree

	lines := []tea.Cmd{echoCmd}
	for _, stmt := range unused {
		lines = append(lines, tea.Println(
			hintStyle.Render("not handled: "+stmt.String()),
		))
	}

	lines = append(lines, tea.Println(m.renderTree()))

	return m, tea.Sequence(lines...)
}

// renderTree formats the session tree as YAML for display.
func (m model) renderTree() string {
	if len(m.tree) == 0 {
		return hintStyle.Render("{}")
	}

	data, err := yaml.Marshal(m.tree)
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return resultStyle.Render(strings.TrimRight(string(data), "\n"))
}
