// Package tui is the interactive full-screen front end of the command
// shell.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/shell"
)

type ViewState int

const (
	ViewStateConsole ViewState = iota
	ViewStateNetwork
)

const maxScrollback = 500

type Model struct {
	eng     shell.Engine
	sh      *shell.Shell
	input   textinput.Model
	spinner spinner.Model

	state    ViewState
	running  bool
	quitting bool
	width    int
	height   int

	lines   []string
	history []string
	histPos int

	snap   *graph.Snapshot
	cursor int // network view cursor
}

// resultMsg carries the output of one executed command line.
type resultMsg struct {
	line   string
	output string
	err    error
}

func NewModel(eng shell.Engine) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("route> ")
	ti.Placeholder = "help"
	ti.CharLimit = 256
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = special

	return Model{
		eng:     eng,
		sh:      shell.New(eng),
		input:   ti,
		spinner: s,
		state:   ViewStateConsole,
		snap:    eng.Network(context.Background()),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case resultMsg:
		m.running = false
		m.snap = m.eng.Network(context.Background())
		if m.cursor >= m.snap.Len() {
			m.cursor = max(m.snap.Len()-1, 0)
		}
		if out := strings.TrimRight(msg.output, "\n"); out != "" {
			m.appendLines(strings.Split(out, "\n")...)
		}
		if msg.err != nil {
			if errors.Is(msg.err, shell.ErrQuit) {
				m.quitting = true
				return m, tea.Quit
			}
			m.appendLines(danger.Render("error: " + msg.err.Error()))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.state == ViewStateConsole {
				m.state = ViewStateNetwork
			} else {
				m.state = ViewStateConsole
			}
			return m, nil
		}
		if m.state == ViewStateNetwork {
			return m.updateNetwork(msg)
		}
		return m.updateConsole(msg)
	}
	return m, nil
}

func (m Model) updateConsole(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		if line == "" || m.running {
			return m, nil
		}
		m.history = append(m.history, line)
		m.histPos = len(m.history)
		m.appendLines(promptStyle.Render("route> ") + line)
		m.input.Reset()
		m.running = true
		return m, tea.Batch(execLine(m.sh, line), m.spinner.Tick)
	case "up":
		if m.histPos > 0 {
			m.histPos--
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		}
		return m, nil
	case "down":
		if m.histPos < len(m.history)-1 {
			m.histPos++
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		} else {
			m.histPos = len(m.history)
			m.input.Reset()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateNetwork(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.snap.Len()-1 {
			m.cursor++
		}
	case "enter":
		if m.snap.Len() == 0 {
			return m, nil
		}
		m.input.SetValue(fmt.Sprintf("neighbors %d", m.snap.At(m.cursor).ID))
		m.input.CursorEnd()
		m.state = ViewStateConsole
	}
	return m, nil
}

func (m *Model) appendLines(lines ...string) {
	m.lines = append(m.lines, lines...)
	if over := len(m.lines) - maxScrollback; over > 0 {
		m.lines = m.lines[over:]
	}
}

func execLine(sh *shell.Shell, line string) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		err := sh.Exec(context.Background(), line, &buf)
		return resultMsg{line: line, output: buf.String(), err: err}
	}
}
