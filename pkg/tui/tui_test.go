package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherolroses/Transport/pkg/config"
	"github.com/Sherolroses/Transport/pkg/engine"
)

func newModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Telemetry.Disabled = true
	eng, err := engine.New(context.Background(),
		engine.WithConfig(cfg),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return NewModel(eng)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

// submit types line, presses enter and feeds the command result back.
func submit(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.running)

	var last tea.Cmd
	for _, msg := range collect(cmd) {
		if r, ok := msg.(resultMsg); ok {
			m, last = update(t, m, r)
		}
	}
	return m, last
}

func TestConsoleRunsCommands(t *testing.T) {
	m := newModel(t)

	m, _ = submit(t, m, "path 0 3 8")
	view := m.View()
	assert.False(t, m.running)
	assert.Contains(t, view, "0 -> 3 | Total adjusted distance: 15")
	assert.Contains(t, view, "path 0 3 8")
}

func TestConsoleShowsErrors(t *testing.T) {
	m := newModel(t)

	m, _ = submit(t, m, "neighbors 99")
	assert.Contains(t, m.View(), "error:")
	assert.Contains(t, m.View(), "not found")
}

func TestMutationRefreshesHUD(t *testing.T) {
	m := newModel(t)
	assert.Contains(t, m.View(), "Intersections")

	m, _ = submit(t, m, `add-node 7 "Sea Point"`)
	assert.Equal(t, 5, m.snap.Len())
	assert.Contains(t, m.View(), "Intersection 7 added.")
}

func TestHistoryRecall(t *testing.T) {
	m := newModel(t)
	m, _ = submit(t, m, "network")
	m, _ = submit(t, m, "components")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "components", m.input.Value())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "network", m.input.Value())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "components", m.input.Value())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, m.input.Value())
}

func TestQuitCommand(t *testing.T) {
	m := newModel(t)
	m, cmd := submit(t, m, "quit")
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestNetworkViewInspect(t *testing.T) {
	m := newModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ViewStateNetwork, m.state)
	view := m.View()
	for _, name := range []string{"CapeTown_CBD(0)", "Observatory(1)", "Claremont(3)"} {
		assert.Contains(t, view, name)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateConsole, m.state)
	assert.Equal(t, "neighbors 1", m.input.Value())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, msg := range collect(cmd) {
		if r, ok := msg.(resultMsg); ok {
			m, _ = update(t, m, r)
		}
	}
	assert.Contains(t, m.View(), "Neighbors of Observatory(1):")
}

func TestWindow(t *testing.T) {
	start, end := window(0, 5, 10)
	assert.Equal(t, []int{0, 5}, []int{start, end})

	start, end = window(9, 10, 4)
	assert.Equal(t, []int{6, 10}, []int{start, end})

	start, end = window(5, 20, 4)
	assert.Equal(t, []int{3, 7}, []int{start, end})
}
