package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case ViewStateNetwork:
		body = m.viewNetwork()
	default:
		body = m.viewConsole()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHUD(),
		body,
		subtle.Render(m.footer()),
	)
}

func (m Model) viewHUD() string {
	stats := m.snap.Stats()
	item := func(label string, value any) string {
		return hudLabelStyle.Render(label) + hudValueStyle.Render(fmt.Sprint(value))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("SMARTROUTE"),
		item("Intersections", stats.Intersections), "  ",
		item("Routes", stats.Routes), "  ",
		item("Generation", m.snap.Generation()),
	)
	return hudStyle.Render(row)
}

// visible is the number of scrollback or list rows that fit on screen.
func (m Model) visible() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-8, 3)
}

func (m Model) viewConsole() string {
	s := strings.Builder{}
	lines := m.lines
	if n := m.visible(); len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		s.WriteString(l + "\n")
	}
	if m.running {
		s.WriteString(m.spinner.View() + " running\n")
	} else {
		s.WriteString(m.input.View() + "\n")
	}
	return s.String()
}

func (m Model) viewNetwork() string {
	s := strings.Builder{}
	if m.snap.Len() == 0 {
		return "\n   " + subtle.Render("No intersections.") + "\n"
	}

	s.WriteString(subtle.Render(fmt.Sprintf("  %-30s | %s", "INTERSECTION", "ROUTES")) + "\n")
	s.WriteString(subtle.Render("  "+strings.Repeat("─", 44)) + "\n")

	start, end := window(m.cursor, m.snap.Len(), m.visible()-6)
	for i := start; i < end; i++ {
		n := m.snap.At(i)
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "> "
			style = listSelectedStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("%s%-30s | %d", cursor, n.Label(), len(n.Edges))) + "\n")
	}

	s.WriteString(m.viewDetails())
	return s.String()
}

func (m Model) viewDetails() string {
	n := m.snap.At(m.cursor)
	s := strings.Builder{}
	s.WriteString(titleStyle.Render(n.Label()) + "\n")
	if len(n.Edges) == 0 {
		s.WriteString(subtle.Render("isolated"))
	}
	for i, e := range n.Edges {
		to := fmt.Sprintf("%d", e.To)
		if other, ok := m.snap.Node(e.To); ok {
			to = other.Label()
		}
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(fmt.Sprintf("-> %-28s %s", to, special.Render(fmt.Sprintf("%d", e.Weight))))
	}
	return detailsBoxStyle.Render(s.String()) + "\n"
}

// window keeps the cursor inside a page of size rows.
func window(cursor, total, size int) (int, int) {
	size = max(size, 1)
	if total <= size {
		return 0, total
	}
	start := max(cursor-size/2, 0)
	end := start + size
	if end > total {
		end = total
		start = end - size
	}
	return start, end
}

func (m Model) footer() string {
	if m.state == ViewStateNetwork {
		return "↑/↓ select • enter inspect • tab console • esc quit"
	}
	return "enter run • ↑/↓ history • tab network • esc quit"
}
