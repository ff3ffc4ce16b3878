package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and state transitions
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		if len(m.queries) == 0 {
			return m, nil
		}

		switch msg.String() {
		case "left", "h", "p":
			if m.current > 0 {
				m.current--
				m.cursor = 0
			}

		case "right", "l", "n":
			if m.current < len(m.queries)-1 {
				m.current++
				m.cursor = 0
			}

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.queries[m.current].Results)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if n := len(m.queries[m.current].Results); n > 0 {
				m.cursor = n - 1
			}
		}
	}

	return m, nil
}
