// Package tui implements the interactive result browser used by
// `medfind search --interactive`: evaluated queries can be stepped through
// and their ranked documents scrolled without rerunning the session.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vbatista/medfind/internal/search"
)

// QueryResult is one evaluated query together with its ranked documents
// and, when ground truth was available, its evaluation metrics.
type QueryResult struct {
	Query      string
	Results    []search.Result
	Metrics    search.Metrics
	HasMetrics bool
}

// Model holds the browser state.
type Model struct {
	queries []QueryResult
	current int
	cursor  int
	width   int
	height  int
}

// NewModel creates a browser over the session's evaluated queries.
func NewModel(queries []QueryResult) Model {
	return Model{queries: queries}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Run opens the browser and blocks until the user quits.
func Run(queries []QueryResult) error {
	_, err := tea.NewProgram(NewModel(queries), tea.WithAltScreen()).Run()
	return err
}
