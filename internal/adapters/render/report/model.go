// Package report renders batch reports and retrieved portal tables for the
// terminal.
package report

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prajeetp/blackhole-cli/internal/application"
	"github.com/prajeetp/blackhole-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	report application.BatchReport
	rows   []domain.Row
	opts   RenderOptions
	styles styles
	output string
}

func newModel(report application.BatchReport, rows []domain.Row, opts RenderOptions) model {
	return model{
		report: report,
		rows:   rows,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.report, m.rows, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces the terminal view for a finished batch. rows carries the
// merged table for retrieval batches and is nil otherwise.
func Render(report application.BatchReport, rows []domain.Row, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(report, rows, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
