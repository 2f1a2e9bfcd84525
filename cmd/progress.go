package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prajeetp/blackhole-cli/internal/application"
)

type batchDoneMsg struct{}

type batchProgressMsg struct {
	processed int
	total     int
}

type batchProgressModel struct {
	spinner   spinner.Model
	label     string
	run       tea.Cmd
	processed int
	total     int
	done      bool
}

func newBatchProgressModel(label string, total int, run tea.Cmd) batchProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return batchProgressModel{
		spinner: s,
		label:   label,
		total:   total,
		run:     run,
	}
}

func (m batchProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m batchProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case batchProgressMsg:
		m.processed = msg.processed
		m.total = msg.total
		return m, nil
	case batchDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m batchProgressModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s %d/%d", m.spinner.View(), m.label, m.processed, m.total)
}

// runBatchProgress drives run under a live spinner that counts completed
// units. run receives the progress callback to report through.
func runBatchProgress(ctx context.Context, output io.Writer, label string, total int, run func(context.Context, application.ProgressFunc)) error {
	var p *tea.Program

	runCmd := func() tea.Msg {
		run(ctx, func(processed, total int) {
			p.Send(batchProgressMsg{processed: processed, total: total})
		})
		return batchDoneMsg{}
	}

	p = tea.NewProgram(
		newBatchProgressModel(label, total, runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if _, ok := finalModel.(batchProgressModel); !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return nil
}
