package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/prajeetp/blackhole-cli/internal/application"
	"github.com/prajeetp/blackhole-cli/internal/domain"
)

type RenderOptions struct {
	// FailuresOnly suppresses per-unit lines for successful units.
	FailuresOnly bool
}

func renderView(report application.BatchReport, rows []domain.Row, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Blackhole batch " + report.RunID),
		s.header.Render(report.Summary()),
		stateLine(report.State, s),
	}

	unitLines := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		if opts.FailuresOnly && res.Success {
			continue
		}
		unitLines = append(unitLines, unitLine(res, s))
	}
	if len(unitLines) > 0 {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, unitLines...)))
	}

	if rows != nil {
		lines = append(lines, s.section.Render(renderTable(rows, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func stateLine(state application.BatchState, s styles) string {
	switch state {
	case application.BatchCompleted:
		return s.success.Render("completed")
	case application.BatchAborted:
		return s.aborted.Render("aborted")
	default:
		return s.failure.Render("failed")
	}
}

func unitLine(res domain.Result, s styles) string {
	var marker string
	switch {
	case res.Success:
		marker = s.success.Render("ok  ")
	case res.Aborted():
		marker = s.aborted.Render("skip")
	default:
		marker = s.failure.Render("FAIL")
	}

	detail := res.Message
	if detail == "" {
		detail = fmt.Sprintf("status %d", res.StatusCode)
	}
	if res.Elapsed > 0 {
		detail = fmt.Sprintf("%s (%s)", detail, res.Elapsed.Round(time.Millisecond))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		" ",
		s.target.Render(res.TargetID),
		" ",
		s.detail.Render(detail),
	)
}

func renderTable(rows []domain.Row, s styles) string {
	if len(rows) == 0 {
		return s.empty.Render("No matching blackhole entries.")
	}

	widths := columnWidths(rows)
	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		style := s.tableCell
		if row.Header {
			style = s.tableHead
		}

		cells := make([]string, 0, len(widths))
		for i, width := range widths {
			text := ""
			if i < len(row.Cells) {
				text = row.Cells[i]
			}
			cells = append(cells, style.Width(width+2).Render(text))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func columnWidths(rows []domain.Row) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row.Cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			for _, line := range strings.Split(cell, "\n") {
				if w := lipgloss.Width(line); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}
