// Package report renders the end-of-suite summary of fixture outcomes as a
// lipgloss table.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/fixturerun/internal/coordinator"
	"github.com/agbru/fixturerun/internal/format"
	"github.com/agbru/fixturerun/internal/ui"
)

const maxErrorWidth = 60

// Column indexes.
const (
	colFixture = iota
	colItems
	colSetup
	colDuration
	colTeardown
	colError
)

// Cell values of the setup and teardown columns.
const (
	cellOK      = "ok"
	cellFailed  = "failed"
	cellPending = "pending"
	cellNone    = "-"
)

// Render writes the outcome table followed by a one-line teardown summary.
func Render(w io.Writer, summaries []coordinator.Summary, teardown coordinator.TeardownReport, theme ui.Theme) error {
	var sb strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Header)
	dim := lipgloss.NewStyle().Foreground(theme.Dim)

	sb.WriteString(title.Render("FIXTURES"))
	sb.WriteString("\n")

	if len(summaries) == 0 {
		sb.WriteString(dim.Render("no fixtures were set up"))
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	rows := Rows(summaries)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("FIXTURE", "ITEMS", "SETUP", "DURATION", "TEARDOWN", "ERROR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Bold(true).Foreground(theme.Header)
			}
			if row < 0 || row >= len(rows) {
				return base
			}
			switch col {
			case colSetup, colTeardown:
				return base.Foreground(cellColor(rows[row][col], theme))
			case colItems, colDuration:
				return base.Align(lipgloss.Right)
			case colError:
				return base.Foreground(theme.Dim)
			}
			return base
		})

	sb.WriteString(t.String())
	sb.WriteString("\n")
	sb.WriteString(dim.Render(summaryLine(summaries, teardown)))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Rows converts summaries to table rows without styling.
func Rows(summaries []coordinator.Summary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		o := s.Outcome
		setup := cellOK
		errText := ""
		if !o.Success() {
			setup = cellFailed
			errText = format.Truncate(o.Err.Error(), maxErrorWidth)
		}

		teardown := cellNone
		if o.TeardownScheduled() {
			teardown = cellPending
			if done, err := o.TeardownResult(); done {
				teardown = cellOK
				if err != nil {
					teardown = cellFailed
					if errText == "" {
						errText = format.Truncate(err.Error(), maxErrorWidth)
					}
				}
			}
		}

		rows = append(rows, []string{
			o.Identity.String(),
			strconv.Itoa(s.Items),
			setup,
			format.FormatExecutionDuration(o.Duration()),
			teardown,
			errText,
		})
	}
	return rows
}

func summaryLine(summaries []coordinator.Summary, teardown coordinator.TeardownReport) string {
	failed := 0
	items := 0
	for _, s := range summaries {
		items += s.Items
		if !s.Outcome.Success() {
			failed++
		}
	}
	return fmt.Sprintf("%d fixtures (%d failed) for %d items; teardown: %d ok, %d failed, %d skipped, %d not ready",
		len(summaries), failed, items,
		teardown.Succeeded, teardown.Failed, teardown.Skipped, teardown.NotReady)
}

func cellColor(cell string, theme ui.Theme) lipgloss.TerminalColor {
	switch cell {
	case cellOK:
		return theme.Success
	case cellFailed:
		return theme.Error
	case cellPending:
		return theme.Warning
	default:
		return theme.Dim
	}
}
