package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rawprouk/scrape/casestudy"
)

// Column widths for the terminal table, in Columns order.
var columnWidths = []int{40, 50, 50, 60}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)
	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

// renderTable renders studies as a bordered table with one line per study.
func renderTable(studies []casestudy.CaseStudy) string {
	rows := make([][]string, 0, len(studies))
	for _, study := range studies {
		cells := study.Row()
		for i := range cells {
			cells[i] = truncate(cells[i], columnWidths[i])
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(casestudy.Columns...).
		Rows(rows...)

	return t.String()
}
