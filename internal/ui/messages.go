package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	SuccessSymbol = "✓"
	ErrorSymbol   = "✗"
	InfoSymbol    = "ℹ"
	WarningSymbol = "⚠"
	BulletSymbol  = "•"
)

// PrintTitle prints a section title.
func PrintTitle(title string) {
	fmt.Fprintln(out, render(TitleStyle, title))
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Fprintln(out, render(SuccessStyle.Bold(true), SuccessSymbol+" "+message))
}

// PrintError prints an error message in a box, wrapped to the terminal.
func PrintError(message string) {
	text := ErrorSymbol + " Error: " + wordwrap.String(message, TerminalWidth()-6)
	if IsPlain() {
		fmt.Fprintln(out, text)
		return
	}
	fmt.Fprintln(out, BoxStyle.BorderForeground(ErrorStyle.GetForeground()).
		Render(ErrorStyle.Bold(true).Render(text)))
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Fprintln(out, render(WarningStyle.Bold(true), WarningSymbol+" "+wordwrap.String(message, TerminalWidth()-2)))
}

// PrintInfo prints a label and an optional value.
func PrintInfo(label, value string) {
	if value == "" {
		fmt.Fprintf(out, "%s %s\n", render(InfoStyle, InfoSymbol), render(DimStyle.Bold(true), label))
		return
	}
	fmt.Fprintf(out, "%s %s %s\n",
		render(InfoStyle, InfoSymbol),
		render(DimStyle.Bold(true), label),
		render(InfoStyle, value))
}

// PrintLink prints a description and a URL.
func PrintLink(description, url string) {
	fmt.Fprintf(out, "  %s %s %s\n", BulletSymbol, description, render(LinkStyle, url))
}

// PrintParagraph prints text wrapped to the terminal width.
func PrintParagraph(text string) {
	fmt.Fprintln(out, wordwrap.String(strings.TrimSpace(text), TerminalWidth()))
}

// Table is a formatted table with headers and rows.
type Table struct {
	Headers     []string
	Rows        [][]string
	ColumnWidth []int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	columnWidth := make([]int, len(headers))
	for i, h := range headers {
		columnWidth[i] = len(h) + 4
	}
	return &Table{
		Headers:     headers,
		Rows:        [][]string{},
		ColumnWidth: columnWidth,
	}
}

// AddRow adds a new row to the table. Missing trailing values are blank.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.Headers))
	copy(row, values)

	for i, v := range row {
		if len(v)+4 > t.ColumnWidth[i] {
			t.ColumnWidth[i] = len(v) + 4
		}
	}
	t.Rows = append(t.Rows, row)
}

// RenderTable renders the table with a header separator and alternating
// row colors.
func RenderTable(table *Table) string {
	format := ""
	for i, width := range table.ColumnWidth {
		format += fmt.Sprintf("%%-%ds", width)
		if i < len(table.ColumnWidth)-1 {
			format += " "
		}
	}

	header := fmt.Sprintf(format, toInterfaceSlice(table.Headers)...)
	rows := []string{
		render(TableHeaderStyle, header),
		render(DimStyle, strings.Repeat("─", len(header))),
	}
	for i, row := range table.Rows {
		style := TableRowStyle
		if i%2 == 1 {
			style = style.Background(lipgloss.Color(AlternatingRowDark))
		}
		rows = append(rows, render(style, fmt.Sprintf(format, toInterfaceSlice(row)...)))
	}

	return "\n" + strings.Join(rows, "\n") + "\n"
}

// PrintTable writes a rendered table.
func PrintTable(table *Table) {
	fmt.Fprint(out, RenderTable(table))
}

func toInterfaceSlice(ss []string) []interface{} {
	is := make([]interface{}, len(ss))
	for i, s := range ss {
		is[i] = s
	}
	return is
}
