package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultTable renders static tabular results: an optional title, a
// header row, and data rows with columns sized to their widest cell.
type ResultTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewResultTable creates a table with the given title and headers.
func NewResultTable(title string, headers ...string) *ResultTable {
	return &ResultTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow appends a data row.
func (t *ResultTable) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table. An empty table renders nothing.
func (t *ResultTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for i := range widths {
		widths[i] += 2 // cell padding
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	total := len(t.Headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(rowStyle.Width(widths[i]).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// KeyValueTable renders label/value pairs as two aligned columns, used
// for the comparison result.
type KeyValueTable struct {
	Title string
	rows  [][2]string
}

// NewKeyValueTable creates an empty key/value table.
func NewKeyValueTable(title string) *KeyValueTable {
	return &KeyValueTable{Title: title}
}

// Add appends one label/value pair.
func (t *KeyValueTable) Add(label, value string) {
	t.rows = append(t.rows, [2]string{label, value})
}

// View renders the pairs. An empty table renders nothing.
func (t *KeyValueTable) View(styles Styles) string {
	if len(t.rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, r := range t.rows {
		if w := lipgloss.Width(r[0]); w > labelWidth {
			labelWidth = w
		}
	}

	labelStyle := styles.Bold.Width(labelWidth + 2)
	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	for _, r := range t.rows {
		sb.WriteString(labelStyle.Render(r[0]))
		sb.WriteString(styles.Body.Render(r[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}
