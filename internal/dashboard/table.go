package dashboard

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteTable prints the rows as a terminal table. Sub-texts follow the main
// text on a second line of the cell.
func WriteTable(w io.Writer, headers []Header, rows []Row) error {
	table := tablewriter.NewWriter(w)

	titles := make([]any, 0, len(headers))
	for _, h := range headers {
		titles = append(titles, h.Label+indicator(h.Class))
	}
	table.Header(titles...)

	for _, row := range rows {
		if err := table.Append(tableCells(row)...); err != nil {
			return fmt.Errorf("table.Append: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("table.Render: %w", err)
	}

	return nil
}

func tableCells(row Row) []any {
	cells := make([]any, len(Columns))
	for i := range cells {
		cells[i] = ""
	}

	if row.IsMessage() {
		cells[0] = row.Message
		return cells
	}

	for i, c := range row.Cells {
		text := c.Text
		if c.Badge != "" {
			text = "[" + c.Badge + "] " + text
		}
		if c.SubText != "" {
			text += "\n" + c.SubText
		}
		cells[i] = text
	}

	return cells
}

func indicator(class string) string {
	switch class {
	case "sort-asc":
		return " ▲"
	case "sort-desc":
		return " ▼"
	default:
		return ""
	}
}
