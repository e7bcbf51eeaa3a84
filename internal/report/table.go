package report

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"chartsync/internal/aggregate"
)

// Column describes one table column. Numeric columns are right aligned,
// header included.
type Column struct {
	Header  string
	Numeric bool
}

// Text builds a left-aligned column.
func Text(header string) Column { return Column{Header: header} }

// Number builds a right-aligned column.
func Number(header string) Column { return Column{Header: header, Numeric: true} }

// Table renders rows under columns with rounded borders. Headers keep their
// case. Missing trailing cells render empty and extra cells are dropped.
func Table(columns []Column, rows [][]string) string {
	return render(columns, rows, nil)
}

func render(columns []Column, rows [][]string, footer []string) string {
	if len(columns) == 0 {
		return ""
	}

	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		align := text.AlignLeft
		if col.Numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: align}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		tw.AppendRow(pad(row, len(columns)))
	}
	if footer != nil {
		tw.AppendFooter(pad(footer, len(columns)))
	}
	return tw.Render()
}

func pad(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// CountsTable renders per-artist counts, most frequent first, with a total
// footer. A positive limit keeps only the first limit artists; the total
// still covers all of them.
func CountsTable(counts aggregate.Counts, limit int) string {
	shown := counts
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, 0, len(shown))
	for _, entry := range shown {
		rows = append(rows, []string{entry.Name, strconv.Itoa(entry.Count)})
	}
	footer := []string{"Total", strconv.Itoa(counts.Total())}
	return render([]Column{Text("Artist"), Number("Songs")}, rows, footer)
}
