package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// report is the result of a command. JSON output marshals the report itself.
type report interface {
	// table returns the rows of the table rendering.
	table() tableData
	// text returns the plain rendering without a trailing newline.
	text() string
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableData struct {
	headers []string
	rows    [][]string
	aligns  []columnAlignment
	footer  string // printed under the table
}

// render formats r in the requested format, always ending with a newline.
func render(r report, format OutputFormat) (string, error) {
	switch format {
	case JSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return string(data) + "\n", nil
	case Text:
		out := r.text()
		if out == "" {
			return "", nil
		}
		return out + "\n", nil
	default:
		t := r.table()
		out := renderTable(t.headers, t.rows, t.aligns)
		if t.footer != "" {
			out += "\n" + t.footer
		}
		return out + "\n", nil
	}
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// ellipsize shortens s to at most n runes on one line.
func ellipsize(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
