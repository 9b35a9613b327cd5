package presenter

import (
	"fmt"
	"sort"
	"strings"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// maxCellWidth caps every rendered cell; longer text is cut to 25
// characters plus an ellipsis marker.
const maxCellWidth = 28

var columnOrder = []string{
	"rank", "symbol", "name", "type", "quantity", "price",
	"avgPrice", "currentPrice", "change", "changePercent",
	"stockValue", "totalValue", "totalPnL", "timestamp", "id",
}

var columnTitles = map[string]string{
	"rank":          "Rank",
	"symbol":        "Symbol",
	"name":          "Name",
	"type":          "Type",
	"quantity":      "Qty",
	"price":         "Price",
	"avgPrice":      "Avg Price",
	"currentPrice":  "Cur Price",
	"change":        "Change",
	"changePercent": "Change %",
	"stockValue":    "Stock Value",
	"totalValue":    "Total Value",
	"totalPnL":      "PnL",
	"timestamp":     "Time",
	"id":            "ID",
}

func columnIndex(key string) int {
	for i, k := range columnOrder {
		if k == key {
			return i
		}
	}
	return len(columnOrder)
}

// columns returns the union of row keys, known columns first in their
// canonical order, anything else alphabetical after them.
func columns(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := columnIndex(keys[i]), columnIndex(keys[j])
		if ci != cj {
			return ci < cj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func truncate(s string) string {
	if len(s) > maxCellWidth {
		return s[:maxCellWidth-3] + "..."
	}
	return s
}

func pad(s string, width int) string {
	if len(s) < width {
		return s + strings.Repeat(" ", width-len(s))
	}
	return s
}

// signColor picks green for gains and red for losses.
func signColor(v float64) string {
	if v < 0 {
		return colorRed
	}
	return colorGreen
}

var integerColumns = map[string]bool{"rank": true, "quantity": true}

var signedColumns = map[string]bool{"change": true, "changePercent": true, "totalPnL": true}

// formatCell renders one value as text plus an optional ANSI color.
// Monetary values print with two decimals, counts as plain integers,
// gain/loss columns signed and colored.
func formatCell(key string, v interface{}) (string, string) {
	switch val := v.(type) {
	case nil:
		return "-", ""
	case string:
		return val, ""
	case bool:
		return fmt.Sprintf("%t", val), ""
	case float64:
		switch {
		case integerColumns[key]:
			return fmt.Sprintf("%.0f", val), ""
		case key == "changePercent":
			return fmt.Sprintf("%+.2f%%", val), signColor(val)
		case signedColumns[key]:
			return fmt.Sprintf("%+.2f", val), signColor(val)
		default:
			return fmt.Sprintf("%.2f", val), ""
		}
	default:
		return fmt.Sprintf("%v", val), ""
	}
}

// renderTable lays the rows out as aligned columns. Widths come from
// the longest header or cell per column, capped at maxCellWidth.
func renderTable(rows []map[string]interface{}) string {
	cols := columns(rows)
	if len(cols) == 0 {
		return ""
	}

	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		title := columnTitles[c]
		if title == "" {
			title = c
		}
		headers[i] = truncate(title)
		widths[i] = len(headers[i])
	}

	cells := make([][]string, len(rows))
	colors := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		colors[r] = make([]string, len(cols))
		for i, c := range cols {
			text, color := formatCell(c, row[c])
			text = truncate(text)
			cells[r][i] = text
			colors[r][i] = color
			if len(text) > widths[i] {
				widths[i] = len(text)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pad(h, widths[i]))
	}
	b.WriteString("\n")
	for i := range headers {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	b.WriteString("\n")

	for r := range cells {
		for i := range cols {
			if i > 0 {
				b.WriteString("  ")
			}
			cell := pad(cells[r][i], widths[i])
			if colors[r][i] != "" {
				cell = colors[r][i] + cell + colorReset
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// kvBlock aligns label/value pairs into one block.
func kvBlock(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(pad(p[0]+":", width+2))
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}
