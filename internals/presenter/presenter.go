package presenter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Render turns a JSON API response into terminal output. It recognizes
// the shapes the API serves (error, auth user, portfolio, list data,
// trade result) and reports ok=false for anything else so the caller
// can fall back to plain JSON. Purely a display concern; it never
// touches stored data.
func Render(body []byte, path string) (string, bool) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		return "", false
	}

	if msg, ok := doc["error"].(string); ok {
		return colorRed + "Error: " + msg + colorReset + "\n", true
	}
	if user, ok := doc["user"].(map[string]interface{}); ok {
		return renderUser(doc, user, path), true
	}
	if p, ok := doc["portfolio"].(map[string]interface{}); ok {
		return renderPortfolio(doc, p), true
	}
	if data, ok := doc["data"].([]interface{}); ok {
		return renderRows(data)
	}
	if obj, ok := doc["data"].(map[string]interface{}); ok {
		return renderTable([]map[string]interface{}{obj}), true
	}
	if msg, ok := doc["message"].(string); ok {
		return renderMessage(doc, msg), true
	}
	return "", false
}

func renderRows(data []interface{}) (string, bool) {
	if len(data) == 0 {
		return "No entries.\n", true
	}
	rows := make([]map[string]interface{}, 0, len(data))
	for _, item := range data {
		row, ok := item.(map[string]interface{})
		if !ok {
			return "", false
		}
		rows = append(rows, row)
	}
	return renderTable(rows), true
}

func renderUser(doc, user map[string]interface{}, path string) string {
	title := "Logged in"
	if strings.HasSuffix(path, "/register") {
		title = "Account created"
	}

	var pairs [][2]string
	if name, ok := user["name"].(string); ok {
		pairs = append(pairs, [2]string{"Name", name})
	}
	if email, ok := user["email"].(string); ok {
		pairs = append(pairs, [2]string{"Email", email})
	}
	if id, ok := user["id"].(string); ok {
		pairs = append(pairs, [2]string{"User ID", id})
	}
	if p, ok := user["portfolio"].(map[string]interface{}); ok {
		if cash, ok := p["cash"].(float64); ok {
			pairs = append(pairs, [2]string{"Cash", fmt.Sprintf("%.2f", cash)})
		}
	}

	var b strings.Builder
	b.WriteString(colorGreen + title + colorReset + "\n\n")
	b.WriteString(kvBlock(pairs))
	if token, ok := doc["token"].(string); ok {
		// The full token, never truncated; the caller has to copy it.
		b.WriteString("\nToken: " + colorCyan + token + colorReset + "\n")
	}
	return b.String()
}

func renderPortfolio(doc, p map[string]interface{}) string {
	var b strings.Builder

	if cash, ok := p["cash"].(float64); ok {
		b.WriteString(fmt.Sprintf("Cash: %.2f\n", cash))
	}

	b.WriteString("\n" + colorYellow + "Holdings" + colorReset + "\n")
	if holdings, ok := p["holdings"].([]interface{}); ok && len(holdings) > 0 {
		if table, ok := renderRows(holdings); ok {
			b.WriteString(table)
		}
	} else {
		b.WriteString("No holdings.\n")
	}

	b.WriteString("\n" + colorYellow + "Transactions" + colorReset + "\n")
	if txns, ok := p["transactions"].([]interface{}); ok && len(txns) > 0 {
		if table, ok := renderRows(txns); ok {
			b.WriteString(table)
		}
	} else {
		b.WriteString("No transactions.\n")
	}

	if summary, ok := doc["summary"].(map[string]interface{}); ok {
		b.WriteString("\n")
		b.WriteString(renderSummary(summary))
	}
	return b.String()
}

func renderSummary(summary map[string]interface{}) string {
	var pairs [][2]string
	if v, ok := summary["stockValue"].(float64); ok {
		pairs = append(pairs, [2]string{"Stock Value", fmt.Sprintf("%.2f", v)})
	}
	if v, ok := summary["totalValue"].(float64); ok {
		pairs = append(pairs, [2]string{"Total Value", fmt.Sprintf("%.2f", v)})
	}
	if v, ok := summary["totalPnL"].(float64); ok {
		pairs = append(pairs, [2]string{"Total PnL", signColor(v) + fmt.Sprintf("%+.2f", v) + colorReset})
	}
	return kvBlock(pairs)
}

func renderMessage(doc map[string]interface{}, msg string) string {
	color := colorRed
	if success, _ := doc["success"].(bool); success {
		color = colorGreen
	}

	var b strings.Builder
	b.WriteString(color + msg + colorReset + "\n")
	if txn, ok := doc["transaction"].(map[string]interface{}); ok {
		b.WriteString("\n")
		b.WriteString(renderTable([]map[string]interface{}{txn}))
	}
	return b.String()
}
