package export

import (
	"bytes"
	"html"

	"finsight/src/pkg/format"
	"finsight/src/pkg/markdown"
)

const (
	sectionTitleStyle = "font-size: 16px; font-weight: 600; color: #1f2937; margin-bottom: 15px; padding-bottom: 8px; border-bottom: 1px solid #e5e7eb;"
	summaryCellStyle  = "width: 50%; padding: 10px; background: #f9fafb; border: 1px solid #e5e7eb;"
	summaryLabelStyle = "font-size: 11px; color: #6b7280; text-transform: uppercase; margin-bottom: 5px;"
	headerCellStyle   = "padding: 10px 8px; text-align: left; font-weight: 600; color: #374151; border-bottom: 1px solid #e5e7eb;"
	bodyCellStyle     = "padding: 8px; border-bottom: 1px solid #f3f4f6; color: #4b5563;"
	incomeStyle       = "color: #10b981; font-weight: 600;"
	expenseStyle      = "color: #ef4444; font-weight: 600;"
)

/*
Document renders the report as an HTML fragment using inline styles only,
so it survives printing and pasting into other documents.

Table text is escaped. The AI analysis is inserted as produced by the
Markdown converter.
*/
func (r Report) Document() string {
	var buffer bytes.Buffer
	summary := r.result.Summary

	buffer.WriteString(`<div style="font-family: Arial, Helvetica, sans-serif; color: #1f2937; background: white; width: 100%;">`)

	// Header.
	buffer.WriteString(`<div style="text-align: center; margin-bottom: 25px; padding-bottom: 15px; border-bottom: 2px solid #e5e7eb;">`)
	buffer.WriteString(`<div style="font-size: 24px; font-weight: bold; color: #6366f1; margin-bottom: 5px;">` + ProductName + `</div>`)
	buffer.WriteString(`<div style="color: #6b7280; font-size: 12px;">Financial Analysis Report - ` + r.generatedAt.Format(localeDateLayout) + `</div>`)
	buffer.WriteString(`</div>`)

	// Summary grid.
	buffer.WriteString(sectionOpen("Financial Summary"))
	buffer.WriteString(`<table style="width: 100%; border-collapse: collapse; margin-bottom: 15px;">`)
	buffer.WriteString(`<tr>`)
	buffer.WriteString(summaryCell("Opening Balance", format.FormatPlain(summary.StartBalance), "#1f2937"))
	buffer.WriteString(summaryCell("Closing Balance", format.FormatPlain(summary.EndBalance), "#1f2937"))
	buffer.WriteString(`</tr>`)
	buffer.WriteString(`<tr>`)
	buffer.WriteString(summaryCell("Total Income", "+"+format.FormatPlain(summary.TotalIncome), "#10b981"))
	buffer.WriteString(summaryCell("Total Expense", "-"+format.FormatPlain(summary.TotalExpense), "#ef4444"))
	buffer.WriteString(`</tr>`)
	buffer.WriteString(`</table>`)
	buffer.WriteString(`</div>`)

	// Categories.
	buffer.WriteString(sectionOpen("Spending by Category"))
	buffer.WriteString(`<table style="width: 100%; border-collapse: collapse; font-size: 12px;">`)
	buffer.WriteString(tableHead("Category", "Amount", "Percentage"))
	buffer.WriteString(`<tbody>`)
	for _, row := range r.CategoryRows() {
		buffer.WriteString(`<tr>`)
		buffer.WriteString(bodyCell(html.EscapeString(row.Name)))
		buffer.WriteString(bodyCell(format.FormatPlain(row.Amount)))
		buffer.WriteString(bodyCell(row.Percent + "%"))
		buffer.WriteString(`</tr>`)
	}
	buffer.WriteString(`</tbody>`)
	buffer.WriteString(`</table>`)
	buffer.WriteString(`</div>`)

	// Transactions.
	buffer.WriteString(sectionOpen("Transaction Details"))
	buffer.WriteString(`<table style="width: 100%; border-collapse: collapse; font-size: 11px;">`)
	buffer.WriteString(tableHead("Date", "Description", "Category", "Amount", "Balance"))
	buffer.WriteString(`<tbody>`)
	for _, transaction := range r.result.Transactions {
		amountStyle := expenseStyle
		if transaction.Amount.Sign() > 0 {
			amountStyle = incomeStyle
		}

		buffer.WriteString(`<tr>`)
		buffer.WriteString(bodyCell(html.EscapeString(transaction.Date)))
		buffer.WriteString(bodyCell(html.EscapeString(transaction.Description)))
		buffer.WriteString(bodyCell(html.EscapeString(transaction.CategoryName())))
		buffer.WriteString(styledCell(format.FormatLedger(transaction.Amount), amountStyle))
		buffer.WriteString(bodyCell(format.FormatPlain(transaction.Balance)))
		buffer.WriteString(`</tr>`)
	}
	buffer.WriteString(`</tbody>`)
	buffer.WriteString(`</table>`)
	buffer.WriteString(`</div>`)

	// AI analysis.
	buffer.WriteString(sectionOpen("AI Analysis"))
	buffer.WriteString(`<div style="background: #f9fafb; padding: 15px; border: 1px solid #e5e7eb; font-size: 12px; line-height: 1.6;">`)
	buffer.WriteString(markdown.ToHTML(r.result.Report))
	buffer.WriteString(`</div>`)
	buffer.WriteString(`</div>`)

	// Footer.
	buffer.WriteString(`<div style="margin-top: 25px; padding-top: 15px; border-top: 1px solid #e5e7eb; text-align: center; font-size: 10px; color: #9ca3af;">`)
	buffer.WriteString(`Generated by ` + ProductName + ` | ` + r.generatedAt.Format(localeDateTimeLayout))
	buffer.WriteString(`</div>`)

	buffer.WriteString(`</div>`)

	return buffer.String()
}

/*
Page wraps Document in a standalone page with a banner telling the reader
how to save it as PDF. The banner is hidden when printing.
*/
func (r Report) Page() string {
	var buffer bytes.Buffer

	buffer.WriteString("<!DOCTYPE html>")
	buffer.WriteString("<html>")
	buffer.WriteString("<head>")
	buffer.WriteString(`<meta charset="UTF-8">`)
	buffer.WriteString("<title>FinSight Report</title>")
	buffer.WriteString("<style>")
	buffer.WriteString("body { font-family: Arial, Helvetica, sans-serif; margin: 0; padding: 20px; background: white; }")
	buffer.WriteString("@media print { body { padding: 0; } .no-print { display: none !important; } }")
	buffer.WriteString("</style>")
	buffer.WriteString("</head>")
	buffer.WriteString("<body>")
	buffer.WriteString(`<div class="no-print" style="background:#6366f1;color:white;padding:15px;margin-bottom:20px;border-radius:8px;text-align:center;">`)
	buffer.WriteString(`<strong>Press Ctrl+P (or Cmd+P on Mac) to save as PDF</strong>`)
	buffer.WriteString(`<br><small>Select "Save as PDF" as the destination</small>`)
	buffer.WriteString(`</div>`)
	buffer.WriteString(r.Document())
	buffer.WriteString("</body>")
	buffer.WriteString("</html>")

	return buffer.String()
}

func sectionOpen(title string) string {
	return `<div style="margin-bottom: 25px;"><div style="` + sectionTitleStyle + `">` + title + `</div>`
}

func summaryCell(label string, value string, color string) string {
	return `<td style="` + summaryCellStyle + `">` +
		`<div style="` + summaryLabelStyle + `">` + label + `</div>` +
		`<div style="font-size: 18px; font-weight: bold; color: ` + color + `;">` + value + `</div>` +
		`</td>`
}

func tableHead(columns ...string) string {
	var buffer bytes.Buffer
	buffer.WriteString(`<thead><tr style="background: #f3f4f6;">`)
	for _, column := range columns {
		buffer.WriteString(`<th style="` + headerCellStyle + `">` + column + `</th>`)
	}
	buffer.WriteString(`</tr></thead>`)
	return buffer.String()
}

// bodyCell and styledCell expect already escaped text.
func bodyCell(text string) string {
	return styledCell(text, bodyCellStyle)
}

func styledCell(text string, style string) string {
	return `<td style="` + style + `">` + text + `</td>`
}
