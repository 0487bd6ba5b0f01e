package export

import (
	"strings"

	"finsight/src/pkg/format"
)

var markdownCellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

/*
Markdown renders the report as a Markdown document: summary (with the net
change row), category and transaction tables, then the AI analysis as the
backend wrote it.
*/
func (r Report) Markdown() string {
	var builder strings.Builder
	summary := r.result.Summary

	builder.WriteString("# " + ProductName + " - Financial Analysis Report\n\n")
	builder.WriteString("**Generated:** " + r.generatedAt.Format(localeDateTimeLayout) + "\n\n")
	builder.WriteString("---\n\n")

	builder.WriteString("## Financial Summary\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	writeMarkdownRow(&builder, "Opening Balance", format.FormatPlain(summary.StartBalance))
	writeMarkdownRow(&builder, "Closing Balance", format.FormatPlain(summary.EndBalance))
	writeMarkdownRow(&builder, "Total Income", format.FormatPlain(summary.TotalIncome))
	writeMarkdownRow(&builder, "Total Expense", format.FormatPlain(summary.TotalExpense))
	writeMarkdownRow(&builder, "Net Change", format.FormatPlain(summary.NetChange()))
	builder.WriteString("\n")

	builder.WriteString("## Spending by Category\n\n")
	builder.WriteString("| Category | Amount | Percentage |\n")
	builder.WriteString("|----------|--------|------------|\n")
	for _, row := range r.CategoryRows() {
		writeMarkdownRow(&builder, row.Name, format.FormatPlain(row.Amount), row.Percent+"%")
	}
	builder.WriteString("\n")

	builder.WriteString("## Transaction Details\n\n")
	builder.WriteString("| Date | Description | Category | Amount | Balance |\n")
	builder.WriteString("|------|-------------|----------|--------|--------|\n")
	for _, transaction := range r.result.Transactions {
		writeMarkdownRow(
			&builder,
			transaction.Date,
			transaction.Description,
			transaction.CategoryName(),
			format.FormatLedger(transaction.Amount),
			format.FormatPlain(transaction.Balance),
		)
	}
	builder.WriteString("\n")

	builder.WriteString("## AI Analysis\n\n")
	builder.WriteString(r.result.Report)
	builder.WriteString("\n\n---\n\n")
	builder.WriteString("*Report generated by " + ProductName + "*\n")

	return builder.String()
}

// Pipes and line breaks inside a cell would split the table row.
func writeMarkdownRow(builder *strings.Builder, cells ...string) {
	builder.WriteString("|")
	for _, cell := range cells {
		builder.WriteString(" " + markdownCellReplacer.Replace(cell) + " |")
	}
	builder.WriteString("\n")
}
