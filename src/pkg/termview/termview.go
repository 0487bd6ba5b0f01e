/*
Package termview draws a render.View for the terminal: summary, category
breakdown with proportional bars, and the transaction table.
*/
package termview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"finsight/src/pkg/render"
	"finsight/src/pkg/util"
)

// BarWidth is the width of a 100% category bar, in cells.
const BarWidth = 24

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1"))
	headingStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle    = lipgloss.NewStyle().Bold(true)
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	summaryStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	headerStyle   = cellStyle.Bold(true)
	reportStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1)
	emptyStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9CA3AF"))
	tableBorder   = lipgloss.RoundedBorder()
	summaryLabels = []string{"Opening Balance", "Closing Balance", "Total Income", "Total Expense"}
)

func Render(view render.View) string {
	sections := []string{
		titleStyle.Render("FinSight Premium - Financial Analysis"),
		renderSummary(view.Summary),
		headingStyle.Render("Spending by Category"),
		renderCategories(view.Categories),
		headingStyle.Render("Transactions"),
		renderTransactions(view.Transactions),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// Report frames the backend's Markdown report as it was written.
func Report(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return emptyStyle.Render("No analysis report available.") + "\n"
	}
	return headingStyle.Render("AI Analysis") + "\n" + reportStyle.Render(strings.TrimRight(markdown, "\n")) + "\n"
}

func renderSummary(summary render.SummaryView) string {
	values := []string{
		valueStyle.Render(summary.StartBalance),
		valueStyle.Render(summary.EndBalance),
		incomeStyle.Render(summary.TotalIncome),
		expenseStyle.Render(summary.TotalExpense),
	}

	cells := make([]string, 0, len(summaryLabels))
	for index, label := range summaryLabels {
		cell := lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), values[index])
		cells = append(cells, lipgloss.NewStyle().MarginRight(4).Render(cell))
	}
	return summaryStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

func renderCategories(categories []render.CategorySlice) string {
	if len(categories) == 0 {
		return emptyStyle.Render("No spending categories.")
	}

	rows := make([][]string, 0, len(categories))
	for _, slice := range categories {
		rows = append(rows, []string{slice.Name, slice.Amount, slice.Percent + "%", bar(slice.PercentRaw)})
	}

	return table.New().
		Border(tableBorder).
		Headers("Category", "Amount", "Share", "").
		Rows(rows...).
		StyleFunc(func(row, column int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if column == 3 {
				return cellStyle.Foreground(terminalColor(categories[row].Color))
			}
			return cellStyle
		}).
		String()
}

func renderTransactions(transactions []render.TransactionRow) string {
	if len(transactions) == 0 {
		return emptyStyle.Render("No transactions.")
	}

	rows := make([][]string, 0, len(transactions))
	for _, transaction := range transactions {
		rows = append(rows, []string{
			transaction.Date, transaction.Description, transaction.Category, transaction.Amount, transaction.Balance,
		})
	}

	return table.New().
		Border(tableBorder).
		Headers("Date", "Description", "Category", "Amount", "Balance").
		Rows(rows...).
		StyleFunc(func(row, column int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case column == 2:
				return cellStyle.Foreground(terminalColor(transactions[row].CategoryColor))
			case column == 3 && transactions[row].AmountClass == render.AmountPositiveClass:
				return cellStyle.Inherit(incomeStyle)
			case column == 3:
				return cellStyle.Inherit(expenseStyle)
			default:
				return cellStyle
			}
		}).
		String()
}

// bar draws percent (0..100) as a run of full blocks; any non-zero share gets at least one.
func bar(percent float64) string {
	cells := int(math.Round(percent / 100 * BarWidth))
	if percent > 0 && cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", util.Clamp(cells, 0, BarWidth))
}

// terminalColor turns the registry's "rgb(r, g, b)" into a hex color; anything else passes through.
func terminalColor(cssColor string) lipgloss.Color {
	var red, green, blue int
	_, scanErr := fmt.Sscanf(cssColor, "rgb(%d, %d, %d)", &red, &green, &blue)
	if scanErr != nil {
		return lipgloss.Color(cssColor)
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", util.Clamp(red, 0, 255), util.Clamp(green, 0, 255), util.Clamp(blue, 0, 255)))
}
