/*
Package render projects an AnalysisResult into a View: the plain description
of everything the results page shows. Views are bound to HTML by the web
package and to the terminal by termview.

Rendering is pure. It never modifies the result and returns the same View
for the same input.
*/
package render

import (
	"sort"

	"finsight/src/pkg/category"
	"finsight/src/pkg/format"
	"finsight/src/pkg/markdown"
	"finsight/src/pkg/statement"
)

const (
	AmountPositiveClass = "amount-positive"
	AmountNegativeClass = "amount-negative"
)

type View struct {
	Summary      SummaryView      `json:"summary"`
	Transactions []TransactionRow `json:"transactions"`
	Trend        TrendSeries      `json:"trend"`
	Categories   []CategorySlice  `json:"categories"`
	ReportHTML   string           `json:"report_html"`
}

type SummaryView struct {
	StartBalance string `json:"start_balance"`
	EndBalance   string `json:"end_balance"`
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
}

type TransactionRow struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	CategoryColor string `json:"category_color"`
	Amount        string `json:"amount"`
	AmountClass   string `json:"amount_class"`
	Balance       string `json:"balance"`
}

// TrendSeries is the balance line: one point per transaction, in statement order.
type TrendSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type CategorySlice struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Amount     string  `json:"amount"`
	Percent    string  `json:"percent"`
	Color      string  `json:"color"`
	Caption    string  `json:"caption"`
	PercentRaw float64 `json:"percent_raw"`
}

// Render builds the View for result.
func Render(result statement.AnalysisResult) View {
	return View{
		Summary:      RenderSummary(result.Summary),
		Transactions: RenderTransactions(result.Transactions),
		Trend:        RenderTrend(result.Transactions),
		Categories:   RenderCategories(result.Categories),
		ReportHTML:   markdown.ToHTML(result.Report),
	}
}

func RenderSummary(summary statement.Summary) SummaryView {
	return SummaryView{
		StartBalance: format.FormatCurrency(summary.StartBalance),
		EndBalance:   format.FormatCurrency(summary.EndBalance),
		TotalIncome:  format.FormatCurrency(summary.TotalIncome),
		TotalExpense: format.FormatCurrency(summary.TotalExpense),
	}
}

/*
RenderTransactions returns one row per transaction in input order. Only
amounts above zero are styled positive; zero shares the negative style.
*/
func RenderTransactions(transactions []statement.Transaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(transactions))
	for _, transaction := range transactions {
		amountClass := AmountNegativeClass
		if transaction.Amount.Sign() > 0 {
			amountClass = AmountPositiveClass
		}

		categoryName := transaction.CategoryName()
		rows = append(rows, TransactionRow{
			Date:          transaction.Date,
			Description:   transaction.Description,
			Category:      categoryName,
			CategoryColor: category.Lookup(categoryName).Color,
			Amount:        format.FormatSigned(transaction.Amount),
			AmountClass:   amountClass,
			Balance:       format.FormatCurrency(transaction.Balance),
		})
	}
	return rows
}

func RenderTrend(transactions []statement.Transaction) TrendSeries {
	series := TrendSeries{
		Labels: make([]string, 0, len(transactions)),
		Values: make([]float64, 0, len(transactions)),
	}
	for _, transaction := range transactions {
		series.Labels = append(series.Labels, transaction.Date)
		series.Values = append(series.Values, transaction.Balance.InexactFloat64())
	}
	return series
}

/*
RenderCategories returns the breakdown slices: categories with an amount
above zero, ordered by the registry (unknown categories last, ties in the
backend's order). Percentages are relative to the sum of the plotted slices.
*/
func RenderCategories(categories statement.Categories) []CategorySlice {
	plotted := categories.Positive()
	sort.SliceStable(plotted, func(firstIndex int, secondIndex int) bool {
		return category.Lookup(plotted[firstIndex].Name).Order < category.Lookup(plotted[secondIndex].Name).Order
	})

	plottedTotal := plotted.Total()

	slices := make([]CategorySlice, 0, len(plotted))
	for _, entry := range plotted {
		percent := format.Percent(entry.Amount, plottedTotal)
		amountText := format.FormatPlain(entry.Amount)
		percentText := percent.StringFixed(1)

		slices = append(slices, CategorySlice{
			Name:       entry.Name,
			Value:      entry.Amount.InexactFloat64(),
			Amount:     amountText,
			Percent:    percentText,
			Color:      category.Lookup(entry.Name).Color,
			Caption:    entry.Name + ": " + amountText + " (" + percentText + "%)",
			PercentRaw: percent.Round(4).InexactFloat64(),
		})
	}
	return slices
}
