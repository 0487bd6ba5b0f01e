package render

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/src/pkg/category"
	"finsight/src/pkg/markdown"
	"finsight/src/pkg/statement"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func loadResult(t *testing.T) statement.AnalysisResult {
	t.Helper()
	result, e := statement.LoadFromFile(filepath.Join("..", "statement", "testdata", "result.json"))
	require.Nil(t, e)
	return result
}

func TestRenderSummaryUsesAbsoluteCurrency(t *testing.T) {
	summary := RenderSummary(statement.Summary{
		StartBalance: d("2367.2"),
		EndBalance:   d("-12.5"),
		TotalIncome:  d("0"),
		TotalExpense: d("128.15"),
	})

	assert.Equal(t, "$2367.20", summary.StartBalance)
	assert.Equal(t, "$12.50", summary.EndBalance)
	assert.Equal(t, "$0.00", summary.TotalIncome)
	assert.Equal(t, "$128.15", summary.TotalExpense)
}

func TestRenderTransactionsKeepOrderAndStyles(t *testing.T) {
	rows := RenderTransactions([]statement.Transaction{
		{Date: "2025-12-05", Description: "SALARY", Category: "Income", Amount: d("1500"), Balance: d("3500")},
		{Date: "2025-12-03", Description: "CAFE", Category: "Food & Dining", Amount: d("-4.5"), Balance: d("2000")},
		{Date: "2025-12-04", Description: "ADJUSTMENT", Amount: d("0"), Balance: d("-10")},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "SALARY", rows[0].Description)
	assert.Equal(t, "+$1500.00", rows[0].Amount)
	assert.Equal(t, AmountPositiveClass, rows[0].AmountClass)
	assert.Equal(t, category.FallbackColor, rows[0].CategoryColor)

	assert.Equal(t, "-$4.50", rows[1].Amount)
	assert.Equal(t, AmountNegativeClass, rows[1].AmountClass)
	assert.Equal(t, "rgb(99, 102, 241)", rows[1].CategoryColor)

	assert.Equal(t, "$0.00", rows[2].Amount)
	assert.Equal(t, AmountNegativeClass, rows[2].AmountClass)
	assert.Equal(t, "Other", rows[2].Category)
	assert.Equal(t, "$10.00", rows[2].Balance)
}

func TestRenderTrendFollowsTransactions(t *testing.T) {
	trend := RenderTrend([]statement.Transaction{
		{Date: "2025-12-09", Balance: d("10.5")},
		{Date: "2025-12-01", Balance: d("7")},
	})

	assert.Equal(t, []string{"2025-12-09", "2025-12-01"}, trend.Labels)
	assert.Equal(t, []float64{10.5, 7}, trend.Values)
}

func TestRenderCategoriesFiltersAndOrdersByRegistry(t *testing.T) {
	categories := statement.Categories{
		{Name: "UnknownCat", Amount: d("30")},
		{Name: "Other", Amount: d("0")},
		{Name: "Food & Dining", Amount: d("50")},
	}

	slices := RenderCategories(categories)
	require.Len(t, slices, 2)
	assert.Equal(t, "Food & Dining", slices[0].Name)
	assert.Equal(t, "UnknownCat", slices[1].Name)

	assert.Equal(t, "$50.00", slices[0].Amount)
	assert.Equal(t, "62.5", slices[0].Percent)
	assert.Equal(t, "37.5", slices[1].Percent)
	assert.Equal(t, "Food & Dining: $50.00 (62.5%)", slices[0].Caption)
	assert.Equal(t, category.FallbackColor, slices[1].Color)
	assert.Equal(t, 50.0, slices[0].Value)

	// The input is left as received.
	assert.Equal(t, "UnknownCat", categories[0].Name)
	assert.Len(t, categories, 3)
}

func TestRenderCategoriesUnknownTiesKeepBackendOrder(t *testing.T) {
	slices := RenderCategories(statement.Categories{
		{Name: "Zeta", Amount: d("1")},
		{Name: "Travel", Amount: d("2")},
		{Name: "Alpha", Amount: d("3")},
		{Name: "Refunds", Amount: d("-4")},
	})

	names := make([]string, 0, len(slices))
	for _, slice := range slices {
		names = append(names, slice.Name)
	}
	assert.Equal(t, []string{"Travel", "Zeta", "Alpha"}, names)
}

func TestRenderEmptyResult(t *testing.T) {
	view := Render(statement.AnalysisResult{})

	assert.Empty(t, view.Transactions)
	assert.Empty(t, view.Trend.Labels)
	assert.Empty(t, view.Categories)
	assert.Equal(t, markdown.EmptyReport, view.ReportHTML)
	assert.Equal(t, "$0.00", view.Summary.TotalExpense)
}

func TestRenderIsDeterministicAndReadOnly(t *testing.T) {
	result := loadResult(t)
	firstCategory := result.Categories[0]

	first := Render(result)
	second := Render(result)

	assert.Equal(t, first, second)
	assert.Equal(t, firstCategory, result.Categories[0])
	require.Len(t, first.Categories, 3)
	assert.Equal(t, []string{"Food & Dining", "Transportation", "Shopping"},
		[]string{first.Categories[0].Name, first.Categories[1].Name, first.Categories[2].Name})
	assert.Contains(t, first.ReportHTML, "<h3>Financial Overview</h3>")
}
