/*
Package export turns the current AnalysisResult into downloadable reports: a
printable HTML document, a Markdown file and an XLSX workbook.

Exports are computed on demand from the result and never cached. They keep
the transactions in statement order and list categories by amount,
largest first, which differs from the chart's registry order.
*/
package export

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/src/pkg/failure"
	"finsight/src/pkg/format"
	"finsight/src/pkg/statement"
)

const (
	ProductName = "FinSight Premium"

	localeDateLayout     = "1/2/2006"
	localeDateTimeLayout = "1/2/2006, 3:04:05 PM"
)

// Report is an exportable snapshot of one analysis.
type Report struct {
	result      statement.AnalysisResult
	generatedAt time.Time
}

// CategoryRow is one line of the exported category table.
type CategoryRow struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent string          `json:"percent"`
}

/*
New prepares result for export. It fails with NoReportAvailable when there
is no result or the backend sent an empty report.
*/
func New(result *statement.AnalysisResult, generatedAt time.Time) (Report, *failure.Failure) {
	if result == nil || !result.HasReport() {
		return Report{}, failure.NoReportAvailable()
	}
	return Report{result: *result, generatedAt: generatedAt}, nil
}

// GeneratedAt is the timestamp printed in every export.
func (r Report) GeneratedAt() time.Time {
	return r.generatedAt
}

/*
CategoryRows returns the categories with an amount above zero, largest
first (ties keep the backend's order). Percentages are relative to the sum
of all category amounts, and are "0.0" when that sum is not positive.
*/
func (r Report) CategoryRows() []CategoryRow {
	return buildCategoryRows(r.result.Categories)
}

func buildCategoryRows(categories statement.Categories) []CategoryRow {
	total := categories.Total()
	positive := categories.Positive()
	sort.SliceStable(positive, func(firstIndex int, secondIndex int) bool {
		return positive[firstIndex].Amount.GreaterThan(positive[secondIndex].Amount)
	})

	rows := make([]CategoryRow, 0, len(positive))
	for _, entry := range positive {
		rows = append(rows, CategoryRow{
			Name:    entry.Name,
			Amount:  entry.Amount,
			Percent: format.FormatPercent(entry.Amount, total),
		})
	}
	return rows
}
