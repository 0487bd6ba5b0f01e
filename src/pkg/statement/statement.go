/*
Package statement models the analysis the backend returns for one bank
statement: the balance summary, the transactions in statement order, the
expense total per category and the Markdown report.
*/
package statement

import (
	"github.com/shopspring/decimal"

	"finsight/src/pkg/category"
)

/*
AnalysisResult is immutable once received. A new analysis replaces it as a
whole; renderers and exporters only read it.
*/
type AnalysisResult struct {
	Summary      Summary       `json:"summary"`
	Transactions []Transaction `json:"transactions"`
	Categories   Categories    `json:"categories"`
	Report       string        `json:"report"`
}

type Summary struct {
	StartBalance decimal.Decimal `json:"start_balance"`
	EndBalance   decimal.Decimal `json:"end_balance"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// NetChange is the closing balance minus the opening balance.
func (s Summary) NetChange() decimal.Decimal {
	return s.EndBalance.Sub(s.StartBalance)
}

/*
Transaction is one statement line. Amount is negative for expenses and
positive for income; Balance is the running balance after the line.
*/
type Transaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// CategoryName returns the transaction's category, or "Other" when it has none.
func (t Transaction) CategoryName() string {
	return category.OrDefault(t.Category)
}

// HasReport reports whether the backend produced a non-empty Markdown report.
func (r AnalysisResult) HasReport() bool {
	return r.Report != ""
}
