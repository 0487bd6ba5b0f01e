package export

import (
	"fmt"

	"github.com/tuumbleweed/xerr"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet      = "Summary"
	CategoriesSheet   = "Categories"
	TransactionsSheet = "Transactions"
	moneyFormat       = "#,##0.00"
	headerFill        = "#F3F4F6"
)

/*
Workbook renders the report as an XLSX file with one sheet per table.
Amounts are written as numbers so they stay usable in formulas; the category
sheet uses the same order as the other exports.
*/
func (r Report) Workbook() (content []byte, e *xerr.Error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	renameErr := file.SetSheetName("Sheet1", SummarySheet)
	if renameErr != nil {
		e = xerr.NewError(renameErr, "rename default workbook sheet", SummarySheet)
		return content, e
	}
	for _, sheetName := range []string{CategoriesSheet, TransactionsSheet} {
		_, sheetErr := file.NewSheet(sheetName)
		if sheetErr != nil {
			e = xerr.NewError(sheetErr, "add workbook sheet", sheetName)
			return content, e
		}
	}

	headerStyle, styleErr := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#374151"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if styleErr != nil {
		e = xerr.NewError(styleErr, "create workbook header style", nil)
		return content, e
	}
	customMoneyFormat := moneyFormat
	moneyStyle, styleErr := file.NewStyle(&excelize.Style{CustomNumFmt: &customMoneyFormat})
	if styleErr != nil {
		e = xerr.NewError(styleErr, "create workbook money style", nil)
		return content, e
	}

	summary := r.result.Summary
	summaryRows := [][]any{
		{"Metric", "Value"},
		{"Opening Balance", summary.StartBalance.InexactFloat64()},
		{"Closing Balance", summary.EndBalance.InexactFloat64()},
		{"Total Income", summary.TotalIncome.InexactFloat64()},
		{"Total Expense", summary.TotalExpense.InexactFloat64()},
		{"Net Change", summary.NetChange().InexactFloat64()},
		{"Generated", r.generatedAt.Format(localeDateTimeLayout)},
	}
	e = writeSheet(file, SummarySheet, summaryRows, headerStyle, moneyStyle, "B", "B")
	if e != nil {
		return content, e
	}

	categoryRows := [][]any{{"Category", "Amount", "Percentage"}}
	for _, row := range r.CategoryRows() {
		categoryRows = append(categoryRows, []any{row.Name, row.Amount.InexactFloat64(), row.Percent + "%"})
	}
	e = writeSheet(file, CategoriesSheet, categoryRows, headerStyle, moneyStyle, "B", "B")
	if e != nil {
		return content, e
	}

	transactionRows := [][]any{{"Date", "Description", "Category", "Amount", "Balance"}}
	for _, transaction := range r.result.Transactions {
		transactionRows = append(transactionRows, []any{
			transaction.Date,
			transaction.Description,
			transaction.CategoryName(),
			transaction.Amount.InexactFloat64(),
			transaction.Balance.InexactFloat64(),
		})
	}
	e = writeSheet(file, TransactionsSheet, transactionRows, headerStyle, moneyStyle, "D", "E")
	if e != nil {
		return content, e
	}

	buffer, writeErr := file.WriteToBuffer()
	if writeErr != nil {
		e = xerr.NewError(writeErr, "write workbook", nil)
		return content, e
	}

	return buffer.Bytes(), e
}

/*
writeSheet writes rows starting at A1, styles the first row as a header and
applies the money format to the columns firstMoneyColumn..lastMoneyColumn of
the remaining rows.
*/
func writeSheet(
	file *excelize.File, sheetName string, rows [][]any,
	headerStyle int, moneyStyle int, firstMoneyColumn string, lastMoneyColumn string,
) (e *xerr.Error) {
	for index, row := range rows {
		cell, cellErr := excelize.CoordinatesToCellName(1, index+1)
		if cellErr != nil {
			e = xerr.NewError(cellErr, "compute workbook cell name", sheetName)
			return e
		}
		rowErr := file.SetSheetRow(sheetName, cell, &row)
		if rowErr != nil {
			e = xerr.NewError(rowErr, "write workbook row", fmt.Sprintf("%s!%s", sheetName, cell))
			return e
		}
	}

	if len(rows) == 0 {
		return e
	}

	lastHeaderColumn, nameErr := excelize.ColumnNumberToName(len(rows[0]))
	if nameErr != nil {
		e = xerr.NewError(nameErr, "compute workbook column name", sheetName)
		return e
	}
	headerErr := file.SetCellStyle(sheetName, "A1", lastHeaderColumn+"1", headerStyle)
	if headerErr != nil {
		e = xerr.NewError(headerErr, "style workbook header", sheetName)
		return e
	}

	if len(rows) > 1 {
		moneyErr := file.SetCellStyle(
			sheetName,
			fmt.Sprintf("%s%d", firstMoneyColumn, 2),
			fmt.Sprintf("%s%d", lastMoneyColumn, len(rows)),
			moneyStyle,
		)
		if moneyErr != nil {
			e = xerr.NewError(moneyErr, "style workbook amounts", sheetName)
			return e
		}
	}

	widthErr := file.SetColWidth(sheetName, "A", lastHeaderColumn, 18)
	if widthErr != nil {
		e = xerr.NewError(widthErr, "size workbook columns", sheetName)
		return e
	}

	return e
}
