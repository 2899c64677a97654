// Package export serialises history query rows for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/history"
)

// FileName is the suggested download name.
const FileName = "expenses.csv"

// Columns are written in this order.
var Columns = []string{"Date", "Description", "Category", "Payment Method", "Amount", "Split With", "Note"}

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	// IncludeHeader adds "# Rows" and "# Total" comment rows before the column headers.
	IncludeHeader bool
}

// WriteToFile writes the rows to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, rows []transaction.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rows)
}

// Write writes the rows in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, rows []transaction.Transaction) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if err := writer.Write([]string{"# Rows", strconv.Itoa(len(rows))}); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
		if err := writer.Write([]string{"# Total", formatAmount(history.Total(rows))}); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range rows {
		row := []string{
			txn.Date,
			txn.Description,
			txn.Category,
			txn.PaymentMethod,
			formatAmount(txn.Amount),
			strings.Join(txn.SplitWith, "; "),
			txn.Note,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
