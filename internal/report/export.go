package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	csvBufferSize = 32 * 1024
	excelSheet    = "General Journal"
)

var journalHeader = []string{
	"entry_id", "transaction_id", "date", "description", "transaction_type",
	"account_code", "account_name", "classification", "debit", "credit",
}

// WriteCSV streams the general journal as CSV with a trailing totals row.
func WriteCSV(w io.Writer, rows []JournalRow) error {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	cw := csv.NewWriter(buf)
	if err := cw.Write(journalHeader); err != nil {
		return err
	}
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		rec := []string{
			r.EntryID.String(),
			r.TransactionID.String(),
			r.Date.Format("2006-01-02"),
			r.Description,
			string(r.TransactionType),
			r.AccountCode,
			r.AccountName,
			string(r.Classification),
			r.Debit.StringFixed(2),
			r.Credit.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
		totalDebit = totalDebit.Add(r.Debit)
		totalCredit = totalCredit.Add(r.Credit)
	}
	totals := []string{"", "", "", "totals", "", "", "", "", totalDebit.StringFixed(2), totalCredit.StringFixed(2)}
	if err := cw.Write(totals); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// WriteExcel renders the general journal as a single-sheet workbook with a
// header row and a totals row.
func WriteExcel(w io.Writer, rows []JournalRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return err
	}

	for col, h := range journalHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return err
		}
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i, r := range rows {
		values := []any{
			r.EntryID.String(),
			r.TransactionID.String(),
			r.Date.Format("2006-01-02"),
			r.Description,
			string(r.TransactionType),
			r.AccountCode,
			r.AccountName,
			string(r.Classification),
			r.Debit.StringFixed(2),
			r.Credit.StringFixed(2),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(excelSheet, cell, v); err != nil {
				return err
			}
		}
		totalDebit = totalDebit.Add(r.Debit)
		totalCredit = totalCredit.Add(r.Credit)
	}

	totalsRow := len(rows) + 2
	for col, v := range map[int]string{4: "totals", 9: totalDebit.StringFixed(2), 10: totalCredit.StringFixed(2)} {
		cell, err := excelize.CoordinatesToCellName(col, totalsRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(excelSheet, cell, v); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// journalTmpl renders the HTML export. html/template escapes descriptions
// and account names coming from user input.
var journalTmpl = template.Must(template.New("journal").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>General Journal</title>
  <style>
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #f2f2f2; }
    td.amount { text-align: right; }
  </style>
</head>
<body>
  <h1>General Journal</h1>
  <table>
    <thead>
      <tr><th>Date</th><th>Description</th><th>Type</th><th>Account</th><th>Name</th><th>Classification</th><th>Debit</th><th>Credit</th></tr>
    </thead>
    <tbody>
{{- range .Rows }}
      <tr><td>{{ .Date.Format "2006-01-02" }}</td><td>{{ .Description }}</td><td>{{ .TransactionType }}</td><td>{{ .AccountCode }}</td><td>{{ .AccountName }}</td><td>{{ .Classification }}</td><td class="amount">{{ .Debit.StringFixed 2 }}</td><td class="amount">{{ .Credit.StringFixed 2 }}</td></tr>
{{- end }}
      <tr><td colspan="6">Totals</td><td class="amount">{{ .TotalDebit.StringFixed 2 }}</td><td class="amount">{{ .TotalCredit.StringFixed 2 }}</td></tr>
    </tbody>
  </table>
</body>
</html>
`))

// WriteHTML renders the general journal as a standalone HTML table.
func WriteHTML(w io.Writer, rows []JournalRow) error {
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		totalDebit = totalDebit.Add(r.Debit)
		totalCredit = totalCredit.Add(r.Credit)
	}
	data := struct {
		Rows        []JournalRow
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}{rows, totalDebit, totalCredit}
	if err := journalTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render journal html: %w", err)
	}
	return nil
}
