// Package render formats domain values for the terminal. Monetary
// rounding to two decimal places happens here and nowhere earlier.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"finloans/internal/core/domain"
	"finloans/internal/pkg/finance"

	"github.com/shopspring/decimal"
)

// Money renders a monetary amount rounded to cents.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Percent renders an interest rate.
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}

// ProgressBar renders a fixed-width progress bar for a 0-100 percent.
func ProgressBar(pct int) string {
	const width = 20
	filled := pct * width / 100
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("=", filled), strings.Repeat(" ", width-filled), pct)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Loans writes a loan list table.
func Loans(w io.Writer, loans []domain.Loan) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tAMOUNT\tRATE\tSTART\tEND\tSTATUS")
	for i := range loans {
		loan := &loans[i]
		status := "pending"
		if loan.Approved {
			status = "approved"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			loan.ID, Money(loan.Amount), Percent(loan.InterestRate),
			loan.StartDate, loan.EndDate, status)
	}
	tw.Flush()
}

// Parameters writes a loan-parameter table.
func Parameters(w io.Writer, params []domain.LoanParameters) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tAMOUNT\tINTEREST RATE\tDURATION (MONTHS)")
	for i := range params {
		p := &params[i]
		fmt.Fprintf(tw, "%d\t%s - %s\t%s - %s\t%d - %d\n",
			p.ID, Money(p.MinAmount), Money(p.MaxAmount),
			Percent(p.MinInterestRate), Percent(p.MaxInterestRate),
			p.MinDuration, p.MaxDuration)
	}
	tw.Flush()
}

// Schedule writes an amortization schedule table.
func Schedule(w io.Writer, rows []finance.ScheduleRow) {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tDUE\tPAYMENT\tPRINCIPAL\tINTEREST\tBALANCE")
	for i := range rows {
		row := &rows[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			row.Period, row.DueDate.Format("2006-01-02"),
			Money(row.Payment), Money(row.Principal), Money(row.Interest), Money(row.Balance))
	}
	tw.Flush()
}

// Navigation writes the destinations available to a role.
func Navigation(w io.Writer, caps domain.RoleCapabilities) {
	tw := newTable(w)
	fmt.Fprintln(tw, "LABEL\tPATH")
	for _, entry := range caps.Navigation {
		fmt.Fprintf(tw, "%s\t%s\n", entry.Label, entry.Path)
	}
	tw.Flush()
}
