// Package finance derives display and validation figures from a loan's
// numeric terms. Pure and deterministic; monetary values stay at full
// decimal precision until callers round for display.
package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// monthlyRate converts a nominal annual percentage to a monthly rate.
func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(twelve)
}

// MonthlyPayment returns the fixed amortizing payment that repays
// principal plus interest at annualRatePercent over termMonths:
// r·P / (1 − (1+r)^−n), or P/n when the rate is zero.
// Callers must guard termMonths > 0, principal > 0 and rate ≥ 0.
func MonthlyPayment(principal, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	r := monthlyRate(annualRatePercent)
	if r.IsZero() {
		return principal.Div(n)
	}
	growth := one.Add(r).Pow(n) // (1+r)^n
	return r.Mul(principal).Div(one.Sub(one.Div(growth)))
}

// TotalPayment returns the amount repaid over the full term.
func TotalPayment(monthlyPayment decimal.Decimal, termMonths int) decimal.Decimal {
	return monthlyPayment.Mul(decimal.NewFromInt(int64(termMonths)))
}

// TotalInterest returns the interest portion of the total repaid.
func TotalInterest(totalPayment, principal decimal.Decimal) decimal.Decimal {
	return totalPayment.Sub(principal)
}

// ProgressPercent returns the elapsed share of the loan's lifetime as of
// asOf, floored and clamped to [0, 100]. A degenerate range (end before
// or equal to start) reads as fully elapsed once asOf reaches start.
func ProgressPercent(start, end, asOf time.Time) int {
	if !end.After(start) {
		if asOf.Before(start) {
			return 0
		}
		return 100
	}
	elapsed := float64(asOf.Sub(start))
	total := float64(end.Sub(start))
	pct := int(math.Floor(elapsed / total * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ScheduleRow is one period of an amortization schedule.
type ScheduleRow struct {
	Period    int
	DueDate   time.Time
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// Schedule expands a loan into its period-by-period amortization rows,
// due monthly starting one month after start. Row amounts are rounded
// to cents; the final row absorbs the rounding residue so the balance
// closes at exactly zero.
func Schedule(principal, annualRatePercent decimal.Decimal, termMonths int, start time.Time) []ScheduleRow {
	payment := MonthlyPayment(principal, annualRatePercent, termMonths).Round(2)
	r := monthlyRate(annualRatePercent)

	rows := make([]ScheduleRow, 0, termMonths)
	balance := principal
	for period := 1; period <= termMonths; period++ {
		interest := balance.Mul(r).Round(2)
		principalPart := payment.Sub(interest)
		due := payment
		if period == termMonths {
			principalPart = balance
			due = principalPart.Add(interest)
		}
		balance = balance.Sub(principalPart)
		rows = append(rows, ScheduleRow{
			Period:    period,
			DueDate:   start.AddDate(0, period, 0),
			Payment:   due,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
	}
	return rows
}
