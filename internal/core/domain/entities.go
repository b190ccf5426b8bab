package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Role represents a user role in the platform
type Role string

const (
	RoleLoanCustomer  Role = "LC"
	RoleLoanProvider  Role = "LP"
	RoleBankPersonnel Role = "BP"
)

// User represents the authenticated platform user
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session holds the opaque API token and, once the profile has been
// fetched, the user it belongs to. During bootstrap the token may be
// present while the user is still absent.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether the session carries a logged-in user.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Date is a calendar date as the API transmits it (YYYY-MM-DD).
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date at midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Loan represents a loan as the platform reports it. Read-only on the
// client; the approved flag transitions false→true exactly once and
// only by a server-side decision.
type Loan struct {
	ID              uint            `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	StartDate       Date            `json:"start_date"`
	EndDate         Date            `json:"end_date"`
	Approved        bool            `json:"approved"`
	CustomerID      uint            `json:"customer"`
	ProviderID      uint            `json:"provider"`
	ApplicationDate Date            `json:"application_date"`
}

// TermMonths derives the loan term from its date range, rounding up to
// whole months of 30 days. Never less than 1.
func (l *Loan) TermMonths() int {
	days := l.EndDate.Sub(l.StartDate.Time).Hours() / 24
	months := int(math.Ceil(days / 30))
	if months < 1 {
		return 1
	}
	return months
}

// LoanParameters are the server-configured bounds constraining new loan
// applications. min ≤ max for each pair.
type LoanParameters struct {
	ID              uint            `json:"id,omitempty"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	MaxAmount       decimal.Decimal `json:"max_amount"`
	MinInterestRate decimal.Decimal `json:"min_interest_rate"`
	MaxInterestRate decimal.Decimal `json:"max_interest_rate"`
	MinDuration     int             `json:"min_duration"`
	MaxDuration     int             `json:"max_duration"`
}

// Payment represents a recorded payment toward a loan. Immutable once
// created; the client keeps no ledger of past payments.
type Payment struct {
	ID     uint            `json:"id,omitempty"`
	LoanID uint            `json:"loan"`
	Amount decimal.Decimal `json:"amount"`
	Date   Date            `json:"date"`
}
