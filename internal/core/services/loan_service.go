package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finloans/internal/core/domain"
	"finloans/internal/pkg/finance"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Loan service errors
var (
	ErrNoLoanParameters = errors.New("no loan parameters defined")
)

// LoanService drives loan operations through the gateway, applying the
// client-side validation the platform's forms perform. These checks are
// a UX convenience only — the server re-validates everything and is the
// sole authority on access control.
type LoanService struct {
	gateway  Gateway
	validate *validator.Validate
}

// NewLoanService creates a new loan service
func NewLoanService(gateway Gateway) *LoanService {
	return &LoanService{
		gateway:  gateway,
		validate: validator.New(),
	}
}

// List returns the loans visible to the caller.
func (s *LoanService) List(ctx context.Context) ([]domain.Loan, error) {
	return s.gateway.ListLoans(ctx)
}

// Get returns one loan by id.
func (s *LoanService) Get(ctx context.Context, id uint) (*domain.Loan, error) {
	return s.gateway.GetLoan(ctx, id)
}

// ApplyLoanInput represents a loan application
type ApplyLoanInput struct {
	Amount       decimal.Decimal `json:"amount"`
	TermMonths   int             `json:"term" validate:"required,gt=0"`
	InterestRate decimal.Decimal `json:"interestRate"`
}

// Apply validates the application against the platform's configured
// parameters and submits it.
func (s *LoanService) Apply(ctx context.Context, input *ApplyLoanInput) (*domain.Loan, error) {
	params, err := s.ActiveParameters(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validateApplication(input, params); err != nil {
		return nil, err
	}
	return s.gateway.ApplyForLoan(ctx, input.Amount, input.TermMonths, input.InterestRate)
}

// ActiveParameters returns the parameter set bounding new applications.
// The most recently defined set is authoritative.
func (s *LoanService) ActiveParameters(ctx context.Context) (*domain.LoanParameters, error) {
	all, err := s.gateway.LoanParameters(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrNoLoanParameters
	}
	return &all[len(all)-1], nil
}

func (s *LoanService) validateApplication(input *ApplyLoanInput, p *domain.LoanParameters) error {
	if err := s.validate.Struct(input); err != nil {
		return domain.NewValidationError("loan term must be a positive number of months")
	}
	if err := s.validate.Var(input.TermMonths, fmt.Sprintf("gte=%d,lte=%d", p.MinDuration, p.MaxDuration)); err != nil {
		return domain.NewValidationError(fmt.Sprintf(
			"loan term must be between %d and %d months", p.MinDuration, p.MaxDuration))
	}
	if input.Amount.LessThan(p.MinAmount) || input.Amount.GreaterThan(p.MaxAmount) {
		return domain.NewValidationError(fmt.Sprintf(
			"loan amount must be between %s and %s", p.MinAmount.StringFixed(2), p.MaxAmount.StringFixed(2)))
	}
	if input.InterestRate.LessThan(p.MinInterestRate) || input.InterestRate.GreaterThan(p.MaxInterestRate) {
		return domain.NewValidationError(fmt.Sprintf(
			"interest rate must be between %s%% and %s%%", p.MinInterestRate.String(), p.MaxInterestRate.String()))
	}
	return nil
}

// PaymentInput represents a payment toward a loan
type PaymentInput struct {
	LoanID uint            `json:"loan" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Date   domain.Date     `json:"date"`
}

// Pay validates and submits a payment. The outstanding balance is not
// tracked client-side; whether the amount exceeds it is the server's
// call.
func (s *LoanService) Pay(ctx context.Context, input *PaymentInput) (*domain.Payment, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.NewValidationError("a loan must be selected for payment")
	}
	if !input.Amount.IsPositive() {
		return nil, domain.NewValidationError("payment amount must be greater than zero")
	}
	if input.Date.IsZero() {
		input.Date = domain.Today()
	}
	if input.Date.After(domain.Today().Time) {
		return nil, domain.NewValidationError("payment date cannot be in the future")
	}

	loan, err := s.gateway.GetLoan(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if !loan.Approved {
		return nil, domain.NewValidationError("payments can only be made toward approved loans")
	}

	return s.gateway.MakePayment(ctx, input.LoanID, input.Amount, input.Date)
}

// Approve asks the server to approve a loan. Authorization is enforced
// server-side.
func (s *LoanService) Approve(ctx context.Context, id uint) (*domain.Loan, error) {
	return s.gateway.ApproveLoan(ctx, id)
}

// Parameters returns every parameter set the platform has defined.
func (s *LoanService) Parameters(ctx context.Context) ([]domain.LoanParameters, error) {
	return s.gateway.LoanParameters(ctx)
}

// DefineParameters checks bound ordering and submits a new parameter set.
func (s *LoanService) DefineParameters(ctx context.Context, p domain.LoanParameters) (*domain.LoanParameters, error) {
	if p.MinAmount.GreaterThan(p.MaxAmount) {
		return nil, domain.NewValidationError("min amount cannot be greater than max amount")
	}
	if p.MinInterestRate.GreaterThan(p.MaxInterestRate) {
		return nil, domain.NewValidationError("min interest rate cannot be greater than max interest rate")
	}
	if p.MinDuration > p.MaxDuration {
		return nil, domain.NewValidationError("min duration cannot be greater than max duration")
	}
	return s.gateway.DefineLoanParameters(ctx, p)
}

// LoanSummary carries the derived figures the views display for a loan
type LoanSummary struct {
	Loan           *domain.Loan
	TermMonths     int
	MonthlyPayment decimal.Decimal
	TotalPayment   decimal.Decimal
	TotalInterest  decimal.Decimal
	ProgressPct    int
}

// Summarize derives the display figures for a loan as of a point in time.
func Summarize(loan *domain.Loan, asOf time.Time) *LoanSummary {
	n := loan.TermMonths()
	monthly := finance.MonthlyPayment(loan.Amount, loan.InterestRate, n)
	total := finance.TotalPayment(monthly, n)
	return &LoanSummary{
		Loan:           loan,
		TermMonths:     n,
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  finance.TotalInterest(total, loan.Amount),
		ProgressPct:    finance.ProgressPercent(loan.StartDate.Time, loan.EndDate.Time, asOf),
	}
}
