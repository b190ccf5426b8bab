package services

import (
	"context"

	"finloans/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Gateway is the outbound API surface the services drive. Implemented
// by the gateway client; mocked in tests.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	ListLoans(ctx context.Context) ([]domain.Loan, error)
	GetLoan(ctx context.Context, id uint) (*domain.Loan, error)
	ApplyForLoan(ctx context.Context, amount decimal.Decimal, termMonths int, interestRate decimal.Decimal) (*domain.Loan, error)
	ApproveLoan(ctx context.Context, id uint) (*domain.Loan, error)
	MakePayment(ctx context.Context, loanID uint, amount decimal.Decimal, date domain.Date) (*domain.Payment, error)
	LoanParameters(ctx context.Context) ([]domain.LoanParameters, error)
	DefineLoanParameters(ctx context.Context, params domain.LoanParameters) (*domain.LoanParameters, error)
}

// TokenStore persists the opaque session token between runs.
type TokenStore interface {
	Token() (string, error)
	SaveToken(token string) error
	Clear() error
}
