package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"finloans/internal/adapters/gateway"
	"finloans/internal/adapters/persistence/tokenstore"
	"finloans/internal/config"
	"finloans/internal/core/domain"
	"finloans/internal/core/services"
	"finloans/internal/pkg/finance"
	"finloans/internal/pkg/logger"
	"finloans/internal/pkg/render"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	// Wire the core: token store → gateway → session, one of each,
	// constructed here and passed down. No hidden singletons.
	store := tokenstore.New(cfg.Session.TokenStorePath)
	gw := gateway.New(cfg.API.BaseURL, cfg.API.Timeout, store)
	session := services.NewSessionService(gw, store)
	loans := services.NewLoanService(gw)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	session.Bootstrap(ctx)

	app := &app{cfg: cfg, session: session, loans: loans}
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", domain.UserMessage(err))
		logger.Debug("command %s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	session *services.SessionService
	loans   *services.LoanService
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return a.whoami()
	case "nav":
		render.Navigation(os.Stdout, a.session.Capabilities())
		return nil
	case "loans":
		return a.listLoans(ctx)
	case "loan":
		return a.showLoan(ctx, args)
	case "apply":
		return a.apply(ctx, args)
	case "approve":
		return a.approve(ctx, args)
	case "pay":
		return a.pay(ctx, args)
	case "params":
		return a.params(ctx)
	case "define-params":
		return a.defineParams(ctx, args)
	case "remind":
		return a.remind(args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	fs.Parse(args)
	if *username == "" || *password == "" {
		return domain.NewValidationError("username and password are required")
	}

	user, err := a.session.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s (%s)\n", user.Username, roleName(user.Role))
	return nil
}

func (a *app) whoami() error {
	user, ok := a.session.CurrentUser()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Username, roleName(user.Role))
	return nil
}

func (a *app) listLoans(ctx context.Context) error {
	loans, err := a.loans.List(ctx)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		fmt.Println("No loans found.")
		return nil
	}
	render.Loans(os.Stdout, loans)
	return nil
}

func (a *app) showLoan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("loan", flag.ExitOnError)
	id := fs.Uint("id", 0, "loan id")
	withSchedule := fs.Bool("schedule", false, "print the repayment schedule")
	fs.Parse(args)

	loan, err := a.loans.Get(ctx, uint(*id))
	if err != nil {
		return err
	}

	summary := services.Summarize(loan, domain.Today().Time)
	fmt.Printf("Loan #%d\n", loan.ID)
	fmt.Printf("  Amount:          %s\n", render.Money(loan.Amount))
	fmt.Printf("  Interest rate:   %s\n", render.Percent(loan.InterestRate))
	fmt.Printf("  Term:            %d months (%s to %s)\n", summary.TermMonths, loan.StartDate, loan.EndDate)
	fmt.Printf("  Monthly payment: %s\n", render.Money(summary.MonthlyPayment))
	fmt.Printf("  Total payment:   %s\n", render.Money(summary.TotalPayment))
	fmt.Printf("  Total interest:  %s\n", render.Money(summary.TotalInterest))
	fmt.Printf("  Approved:        %v\n", loan.Approved)
	fmt.Printf("  Progress:        %s\n", render.ProgressBar(summary.ProgressPct))

	if *withSchedule {
		fmt.Println()
		rows := finance.Schedule(loan.Amount, loan.InterestRate, summary.TermMonths, loan.StartDate.Time)
		render.Schedule(os.Stdout, rows)
	}
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	amount := fs.String("amount", "", "loan amount")
	term := fs.Int("term", 0, "loan term in months")
	rate := fs.String("rate", "", "annual interest rate percent")
	fs.Parse(args)

	input := &services.ApplyLoanInput{TermMonths: *term}
	var err error
	if input.Amount, err = parseDecimal(*amount, "amount"); err != nil {
		return err
	}
	if input.InterestRate, err = parseDecimal(*rate, "rate"); err != nil {
		return err
	}

	monthly := finance.MonthlyPayment(input.Amount, input.InterestRate, max(input.TermMonths, 1))
	fmt.Printf("Estimated monthly payment: %s\n", render.Money(monthly))

	loan, err := a.loans.Apply(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Application submitted: loan #%d for %s\n", loan.ID, render.Money(loan.Amount))
	return nil
}

func (a *app) approve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	id := fs.Uint("id", 0, "loan id")
	fs.Parse(args)

	loan, err := a.loans.Approve(ctx, uint(*id))
	if err != nil {
		return err
	}
	fmt.Printf("Loan #%d approved.\n", loan.ID)
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	id := fs.Uint("id", 0, "loan id")
	amount := fs.String("amount", "", "payment amount")
	date := fs.String("date", "", "payment date (YYYY-MM-DD, default today)")
	fs.Parse(args)

	input := &services.PaymentInput{LoanID: uint(*id)}
	var err error
	if input.Amount, err = parseDecimal(*amount, "amount"); err != nil {
		return err
	}
	if *date != "" {
		if err := input.Date.UnmarshalJSON([]byte(`"` + *date + `"`)); err != nil {
			return domain.NewValidationError("payment date must be YYYY-MM-DD")
		}
	}

	payment, err := a.loans.Pay(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Payment of %s recorded for loan #%d on %s.\n",
		render.Money(payment.Amount), payment.LoanID, payment.Date)
	return nil
}

func (a *app) params(ctx context.Context) error {
	params, err := a.loans.Parameters(ctx)
	if err != nil {
		return err
	}
	if len(params) == 0 {
		fmt.Println("No loan parameters defined.")
		return nil
	}
	render.Parameters(os.Stdout, params)
	return nil
}

func (a *app) defineParams(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("define-params", flag.ExitOnError)
	minAmount := fs.String("min-amount", "0", "minimum loan amount")
	maxAmount := fs.String("max-amount", "0", "maximum loan amount")
	minRate := fs.String("min-rate", "0", "minimum interest rate percent")
	maxRate := fs.String("max-rate", "0", "maximum interest rate percent")
	minDuration := fs.Int("min-duration", 0, "minimum duration in months")
	maxDuration := fs.Int("max-duration", 0, "maximum duration in months")
	fs.Parse(args)

	p := domain.LoanParameters{MinDuration: *minDuration, MaxDuration: *maxDuration}
	var err error
	if p.MinAmount, err = parseDecimal(*minAmount, "min-amount"); err != nil {
		return err
	}
	if p.MaxAmount, err = parseDecimal(*maxAmount, "max-amount"); err != nil {
		return err
	}
	if p.MinInterestRate, err = parseDecimal(*minRate, "min-rate"); err != nil {
		return err
	}
	if p.MaxInterestRate, err = parseDecimal(*maxRate, "max-rate"); err != nil {
		return err
	}

	defined, err := a.loans.DefineParameters(ctx, p)
	if err != nil {
		return err
	}
	fmt.Printf("Loan parameters #%d defined.\n", defined.ID)
	return nil
}

func (a *app) remind(args []string) error {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	watch := fs.Bool("watch", false, "keep running and sweep on the configured schedule")
	fs.Parse(args)

	reminders := services.NewReminderService(
		a.loans, a.cfg.Reminder.Schedule, a.cfg.Reminder.WindowDays,
		func(loan *domain.Loan, daysLeft int) {
			fmt.Printf("Loan #%d (%s) ends in %d day(s) on %s\n",
				loan.ID, render.Money(loan.Amount), daysLeft, loan.EndDate)
		})

	if !*watch {
		reminders.Run()
		return nil
	}

	if err := reminders.Start(); err != nil {
		return err
	}
	defer reminders.Stop()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Stopping.")
	return nil
}

func parseDecimal(s, name string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, domain.NewValidationError(name + " is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(name + " must be a number")
	}
	return d, nil
}

func roleName(role domain.Role) string {
	switch role {
	case domain.RoleLoanCustomer:
		return "Loan Customer"
	case domain.RoleLoanProvider:
		return "Loan Provider"
	case domain.RoleBankPersonnel:
		return "Bank Personnel"
	default:
		return string(role)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `FinLoans client

Usage: finloans <command> [flags]

Commands:
  login -u USER -p PASS      authenticate with the platform
  logout                     end the session
  whoami                     show the current user
  nav                        show the destinations your role can reach
  loans                      list loans visible to you
  loan -id N [-schedule]     show one loan with derived figures
  apply -amount A -term N -rate R
                             apply for a loan
  approve -id N              approve a loan (loan providers)
  pay -id N -amount A [-date YYYY-MM-DD]
                             make a payment toward a loan
  params                     show configured loan parameters
  define-params ...          define loan parameters (bank personnel)
  remind [-watch]            flag approved loans ending soon`)
}
