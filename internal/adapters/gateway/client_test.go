package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finloans/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second, staticToken(token))
}

func TestAuthorizationHeader(t *testing.T) {
	t.Run("no token means no header", func(t *testing.T) {
		var header string
		var present bool
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("Authorization")
			_, present = r.Header["Authorization"]
			json.NewEncoder(w).Encode([]domain.Loan{})
		}, "")

		_, err := client.ListLoans(context.Background())
		require.NoError(t, err)
		assert.False(t, present, "unauthenticated request must not carry Authorization, got %q", header)
	})

	t.Run("token uses the Token scheme", func(t *testing.T) {
		var header string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]domain.Loan{})
		}, "tok-123")

		_, err := client.ListLoans(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Token tok-123", header)
	})

	t.Run("every request carries a request id", func(t *testing.T) {
		var requestID string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			requestID = r.Header.Get("X-Request-ID")
			json.NewEncoder(w).Encode([]domain.Loan{})
		}, "")

		_, err := client.ListLoans(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, requestID)
	})
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category error
		message  string
	}{
		{"401 is authentication", http.StatusUnauthorized, `{"detail": "Invalid token."}`, domain.ErrAuthentication, "Invalid token."},
		{"400 is validation", http.StatusBadRequest, `{"error": "Amount out of bounds"}`, domain.ErrValidation, "Amount out of bounds"},
		{"404 is not found", http.StatusNotFound, `{"detail": "Not found."}`, domain.ErrNotFound, "Not found."},
		{"403 reads as not found", http.StatusForbidden, `{}`, domain.ErrNotFound, ""},
		{"500 is a network failure", http.StatusInternalServerError, ``, domain.ErrNetwork, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "tok")

			_, err := client.ListLoans(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.category)

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}

	t.Run("error body prefers the error key", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "primary", "detail": "secondary"}`))
		}, "tok")

		_, err := client.ListLoans(context.Background())
		assert.Equal(t, "primary", domain.UserMessage(err))
	})

	t.Run("unreachable server is a network failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close() // nothing listens here anymore
		client := New(server.URL, time.Second, staticToken(""))

		_, err := client.ListLoans(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}

func TestLogin(t *testing.T) {
	t.Run("parses token and user", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/login", r.URL.Path)

			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "alice", creds["username"])
			assert.Equal(t, "secret", creds["password"])

			json.NewEncoder(w).Encode(LoginResult{
				Token: "tok-123",
				User:  &domain.User{ID: 1, Username: "alice", Role: domain.RoleLoanCustomer},
			})
		}, "")

		token, user, err := client.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
		assert.Equal(t, domain.RoleLoanCustomer, user.Role)
	})

	t.Run("every failure is an authentication error", func(t *testing.T) {
		statuses := []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError}
		for _, status := range statuses {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"error": "Invalid Credentials"}`))
			}, "")

			_, _, err := client.Login(context.Background(), "alice", "wrong")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAuthentication, "status %d", status)
		}
	})

	t.Run("incomplete response is an authentication error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"token": "tok-123"}`)) // no user
		}, "")

		_, _, err := client.Login(context.Background(), "alice", "secret")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("server message survives the re-wrap", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "Invalid Credentials"}`))
		}, "")

		_, _, err := client.Login(context.Background(), "alice", "wrong")
		assert.Equal(t, "Invalid Credentials", domain.UserMessage(err))
	})
}

func TestLoanOperations(t *testing.T) {
	t.Run("get loan decodes the wire format", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/loans/3", r.URL.Path)
			w.Write([]byte(`{
				"id": 3, "amount": "1200.00", "interest_rate": "12.0",
				"start_date": "2026-01-01", "end_date": "2026-12-27",
				"approved": true, "customer": 1, "provider": 2,
				"application_date": "2025-12-20"
			}`))
		}, "tok")

		loan, err := client.GetLoan(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), loan.ID)
		assert.True(t, loan.Amount.Equal(decimal.NewFromInt(1200)))
		assert.True(t, loan.Approved)
		assert.Equal(t, "2026-01-01", loan.StartDate.String())
		assert.Equal(t, 12, loan.TermMonths())
	})

	t.Run("apply sends the application fields", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/apply-loan", r.URL.Path)
			var req map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req, "amount")
			assert.Contains(t, req, "term")
			assert.Contains(t, req, "interestRate")
			w.Write([]byte(`{"id": 7}`))
		}, "tok")

		loan, err := client.ApplyForLoan(context.Background(),
			decimal.NewFromInt(1200), 12, decimal.NewFromInt(12))
		require.NoError(t, err)
		assert.Equal(t, uint(7), loan.ID)
	})

	t.Run("make payment targets the loan path", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/make-payment/3", r.URL.Path)
			var req map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.JSONEq(t, `"2026-08-01"`, string(req["date"]))
			w.Write([]byte(`{"id": 9, "loan": 3, "amount": "100", "date": "2026-08-01"}`))
		}, "tok")

		payment, err := client.MakePayment(context.Background(), 3,
			decimal.NewFromInt(100), domain.NewDate(2026, time.August, 1))
		require.NoError(t, err)
		assert.Equal(t, uint(3), payment.LoanID)
	})
}
