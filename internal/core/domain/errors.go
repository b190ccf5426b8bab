package domain

import "errors"

// Failure categories. Every failed operation resolves to exactly one of
// these; match with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("resource not found")
	ErrNetwork        = errors.New("network failure")
)

// DefaultErrorMessage is shown when the server did not supply one.
const DefaultErrorMessage = "Something went wrong. Please try again."

// APIError is a categorized operation failure carrying the
// user-displayable message extracted from the server response.
type APIError struct {
	Category error  // one of the categories above
	Message  string // user-displayable; may be empty
	Err      error  // underlying cause, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Category.Error() + ": " + e.Message
	}
	if e.Err != nil {
		return e.Category.Error() + ": " + e.Err.Error()
	}
	return e.Category.Error()
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Category, e.Err}
	}
	return []error{e.Category}
}

// NewAuthenticationError reports bad credentials or an expired/missing token.
func NewAuthenticationError(message string, cause error) *APIError {
	return &APIError{Category: ErrAuthentication, Message: message, Err: cause}
}

// NewValidationError reports a request that violates server-declared bounds.
func NewValidationError(message string) *APIError {
	return &APIError{Category: ErrValidation, Message: message}
}

// NewNotFoundError reports a resource that is absent or not visible to the caller.
func NewNotFoundError(message string) *APIError {
	return &APIError{Category: ErrNotFound, Message: message}
}

// NewNetworkError reports a transport failure with no usable response.
func NewNetworkError(message string, cause error) *APIError {
	return &APIError{Category: ErrNetwork, Message: message, Err: cause}
}

// UserMessage extracts the displayable message from an error, falling
// back to the generic one.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return DefaultErrorMessage
}
