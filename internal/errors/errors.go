package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrMemberNotFound is returned when a member is not found.
	ErrMemberNotFound = errors.New("member not found")
	// ErrLoanNotFound is returned when a loan transaction is not found.
	ErrLoanNotFound = errors.New("transaction not found")
	// ErrNoCopiesAvailable is returned when issuing a book with zero available copies.
	ErrNoCopiesAvailable = errors.New("no copies of this book are currently available")
	// ErrLoanAlreadyReturned is returned when returning a loan a second time.
	ErrLoanAlreadyReturned = errors.New("this book has already been returned")
	// ErrBookOnLoan is returned when deleting a book that is currently issued.
	ErrBookOnLoan = errors.New("book has copies out on loan")
	// ErrUsernameTaken is returned when signing up with a registered username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned for both unknown username and wrong
	// password, so login errors cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrAccountDeactivated is returned when a deactivated account logs in.
	ErrAccountDeactivated = errors.New("this account has been deactivated")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrBookNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOK_NOT_FOUND")
	case ErrMemberNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "MEMBER_NOT_FOUND")
	case ErrLoanNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TRANSACTION_NOT_FOUND")
	case ErrNoCopiesAvailable:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_COPIES_AVAILABLE")
	case ErrLoanAlreadyReturned:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_RETURNED")
	case ErrBookOnLoan:
		return NewHTTPError(http.StatusConflict, err.Error(), "BOOK_ON_LOAN")
	case ErrUsernameTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case ErrEmailTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrAccountDeactivated:
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_DEACTIVATED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
