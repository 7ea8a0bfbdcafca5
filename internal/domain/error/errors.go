package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidCredentials   = 4001
	CodeInvalidRequest       = 4002
	CodeValidationFailed     = 4003
	CodeDuplicateTransaction = 4004
	CodeMissingColumns       = 4005
	CodeInvalidToken         = 4010
	CodeTransactionNotFound  = 4040
	CodeNoTransactionsFound  = 4041
	CodeTaskNotFound         = 4042

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeDatabaseConnection = 5001
)

// Base error types
var (
	// ErrInvalidCredentials is returned when the username/password pair is wrong
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken is returned when the bearer token is missing, malformed or expired
	ErrInvalidToken = errors.New("invalid authentication credentials")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrValidationFailed is returned when a transaction record fails field validation
	ErrValidationFailed = errors.New("transaction validation failed")

	// ErrDuplicateTransaction is returned when a transaction with the same ID already exists
	ErrDuplicateTransaction = errors.New("transaction with this ID already exists")

	// ErrMissingColumns is returned when a CSV batch lacks required header columns
	ErrMissingColumns = errors.New("missing required columns")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNoTransactionsFound is returned when a summary query matches no transactions
	ErrNoTransactionsFound = errors.New("no transactions found")

	// ErrTaskNotFound is returned when the requested task handle doesn't exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrInvalidToken):
		return CodeInvalidToken
	case errors.Is(err, ErrValidationFailed):
		return CodeValidationFailed
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrMissingColumns):
		return CodeMissingColumns
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrNoTransactionsFound):
		return CodeNoTransactionsFound
	case errors.Is(err, ErrTaskNotFound):
		return CodeTaskNotFound
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// FieldError describes one failing field of a candidate transaction record
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// ValidationError aggregates every failing field of a single record into one
// error. A bad row reports all of its problems at once, not just the first
// one encountered.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	reasons := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		reasons = append(reasons, f.String())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(reasons, "; "))
}

// Is checks if the target error is an ErrValidationFailed
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Add records one more failing field
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	reasons := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		reasons = append(reasons, f.String())
	}
	return map[string]any{
		"error_type":   "validation_error",
		"field_errors": reasons,
		"error_code":   CodeValidationFailed,
	}
}

// DuplicateTransactionError provides detailed information about duplicate insert attempts
type DuplicateTransactionError struct {
	TransactionID string
}

// Error implements the error interface
func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("duplicate transaction detected: transactionID=%s", e.TransactionID)
}

// Is checks if the target error is an ErrDuplicateTransaction
func (e *DuplicateTransactionError) Is(target error) bool {
	return target == ErrDuplicateTransaction
}

// LogFields returns a map of fields for structured logging
func (e *DuplicateTransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "duplicate_transaction",
		"transaction_id": e.TransactionID,
		"error_code":     CodeDuplicateTransaction,
	}
}

// NewDuplicateTransactionError creates a new detailed duplicate transaction error
func NewDuplicateTransactionError(transactionID string) error {
	return &DuplicateTransactionError{TransactionID: transactionID}
}

// MissingColumnsError reports which required CSV header columns are absent
type MissingColumnsError struct {
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Is checks if the target error is an ErrMissingColumns
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// LogFields returns a map of fields for structured logging
func (e *MissingColumnsError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "missing_columns",
		"missing_columns": e.Columns,
		"error_code":      CodeMissingColumns,
	}
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsValidationError checks if the error is a field validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrNoTransactionsFound) ||
		errors.Is(err, ErrTaskNotFound)
}
