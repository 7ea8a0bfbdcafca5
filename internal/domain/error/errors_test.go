package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InvalidCredentials", ErrInvalidCredentials, 4001},
		{"InvalidRequest", ErrInvalidRequest, 4002},
		{"ValidationFailed", ErrValidationFailed, 4003},
		{"DuplicateTransaction", ErrDuplicateTransaction, 4004},
		{"MissingColumns", ErrMissingColumns, 4005},
		{"InvalidToken", ErrInvalidToken, 4010},
		{"TransactionNotFound", ErrTransactionNotFound, 4040},
		{"NoTransactionsFound", ErrNoTransactionsFound, 4041},
		{"TaskNotFound", ErrTaskNotFound, 4042},
		{"DatabaseConnection", ErrDatabaseConnection, 5001},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrTransactionNotFound), 4040},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	if verr.HasErrors() {
		t.Error("empty ValidationError should report no errors")
	}

	verr.Add("amount", "must be positive, got -5")
	verr.Add("currency", "must be a 3-letter code (e.g. USD), got \"zl\"")

	if !verr.HasErrors() {
		t.Error("ValidationError with fields should report errors")
	}

	expected := `validation failed: amount: must be positive, got -5; currency: must be a 3-letter code (e.g. USD), got "zl"`
	if verr.Error() != expected {
		t.Errorf("ValidationError.Error() = %s, want %s", verr.Error(), expected)
	}

	if !errors.Is(verr, ErrValidationFailed) {
		t.Error("ValidationError should match ErrValidationFailed")
	}
	if ErrorCode(verr) != CodeValidationFailed {
		t.Errorf("ErrorCode(ValidationError) = %d, want %d", ErrorCode(verr), CodeValidationFailed)
	}
}

func TestDuplicateTransactionError(t *testing.T) {
	err := NewDuplicateTransactionError("b4c87f01-4f34-4d5c-8e44-dcdb52a0e471")

	expected := "duplicate transaction detected: transactionID=b4c87f01-4f34-4d5c-8e44-dcdb52a0e471"
	if err.Error() != expected {
		t.Errorf("DuplicateTransactionError.Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrDuplicateTransaction) {
		t.Error("DuplicateTransactionError should match ErrDuplicateTransaction")
	}
	if !IsDuplicateTransactionError(err) {
		t.Error("IsDuplicateTransactionError should recognize DuplicateTransactionError")
	}
	if ErrorCode(err) != CodeDuplicateTransaction {
		t.Errorf("ErrorCode = %d, want %d", ErrorCode(err), CodeDuplicateTransaction)
	}
}

func TestMissingColumnsError(t *testing.T) {
	err := &MissingColumnsError{Columns: []string{"amount", "currency"}}

	expected := "missing required columns: amount, currency"
	if err.Error() != expected {
		t.Errorf("MissingColumnsError.Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrMissingColumns) {
		t.Error("MissingColumnsError should match ErrMissingColumns")
	}
	if ErrorCode(err) != CodeMissingColumns {
		t.Errorf("ErrorCode = %d, want %d", ErrorCode(err), CodeMissingColumns)
	}
}

func TestIsNotFoundError(t *testing.T) {
	for _, err := range []error{ErrTransactionNotFound, ErrNoTransactionsFound, ErrTaskNotFound} {
		if !IsNotFoundError(err) {
			t.Errorf("IsNotFoundError(%v) should be true", err)
		}
	}
	if IsNotFoundError(ErrDuplicateTransaction) {
		t.Error("IsNotFoundError(ErrDuplicateTransaction) should be false")
	}
	if IsNotFoundError(nil) {
		t.Error("IsNotFoundError(nil) should be false")
	}
}
