package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	tport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/google/uuid"
)

// Timestamp layouts accepted on input. Offset-less layouts are interpreted
// as UTC; layouts carrying an offset are converted to UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RawTransaction carries the untyped string fields of one candidate record,
// exactly as they arrive from a CSV row or an API request body.
type RawTransaction struct {
	TransactionID string
	Timestamp     string
	Amount        string
	Currency      string
	CustomerID    string
	ProductID     string
	Quantity      string
}

// Transaction represents one immutable business transaction record
type Transaction struct {
	TransactionID uuid.UUID // Unique identifier, duplicate inserts are rejected
	Timestamp     time.Time // Business timestamp, normalized to UTC
	Amount        float64   // Positive amount, rounded to 2 decimal places
	Currency      string    // 3-letter alphabetic code, upper-cased
	CustomerID    uuid.UUID
	ProductID     uuid.UUID
	Quantity      int       // Positive integer
	CreatedAt     time.Time // Server-assigned ingestion time, immutable
}

// NewTransaction validates and normalizes a raw record into a Transaction.
// Every failing field is collected into a single ValidationError so the
// caller sees all problems of a row at once.
func NewTransaction(raw RawTransaction, timeProvider tport.TimeProvider) (*Transaction, error) {
	verr := &errs.ValidationError{}

	transactionID := parseUUIDField(verr, "transaction_id", raw.TransactionID)
	customerID := parseUUIDField(verr, "customer_id", raw.CustomerID)
	productID := parseUUIDField(verr, "product_id", raw.ProductID)

	timestamp, err := ParseTimestamp(raw.Timestamp)
	if err != nil {
		verr.Add("timestamp", "invalid date-time format: "+raw.Timestamp)
	}

	amount, err := parseAmount(raw.Amount)
	if err != nil {
		verr.Add("amount", err.Error())
	}

	currency, err := normalizeCurrency(raw.Currency)
	if err != nil {
		verr.Add("currency", err.Error())
	}

	quantity, err := parseQuantity(raw.Quantity)
	if err != nil {
		verr.Add("quantity", err.Error())
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &Transaction{
		TransactionID: transactionID,
		Timestamp:     timestamp,
		Amount:        amount,
		Currency:      currency,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
		CreatedAt:     timeProvider.Now().UTC(),
	}, nil
}

// ParseTimestamp parses a date-time string into UTC. Strings without an
// offset are taken to already be UTC.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, trimmed, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Round2 rounds to 2 decimal places using standard half-away-from-zero rounding
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseUUIDField(verr *errs.ValidationError, field, value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		verr.Add(field, "invalid UUID format: "+value)
		return uuid.Nil
	}
	return id
}

func parseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errAmountFormat(value)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", value)
	}
	return Round2(amount), nil
}

func errAmountFormat(value string) error {
	return fmt.Errorf("must be a number, got %s", value)
}

func normalizeCurrency(value string) (string, error) {
	code := strings.TrimSpace(value)
	if utf8.RuneCountInString(code) != 3 || !isAlpha(code) {
		return "", fmt.Errorf("must be a 3-letter code (e.g. USD), got %q", value)
	}
	return strings.ToUpper(code), nil
}

func parseQuantity(value string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %s", value)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", quantity)
	}
	return quantity, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
