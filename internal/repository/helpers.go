package repository

import (
	"fmt"
	"strconv"
	"time"

	"github.com/financeflow/flowdesk/internal/store"
	"github.com/shopspring/decimal"
)

// rowString returns the column as a string, or "" for NULL.
func rowString(r store.Row, col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// rowBytes returns a JSON or text column as bytes, nil for NULL.
func rowBytes(r store.Row, col string) []byte {
	switch v := r[col].(type) {
	case nil:
		return nil
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return []byte(fmt.Sprint(v))
	}
}

// parseNullableTime parses a timestamp column into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(r store.Row, col string) *time.Time {
	s := rowString(r, col)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func rowTime(r store.Row, col string) time.Time {
	if t := parseNullableTime(r, col); t != nil {
		return *t
	}
	return time.Time{}
}

// rowBool reads a SQLite integer flag.
func rowBool(r store.Row, col string) bool {
	switch v := r[col].(type) {
	case int64:
		return v != 0
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b || v == "1"
	default:
		return false
	}
}

// rowDecimal reads a money column. Values written by older clients may be
// stored as SQLite numbers rather than text.
func rowDecimal(r store.Row, col string) (decimal.Decimal, error) {
	switch v := r[col].(type) {
	case nil:
		return decimal.Zero, nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		d, err := decimal.NewFromString(rowString(r, col))
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing %s: %w", col, err)
		}
		return d, nil
	}
}

// nowUTC returns the current UTC time in the store timestamp layout.
func nowUTC() string {
	return time.Now().UTC().Format(store.TimestampLayout)
}
