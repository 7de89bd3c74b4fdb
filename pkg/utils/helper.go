package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseDate menerima RFC3339 atau YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

// ParseAmount converts a JSON number or numeric string to float64.
func ParseAmount(value json.Number) (float64, error) {
	s := strings.TrimSpace(value.String())
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	amount, err := json.Number(s).Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
