package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// layouts tried, in order, when a date is not already ISO formatted
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006 3:04 PM",
	"2006/01/02 15:04",
	"2006/01/02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// FormatText renders any scalar the way a text input shows it. Nil becomes "".
func FormatText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// FormatCurrency returns the value with two decimals. ok is false when the
// value is present but not numeric, in which case the text is returned as is.
func FormatCurrency(value any) (string, bool) {
	if value == nil {
		return "", true
	}
	f, ok := toFloat(value)
	if !ok {
		return FormatText(value), false
	}
	return strconv.FormatFloat(f, 'f', 2, 64), true
}

// FormatDate truncates a date value to its calendar date. ok is false when the
// value could not be read as a date.
func FormatDate(value any) (string, bool) {
	if value == nil {
		return "", true
	}
	s, isString := value.(string)
	if !isString {
		return FormatText(value), false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) >= len(isoDate) {
		if _, err := time.Parse(isoDate, s[:len(isoDate)]); err == nil {
			return s[:len(isoDate)], true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}
	return s, false
}

// toFloat reads value as a finite number.
func toFloat(value any) (float64, bool) {
	f, ok := parseFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(v)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	}
	return 0, false
}
