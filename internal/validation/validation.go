// Package validation checks raw submitted values against column metadata.
// The same rules back the server-side write gate and the constraints the
// render package publishes to clients, so both reach the same verdict.
package validation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"nursery-service/internal/schema"
)

// MaxTextLength is the longest accepted text value, in characters.
const MaxTextLength = 10000

// DateLayouts are the accepted date input formats, most specific last.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"01/02/2006",
}

// FieldError is a user-facing message for one column.
type FieldError struct {
	Column  string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Errors maps column id to message. An empty map means valid.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = e[k]
	}
	return strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when e is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateField checks one raw value. Rules run in order and stop at the
// first failure: required, empty-and-optional, then the type check.
// raw may be nil, a string, a number or a time.Time.
func ValidateField(col schema.Column, raw any) error {
	s, empty := normalize(raw)
	if empty {
		if col.IsRequired {
			return fail(col, "%s is required", col.Name)
		}
		return nil
	}

	switch {
	case col.Type.Numeric():
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fail(col, "%s must be a valid number", col.Name)
		}
		if n < 0 && !col.AllowNegative {
			return fail(col, "%s cannot be negative", col.Name)
		}
	case col.Type == schema.TypeDate:
		if _, ok := ParseDate(s); !ok {
			return fail(col, "%s must be a valid date", col.Name)
		}
	default:
		if utf8.RuneCountInString(s) > MaxTextLength {
			return fail(col, "%s is too long (max %d characters)", col.Name, MaxTextLength)
		}
	}
	return nil
}

// ValidateRecord validates every editable column of columns against data,
// treating a missing key as an empty value. Computed columns are skipped.
func ValidateRecord(columns []schema.Column, data map[string]any) Errors {
	return validate(columns, data, false)
}

// ValidateSubmitted validates only the editable columns present in data.
// It backs partial updates, where an absent key means "unchanged".
func ValidateSubmitted(columns []schema.Column, data map[string]any) Errors {
	return validate(columns, data, true)
}

func validate(columns []schema.Column, data map[string]any, presentOnly bool) Errors {
	errs := Errors{}
	for _, col := range columns {
		if !col.Editable() {
			continue
		}
		v, ok := data[col.ID]
		if presentOnly && !ok {
			continue
		}
		if err := ValidateField(col, v); err != nil {
			errs[col.ID] = err.Error()
		}
	}
	return errs
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalize renders raw as trimmed text and reports whether it is empty.
func normalize(raw any) (string, bool) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		s = v
	case *string:
		if v == nil {
			return "", true
		}
		s = *v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case time.Time:
		if v.IsZero() {
			return "", true
		}
		s = v.Format(time.RFC3339)
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	return s, s == ""
}

func fail(col schema.Column, format string, args ...any) error {
	return &FieldError{Column: col.ID, Message: fmt.Sprintf(format, args...)}
}
