// Package format renders stored values for display.
package format

import (
	"fmt"
	"strconv"
	"time"

	"nursery-service/internal/schema"
)

// Placeholder is shown for an absent value, everywhere.
const Placeholder = "-"

// Formatter renders values. The zero value uses "$".
type Formatter struct {
	CurrencySymbol string
}

// New returns a Formatter using symbol for currency columns.
func New(symbol string) Formatter {
	return Formatter{CurrencySymbol: symbol}
}

// ForDisplay renders value for a column of type typ.
func ForDisplay(value any, typ schema.ColumnType) string {
	return Formatter{}.ForDisplay(value, typ)
}

// ForDisplay renders value for a column of type typ. Only a true absence
// becomes Placeholder; 0 and "" render literally.
func (f Formatter) ForDisplay(value any, typ schema.ColumnType) string {
	value = deref(value)
	if value == nil {
		return Placeholder
	}
	switch typ {
	case schema.TypeDate:
		if t, ok := value.(time.Time); ok {
			return t.Format("2006-01-02")
		}
		return fmt.Sprint(value)
	case schema.TypeCurrency:
		n, ok := number(value)
		if !ok {
			return fmt.Sprint(value)
		}
		sym := f.CurrencySymbol
		if sym == "" {
			sym = "$"
		}
		if n < 0 {
			return "-" + sym + strconv.FormatFloat(-n, 'f', 2, 64)
		}
		return sym + strconv.FormatFloat(n, 'f', 2, 64)
	case schema.TypePercent:
		n, ok := number(value)
		if !ok {
			return fmt.Sprint(value)
		}
		return strconv.FormatFloat(n, 'f', -1, 64) + "%"
	case schema.TypeNumber:
		if n, ok := number(value); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return fmt.Sprint(value)
	default:
		return fmt.Sprint(value)
	}
}

// number accepts Go numeric types only; numeric-looking strings are
// passed through unchanged by the callers.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// deref unwraps the pointer fields gorm scans nullable columns into.
func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *float64:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
