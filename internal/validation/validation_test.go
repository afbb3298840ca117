package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"nursery-service/internal/schema"
)

var allTypes = []schema.ColumnType{
	schema.TypeText, schema.TypeNumber, schema.TypeDate, schema.TypeCurrency, schema.TypePercent,
}

func column(name string, typ schema.ColumnType, required bool) schema.Column {
	return schema.Column{ID: strings.ToLower(name), Name: name, Type: typ, IsRequired: required}
}

func TestRequiredColumnsRejectEmpty(t *testing.T) {
	for _, typ := range allTypes {
		col := column("Plant Name", typ, true)
		for _, raw := range []any{nil, "", "   "} {
			err := ValidateField(col, raw)
			if err == nil || !strings.Contains(err.Error(), "Plant Name") {
				t.Errorf("%s: ValidateField(%#v) = %v, want error naming the column", typ, raw, err)
			}
		}
	}
}

func TestOptionalColumnsAcceptEmpty(t *testing.T) {
	for _, typ := range allTypes {
		if err := ValidateField(column("Notes", typ, false), ""); err != nil {
			t.Errorf("%s: ValidateField(\"\") = %v, want nil", typ, err)
		}
	}
}

func TestNumericRules(t *testing.T) {
	for _, typ := range []schema.ColumnType{schema.TypeNumber, schema.TypeCurrency, schema.TypePercent} {
		col := column("Amount", typ, false)
		if err := ValidateField(col, "-5"); err == nil || err.Error() != "Amount cannot be negative" {
			t.Errorf("%s: -5 gave %v", typ, err)
		}
		if err := ValidateField(col, "5"); err != nil {
			t.Errorf("%s: 5 gave %v", typ, err)
		}
		for _, bad := range []string{"abc", "NaN", "Inf", "1.2.3"} {
			if err := ValidateField(col, bad); err == nil || err.Error() != "Amount must be a valid number" {
				t.Errorf("%s: %q gave %v", typ, bad, err)
			}
		}
	}
}

func TestAllowNegative(t *testing.T) {
	col := column("Adjustment", schema.TypeCurrency, false)
	col.AllowNegative = true
	if err := ValidateField(col, "-5"); err != nil {
		t.Fatalf("ValidateField(-5) = %v, want nil", err)
	}
}

func TestDateRules(t *testing.T) {
	col := column("Date", schema.TypeDate, false)
	if err := ValidateField(col, "not-a-date"); err == nil || err.Error() != "Date must be a valid date" {
		t.Errorf("not-a-date gave %v", err)
	}
	if err := ValidateField(col, "2024-02-30"); err == nil {
		t.Error("2024-02-30 accepted")
	}
	for _, ok := range []any{"2024-01-15", "2024-01-15T08:30:00Z", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)} {
		if err := ValidateField(col, ok); err != nil {
			t.Errorf("%v gave %v", ok, err)
		}
	}
}

func TestTextLength(t *testing.T) {
	col := column("Notes", schema.TypeText, false)
	if err := ValidateField(col, strings.Repeat("é", MaxTextLength)); err != nil {
		t.Errorf("max length text rejected: %v", err)
	}
	err := ValidateField(col, strings.Repeat("a", MaxTextLength+1))
	if err == nil || err.Error() != "Notes is too long (max 10000 characters)" {
		t.Errorf("over-long text gave %v", err)
	}
}

func TestFieldErrorCarriesColumn(t *testing.T) {
	err := ValidateField(column("Quantity", schema.TypeNumber, true), "")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Column != "quantity" {
		t.Fatalf("err = %#v, want *FieldError for quantity", err)
	}
}

func pricingColumns() []schema.Column {
	return []schema.Column{
		{ID: "plantName", Name: "Plant Name", Type: schema.TypeText, IsRequired: true},
		{ID: "basePrice", Name: "Base Price", Type: schema.TypeCurrency},
		{ID: "finalPrice", Name: "Final Price", Type: schema.TypeCurrency, IsRequired: true},
		{ID: "margin", Name: "Margin", Type: schema.TypeCurrency, IsComputed: true, IsRequired: true},
	}
}

func TestValidateRecordValid(t *testing.T) {
	errs := ValidateRecord(pricingColumns(), map[string]any{"plantName": "Rose", "finalPrice": "12.50"})
	if len(errs) != 0 {
		t.Fatalf("ValidateRecord = %v, want empty", errs)
	}
	if errs.Err() != nil {
		t.Fatal("Err() of empty Errors must be nil")
	}
}

func TestValidateRecordInvalid(t *testing.T) {
	errs := ValidateRecord(pricingColumns(), map[string]any{"plantName": "", "finalPrice": "-3"})
	want := Errors{
		"plantName":  "Plant Name is required",
		"finalPrice": "Final Price cannot be negative",
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("ValidateRecord = %v, want %v", errs, want)
	}
	if got := errs.Error(); got != "Final Price cannot be negative; Plant Name is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateSubmittedSkipsAbsentColumns(t *testing.T) {
	errs := ValidateSubmitted(pricingColumns(), map[string]any{"basePrice": "4"})
	if len(errs) != 0 {
		t.Fatalf("ValidateSubmitted = %v, want empty", errs)
	}
	errs = ValidateSubmitted(pricingColumns(), map[string]any{"plantName": ""})
	if errs["plantName"] != "Plant Name is required" {
		t.Fatalf("blanking a required column gave %v", errs)
	}
}
