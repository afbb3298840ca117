package formula

import (
	"math"
	"reflect"
	"testing"
)

func lookup(values map[string]float64) Lookup {
	return func(id string) (float64, bool) {
		v, ok := values[id]
		return v, ok
	}
}

func TestEval(t *testing.T) {
	vals := lookup(map[string]float64{"quantity": 4, "unitPrice": 2.5, "basePrice": 10, "markup": 20})
	tests := []struct {
		src  string
		want float64
	}{
		{"quantity * unitPrice", 10},
		{"basePrice * (1 + markup / 100)", 12},
		{"-quantity + 1", -3},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
	}
	for _, tt := range tests {
		e, err := Parse(tt.src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.src, err)
		}
		got, ok := e.Eval(vals)
		if !ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Eval(%q) = %v, %v; want %v", tt.src, got, ok, tt.want)
		}
	}
}

func TestEvalMissingOperand(t *testing.T) {
	e, err := Parse("quantity * unitPrice")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Eval(lookup(map[string]float64{"quantity": 1})); ok {
		t.Fatal("expected absent result when an operand is missing")
	}
}

func TestEvalDivideByZero(t *testing.T) {
	e, err := Parse("a / b")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Eval(lookup(map[string]float64{"a": 1, "b": 0})); ok {
		t.Fatal("expected absent result for division by zero")
	}
}

func TestRefs(t *testing.T) {
	e, err := Parse("a * b + a - c")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.Refs(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Refs = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"", "a *", "(a + b", "a $ b", "a b", "1..2"} {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", src)
		}
	}
}
