package model_test

import (
	"reflect"
	"strings"
	"testing"

	"nursery-service/internal/model"
	"nursery-service/internal/validation"
)

// MySQL TEXT holds 65535 bytes; a rune takes at most 4.
const textColumnBytes = 65535

func TestTextFieldsHoldTheValidatorLimit(t *testing.T) {
	if validation.MaxTextLength*4 > textColumnBytes {
		t.Fatalf("MaxTextLength %d does not fit a TEXT column", validation.MaxTextLength)
	}
	stringPtr := reflect.TypeOf((*string)(nil))
	for _, m := range model.RecordModels() {
		typ := reflect.TypeOf(m).Elem()
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if f.Anonymous || f.Type != stringPtr {
				continue
			}
			if tag := f.Tag.Get("gorm"); !strings.Contains(tag, "type:text") {
				t.Errorf("%s.%s has gorm tag %q, want type:text", typ.Name(), f.Name, tag)
			}
		}
	}
}
