package schema

import (
	"reflect"
	"slices"
	"testing"

	gormschema "gorm.io/gorm/schema"

	"nursery-service/internal/model"
)

func TestSaveCatalogOverwritesEveryDescriptorField(t *testing.T) {
	naming := gormschema.NamingStrategy{}
	tests := []struct {
		model   any
		fixed   []string
		updated []string
	}{
		{model.TableMetadata{}, []string{"id", "slug", "created_by", "created_at"}, tableUpsertColumns},
		{model.ColumnMetadata{}, []string{"id", "table_id"}, columnUpsertColumns},
	}
	for _, tt := range tests {
		typ := reflect.TypeOf(tt.model)
		for i := 0; i < typ.NumField(); i++ {
			name := naming.ColumnName("", typ.Field(i).Name)
			if slices.Contains(tt.fixed, name) {
				if slices.Contains(tt.updated, name) {
					t.Errorf("%s.%s must keep its stored value", typ.Name(), name)
				}
				continue
			}
			if !slices.Contains(tt.updated, name) {
				t.Errorf("%s.%s is not rewritten on upsert", typ.Name(), name)
			}
		}
	}
}
