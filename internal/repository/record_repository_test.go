package repository

import (
	"reflect"
	"testing"
	"time"

	"gorm.io/gorm/schema"

	"nursery-service/internal/model"
)

func testColumns() columns {
	r := &recordRepository{naming: schema.NamingStrategy{}}
	return r.columnsOf(Table{Name: "fertilizer_log", Columns: []string{"applicationDate", "npkRatio", "quantity"}})
}

func TestColumnMapping(t *testing.T) {
	cols := testColumns()
	for id, want := range map[string]string{
		"applicationDate": "application_date",
		"npkRatio":        "npk_ratio",
		"quantity":        "quantity",
		"businessId":      "business_id",
		"createdAt":       "created_at",
	} {
		if got, err := cols.column(id); err != nil || got != want {
			t.Errorf("column(%s) = %q, %v; want %q", id, got, err, want)
		}
	}
	if _, err := cols.column("drop table"); err == nil {
		t.Error("unknown column accepted")
	}
}

func TestRowAndRecordRoundTrip(t *testing.T) {
	cols := testColumns()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := model.Record{"id": "r1", "businessId": "b1", "applicationDate": day, "npkRatio": "10-10-10", "quantity": 2.0}

	row, err := cols.row(rec)
	if err != nil {
		t.Fatal(err)
	}
	if row["npk_ratio"] != "10-10-10" || row["application_date"] != day {
		t.Fatalf("row = %v", row)
	}

	row["quantity"] = int64(2)
	row["npk_ratio"] = []byte("10-10-10")
	row["unmapped"] = "x"
	if got := cols.record(row); !reflect.DeepEqual(got, rec) {
		t.Fatalf("record = %v, want %v", got, rec)
	}

	if _, err := cols.row(model.Record{"secret": 1}); err == nil {
		t.Fatal("row accepted an unknown key")
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("escapeLike = %q", got)
	}
}
