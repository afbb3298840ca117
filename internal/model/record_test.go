package model

import "testing"

func TestRecordAccessors(t *testing.T) {
	r := Record{FieldID: "r1", FieldBusinessID: "tenant-A", "plantName": "Rose"}
	if r.ID() != "r1" || r.BusinessID() != "tenant-A" {
		t.Fatalf("accessors returned %q %q", r.ID(), r.BusinessID())
	}

	c := r.Clone()
	c["plantName"] = "Tulip"
	if r["plantName"] != "Rose" {
		t.Fatal("Clone shares storage with original")
	}

	if (Record{}).ID() != "" {
		t.Fatal("empty record should have empty id")
	}
}

func TestReserved(t *testing.T) {
	for _, k := range []string{FieldID, FieldBusinessID, FieldCreatedAt, FieldUpdatedAt} {
		if !Reserved(k) {
			t.Errorf("Reserved(%q) = false", k)
		}
	}
	if Reserved("plantName") {
		t.Error("Reserved(plantName) = true")
	}
}
