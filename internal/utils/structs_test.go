package utils

import (
	"reflect"
	"testing"
)

type taggedRecord struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Skipped string `db:"-"`
	NoTag   string
	hidden  string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	var record taggedRecord

	want := []string{"id", "name"}

	if got := StructTagValues(record); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := StructTagValues(&record); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected pointer input to behave the same, got %v", got)
	}
}

func TestStructToMap(t *testing.T) {
	record := taggedRecord{ID: "abc", Name: "Waiver", Skipped: "nope", NoTag: "nope"}

	got := StructToMap(record)
	want := map[string]any{"id": "abc", "name": "Waiver"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRoundFloat64(t *testing.T) {
	if got := RoundFloat64(8.333333, 2); got != 8.33 {
		t.Fatalf("expected 8.33, got %v", got)
	}
	if got := RoundFloat64(1.5, 0); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}
