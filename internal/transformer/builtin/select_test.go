package builtin

import (
	"reflect"
	"testing"

	"stepsreport/pkg/records"
)

func TestSelect(t *testing.T) {
	s := Select{Fields: []string{"id", "name"}}

	tests := []struct {
		name string
		in   records.Record
		want records.Record
	}{
		{
			"drops extra columns",
			records.Record{"id": int64(1), "name": "x", "floor": int64(2)},
			records.Record{"id": int64(1), "name": "x"},
		},
		{
			"missing column stays absent",
			records.Record{"id": int64(1)},
			records.Record{"id": int64(1)},
		},
		{
			"empty record",
			records.Record{},
			records.Record{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := s.Apply([]records.Record{tc.in})
			if !reflect.DeepEqual(out[0], tc.want) {
				t.Fatalf("Select = %v; want %v", out[0], tc.want)
			}
		})
	}
}

func TestSelectPreservesOrder(t *testing.T) {
	s := Select{Fields: []string{"id"}}
	in := []records.Record{
		{"id": int64(3)},
		{"id": int64(1)},
		{"id": int64(2)},
	}

	out := s.Apply(in)

	if len(out) != 3 {
		t.Fatalf("row count = %d; want 3", len(out))
	}
	for i, want := range []int64{3, 1, 2} {
		if got := out[i]["id"].(int64); got != want {
			t.Fatalf("row %d: id = %d; want %d", i, got, want)
		}
	}
}
