// Package records defines the row representations shared by the pipeline
// stages: a generic, map-backed Record that transformers operate on, plus
// the typed Employee struct used at the Parquet boundary.
package records

// Record is a single row keyed by column name. Values hold whatever the
// parser produced; transformers may replace or add keys.
type Record map[string]any

// Values projects a record onto the given column order. Missing columns
// yield nil, which sinks write as an empty cell / NULL.
func (r Record) Values(columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = r[c]
	}
	return out
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Employee is the input row shape of the employees dataset.
type Employee struct {
	ID         int64  `parquet:"id"`
	FirstName  string `parquet:"first_name"`
	SecondName string `parquet:"second_name"`
	Floor      int64  `parquet:"floor"`
}

// Record converts the typed employee row into the generic pipeline form.
func (e Employee) Record() Record {
	return Record{
		"id":          e.ID,
		"first_name":  e.FirstName,
		"second_name": e.SecondName,
		"floor":       e.Floor,
	}
}

// ReportRow is the typed output row shape, used where the report itself is
// persisted as Parquet (fixtures, seed data).
type ReportRow struct {
	ID          int64  `parquet:"id"`
	Name        string `parquet:"name"`
	StepsToDesk int64  `parquet:"steps_to_desk"`
}

// ReportColumns is the fixed, ordered column set of the steps report.
func ReportColumns() []string {
	return []string{"id", "name", "steps_to_desk"}
}
