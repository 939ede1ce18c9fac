package builtin

import "stepsreport/pkg/records"

// Select projects every record onto the given column set, dropping all other
// keys. Row count and order are preserved; a missing column stays absent in
// the output record.
type Select struct {
	Fields []string
}

// Apply returns a new slice of projected records. Input records are not
// mutated.
func (s Select) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	for i, rec := range in {
		next := make(records.Record, len(s.Fields))
		for _, f := range s.Fields {
			if v, ok := rec[f]; ok {
				next[f] = v
			}
		}
		out[i] = next
	}
	return out
}
