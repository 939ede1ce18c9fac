// Package builtin contains simple, reusable transformers used in the ETL.
package builtin

import (
	"fmt"
	"strings"

	"stepsreport/pkg/records"
)

// Concat joins the string values of Fields with Sep and stores the result
// under Out. The join is exact: no trimming, one separator between adjacent
// fields. Non-string values are rendered with fmt.Sprint; missing fields
// contribute an empty segment (the record is otherwise left as-is).
type Concat struct {
	Out    string
	Fields []string
	Sep    string
}

// Apply returns a new slice of records with the concatenated field added.
// Input records are not mutated.
func (c Concat) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	for i, rec := range in {
		parts := make([]string, len(c.Fields))
		for j, f := range c.Fields {
			switch v := rec[f].(type) {
			case nil:
				parts[j] = ""
			case string:
				parts[j] = v
			default:
				parts[j] = fmt.Sprint(v)
			}
		}
		next := rec.Clone()
		next[c.Out] = strings.Join(parts, c.Sep)
		out[i] = next
	}
	return out
}
