package builtin

import "stepsreport/pkg/records"

// Scale multiplies the integer value of Field by Factor and stores the
// product under Out. Arithmetic is exact int64; there is no rounding. When
// Field is absent or not an integer, the record passes through without Out
// (missing inputs are not guarded, matching the let-it-fail policy of the
// job).
type Scale struct {
	Out    string
	Field  string
	Factor int64
}

// Apply returns a new slice of records with the scaled field added. Input
// records are not mutated.
func (s Scale) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	for i, rec := range in {
		next := rec.Clone()
		if n, ok := asInt64(rec[s.Field]); ok {
			next[s.Out] = n * s.Factor
		}
		out[i] = next
	}
	return out
}

// asInt64 widens the integer types a parser may produce. Strings and floats
// are deliberately not accepted; types are settled before the transform.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	}
	return 0, false
}
