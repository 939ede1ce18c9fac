// Package transformer defines the record transformation contract and the
// chain used to compose individual transforms into a pipeline stage.
package transformer

import "stepsreport/pkg/records"

// Transformer maps a batch of records to a batch of records. Implementations
// must be pure: no side effects, no mutation of the input slice or records,
// output computed from input alone.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer in order, feeding the output of one into the
// next.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
