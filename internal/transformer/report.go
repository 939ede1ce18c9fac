package transformer

import "stepsreport/internal/transformer/builtin"

// StepsReport builds the transform chain for the steps-to-desk report:
//
//	name          = first_name + " " + second_name
//	steps_to_desk = floor * stepsPerFloor
//	columns       = id, name, steps_to_desk
//
// Each output row derives from exactly one input row; count and order are
// preserved. stepsPerFloor comes from the pipeline config and has already
// been validated as a positive integer.
func StepsReport(stepsPerFloor int) Chain {
	return Chain{
		builtin.Concat{Out: "name", Fields: []string{"first_name", "second_name"}, Sep: " "},
		builtin.Scale{Out: "steps_to_desk", Field: "floor", Factor: int64(stepsPerFloor)},
		builtin.Select{Fields: []string{"id", "name", "steps_to_desk"}},
	}
}
