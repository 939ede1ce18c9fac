package parser

import (
	"io"

	"stepsreport/pkg/records"
)

// Parser turns raw source bytes into generic records. Implementations select
// the input format; callers stay format-agnostic.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, error)
}
