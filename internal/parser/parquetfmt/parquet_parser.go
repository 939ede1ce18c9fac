// Package parquetfmt implements the Parquet input format for the employees
// dataset. Decoding is delegated to github.com/parquet-go/parquet-go; rows
// are mapped onto the typed Employee shape and then converted to generic
// records for the transform stage.
//
// Parquet requires random access (the footer holds the file metadata), so
// Parse buffers the full input before decoding. The employees dataset is a
// small batch input; streaming decode is not worth the complexity here.
package parquetfmt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"stepsreport/pkg/records"
)

// Parser decodes a Parquet file of employee rows. The zero value is ready to
// use; it is safe to reuse across inputs.
type Parser struct{}

// NewParser constructs a Parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads the entire input and decodes it as Parquet into employee
// records. Column names and types must match the Employee schema (id,
// first_name, second_name, floor); mismatches surface as the decoder's
// error, unwrapped.
func (p *Parser) Parse(r io.Reader) ([]records.Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parquet: read input: %w", err)
	}

	rows, err := parquet.Read[records.Employee](bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parquet: decode: %w", err)
	}

	out := make([]records.Record, len(rows))
	for i, e := range rows {
		out[i] = e.Record()
	}
	return out, nil
}

// WriteEmployees encodes employee rows as a single Parquet file. It is the
// counterpart of Parse, used by the seed command and by tests to produce
// fixtures.
func WriteEmployees(w io.Writer, rows []records.Employee) error {
	if err := parquet.Write[records.Employee](w, rows); err != nil {
		return fmt.Errorf("parquet: encode: %w", err)
	}
	return nil
}

// WriteReport encodes transformed report rows as a single Parquet file, used
// by the seed command to persist the expected post-transform dataset.
func WriteReport(w io.Writer, rows []records.ReportRow) error {
	if err := parquet.Write[records.ReportRow](w, rows); err != nil {
		return fmt.Errorf("parquet: encode: %w", err)
	}
	return nil
}
