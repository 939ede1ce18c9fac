// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "csv"      (stepsreport/internal/storage/csvfile)
//   - "sqlite"   (stepsreport/internal/storage/sqlite)
//   - "postgres" (stepsreport/internal/storage/postgres)
//   - "mssql"    (stepsreport/internal/storage/mssql)
package all

import (
	_ "stepsreport/internal/storage/csvfile"
	_ "stepsreport/internal/storage/mssql"
	_ "stepsreport/internal/storage/postgres"
	_ "stepsreport/internal/storage/sqlite"
)
