// Command etl runs the steps-to-desk report job: extract employees from a
// Parquet file, transform them row-wise, and load the report into a CSV file
// or a database table. The pipeline is described by a JSON config document;
// see configs/pipelines/steps_report.json for a worked example.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "stepsreport/internal/storage/all"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
