// Package migrations ships the SQL schema of the storage backends.
package migrations

import "embed"

// BigQuery holds the numbered BigQuery migrations applied by cmd/migrate.
// {{PROJECT_ID}} and {{DATASET_ID}} are substituted at apply time.
//
//go:embed bigquery/*.sql
var BigQuery embed.FS
