/*
 * Copyright 2025 the arcadedb-go authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package arcadedb provides a lightweight client for the ArcadeDB HTTP API,
with a versioned dataset ingestion and pagination workflow on top.

# Client

Use NewClient to create a client bound to one database. Authentication is
lazy: the first operation that needs it verifies the credentials.

	client, err := arcadedb.NewClient(&arcadedb.Config{
		Host:     "localhost",
		Database: "mydb",
		Username: "root",
		Password: "secret",
	})

# Ingest versioned datasets

IngestDataset computes the next version for a (bucket, table) pair from the
versions log, materializes the "bucket#table#version" type, inserts the rows
in batches, commits, and records the version:

	name, err := client.IngestDataset(ctx, "URA", "permits", rows, []arcadedb.ColumnDescriptor{
		{Name: "permit_no", Type: "STRING", Index: true},
		{Name: "issued", Type: "BOOLEAN"},
	})

Arrow record batches can be ingested directly with IngestRecords; column
descriptors are inferred from the Arrow schema.

# Read data

ReadTable resolves a logical name to its latest version and streams all rows
back, paginating on the @rid record identifier:

	rows, err := client.ReadTable(ctx, "URA#permits#1", nil)

# Concurrency

A Client is a single logical thread of control: every operation is a blocking
round trip and at most one transaction may be open at a time. Callers needing
parallelism should run multiple clients, each with its own session and
transaction state.

Note that transient failures (429/5xx and connection errors) are retried for
all commands alike, including non-idempotent INSERTs: a retry after an error
that was observed client-side but applied server-side can double-insert a
batch.
*/
package arcadedb
