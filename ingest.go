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

package arcadedb

import (
	"context"

	"github.com/sirupsen/logrus"
)

// IngestDataset materializes the next version of the (bucket, table) dataset
// and fills it with the given rows. The full workflow is: compute the next
// version from the versions log, create the versioned type and its
// properties, insert the rows in batches, commit, and only then record the
// new version in the log. A failure at any step leaves the versions log
// untouched, so it never points at an empty or partially written table.
//
// Ingesting zero rows is a no-op: nothing is materialized, no version is
// recorded, and the returned name is empty.
//
// It returns the materialized "bucket#table#version" name.
func (c *Client) IngestDataset(ctx context.Context, bucket, table string, rows []map[string]any, columns []ColumnDescriptor) (string, error) {
	if bucket == "" || table == "" {
		return "", newError(ErrValidation, "bucket and table must not be empty")
	}
	if err := validateColumns(columns); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		c.logger.WithFields(logrus.Fields{
			"table":  table,
			"bucket": bucket,
		}).Warn("no rows to ingest; versions log left untouched")
		return "", nil
	}

	version, existed, err := c.NextVersion(ctx, table, bucket)
	if err != nil {
		return "", err
	}
	name := EncodeTableName(bucket, table, version)
	c.logger.WithFields(logrus.Fields{
		"table":       name,
		"incremental": existed,
		"rows":        len(rows),
	}).Info("ingesting dataset")

	if err := c.materializeSchema(ctx, name, columns); err != nil {
		return "", err
	}

	tx, err := c.InsertRows(ctx, name, rows, columns)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	if err := c.SaveVersion(ctx, name); err != nil {
		return "", err
	}
	return name, nil
}

// IngestTable replaces the contents of a plain, non-versioned physical table:
// the type is dropped, recreated with the given columns, refilled and
// committed. The versions log is not involved.
func (c *Client) IngestTable(ctx context.Context, name string, rows []map[string]any, columns []ColumnDescriptor) error {
	if err := validateColumns(columns); err != nil {
		return err
	}
	if _, ok := DecodeTableName(name); ok {
		return newErrorf(ErrValidation, "composite table name %q must be ingested as a versioned dataset", name)
	}

	if err := c.DropType(ctx, name, false); err != nil {
		return err
	}
	if err := c.materializeSchema(ctx, name, columns); err != nil {
		return err
	}

	tx, err := c.InsertRows(ctx, name, rows, columns)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (c *Client) materializeSchema(ctx context.Context, name string, columns []ColumnDescriptor) error {
	if err := c.CreateType(ctx, name); err != nil {
		return err
	}
	for _, col := range columns {
		if err := c.CreateProperty(ctx, name, col.Name, col.Type); err != nil {
			return err
		}
		if col.Index {
			if err := c.CreateIndex(ctx, name, col.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
