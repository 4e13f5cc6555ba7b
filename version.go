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
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// versionsTable is the fixed physical type name of the append-only version
// log: one row per materialized versioned table, with columns classname,
// bucket, version and timestamp.
const versionsTable = "versions"

// NextVersion computes the next version number for the (table, bucket) pair
// from the versions log. It returns the version to materialize and whether a
// prior version exists. An empty log and a logged version of 0 both mean
// "never versioned before" and yield (1, false).
func (c *Client) NextVersion(ctx context.Context, table, bucket string) (int, bool, error) {
	sql := fmt.Sprintf(
		"SELECT max(version) AS lastversion FROM %s WHERE classname = %s AND %s = %s",
		versionsTable, sqlString(table), quoteIdent("bucket"), sqlString(bucket),
	)
	rows, err := c.Command(ctx, sql, nil)
	if err != nil {
		return 0, false, err
	}

	var last int64
	if len(rows) > 0 {
		if v, ok := rows[0].Int64("lastversion"); ok {
			last = v
		}
	}
	if last <= 0 {
		return 1, false, nil
	}
	return int(last) + 1, true, nil
}

// LatestTableName resolves a logical or composite table name to the latest
// materialized "bucket#table#version" name.
//
// If name already has the composite shape, its bucket is used unless an
// explicit bucket override is supplied. If name is not composite and no
// bucket is given, name refers to a plain physical table and is returned
// unchanged. Otherwise the versions log is consulted; when no version has
// been recorded yet the result encodes version 0, which callers must treat
// as "no prior version; must be created".
func (c *Client) LatestTableName(ctx context.Context, name, bucket string) (string, error) {
	table := name
	if decoded, ok := DecodeTableName(name); ok {
		table = decoded.Table
		if bucket == "" {
			bucket = decoded.Bucket
		}
	} else if bucket == "" {
		return name, nil
	}

	sql := fmt.Sprintf(
		"SELECT %s AS b, classname, max(version) AS version FROM %s WHERE classname = %s AND %s = %s",
		quoteIdent("bucket"), versionsTable, sqlString(table), quoteIdent("bucket"), sqlString(bucket),
	)
	rows, err := c.Command(ctx, sql, nil)
	if err != nil {
		return "", err
	}

	if len(rows) > 0 {
		if version, ok := rows[0].Int64("version"); ok {
			b, _ := rows[0].String("b")
			classname, _ := rows[0].String("classname")
			if b != "" && classname != "" {
				return EncodeTableName(b, classname, int(version)), nil
			}
		}
	}
	return EncodeTableName(bucket, table, 0), nil
}

// SaveVersion appends one entry for the given composite table name to the
// versions log. Entries are append-only; this must be called only after the
// table has actually been populated and committed, so the log never points at
// an empty or partial table.
func (c *Client) SaveVersion(ctx context.Context, name string) error {
	decoded, ok := DecodeTableName(name)
	if !ok {
		return newErrorf(ErrValidation, "not a composite table name: %q", name)
	}
	version, err := decoded.VersionNumber()
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	sql := fmt.Sprintf(
		"INSERT INTO %s SET classname = %s, timestamp = %s, version = %d, %s = %s",
		versionsTable, sqlString(decoded.Table), sqlString(timestamp), version,
		quoteIdent("bucket"), sqlString(decoded.Bucket),
	)
	if _, err := c.Command(ctx, sql, nil); err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{
		"table":   decoded.Table,
		"bucket":  decoded.Bucket,
		"version": version,
	}).Info("recorded table version")
	return nil
}
