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
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ColumnDescriptor describes one column of a dataset: its name, its SQL type
// keyword, and whether it should be indexed. All three fields must be set
// before the descriptor is used for schema materialization.
type ColumnDescriptor struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Index bool   `json:"index"`
}

func validateColumns(columns []ColumnDescriptor) error {
	if len(columns) == 0 {
		return newError(ErrValidation, "at least one column descriptor is required")
	}
	for i, col := range columns {
		if col.Name == "" || col.Type == "" {
			return newErrorf(ErrValidation, "column descriptor %d must have both name and type", i)
		}
	}
	return nil
}

// InsertRows writes the rows into the named table in batches, each batch one
// INSERT command. It begins a transaction and, on success, leaves it open:
// committing is the caller's explicit responsibility. On the first failing
// batch the whole transaction is rolled back and the returned error names the
// table; if the rollback itself fails too, both errors are surfaced.
//
// The target type and its properties must already exist; InsertRows creates
// no schema. Each batch holds at most Config.BatchSize rows, shrinking as row
// width grows so statement length stays bounded.
func (c *Client) InsertRows(ctx context.Context, tableName string, rows []map[string]any, columns []ColumnDescriptor) (*Tx, error) {
	if err := validateColumns(columns); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		c.logger.WithField("table", tableName).Warn("no rows to insert")
	}

	tx, err := c.Begin(ctx)
	if err != nil {
		return nil, err
	}

	size := effectiveBatchSize(c.config.BatchSize, len(columns))
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		stmt := renderInsert(tableName, columns, rows[start:end])
		if _, err := tx.Command(ctx, stmt, nil); err != nil {
			insErr := insertError(tableName, err)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				return nil, multierror.Append(insErr, errors.Wrap(rbErr, "rollback failed"))
			}
			return nil, insErr
		}
		c.logger.WithFields(logrus.Fields{"table": tableName, "rows": end - start}).Debug("inserted batch")
	}
	return tx, nil
}

// effectiveBatchSize bounds statement length rather than row count: past a
// reference width, the wider the rows, the fewer rows go into one INSERT.
func effectiveBatchSize(batchSize, width int) int {
	const referenceWidth = 8
	if width <= referenceWidth {
		return batchSize
	}
	size := batchSize * referenceWidth / width
	if size < 1 {
		size = 1
	}
	return size
}

// renderInsert renders one multi-row INSERT command. A row value missing for
// a declared column renders as NULL.
func renderInsert(tableName string, columns []ColumnDescriptor, rows []map[string]any) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(tableName))
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(col.Name))
	}
	b.WriteString(") VALUES ")
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, col := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(sqlLiteral(row[col.Name]))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// sqlString renders a single-quoted SQL string literal with both double and
// single quotes doubled. All string literals emitted by this package go
// through here.
func sqlString(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}

// sqlLiteral renders one row value as an SQL literal. The rules, in priority
// order: nil and NaN/Inf numerics render as NULL; slices render as a
// bracketed, double-quote-escaped, comma-joined array literal; strings are
// single-quoted with quotes doubled; booleans are unquoted true/false;
// everything else is the unquoted string conversion of the value.
func sqlLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "NULL"
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return sqlLiteral(float64(val))
	case string:
		return sqlString(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			return sqlListLiteral(rv)
		}
		return fmt.Sprint(v)
	}
}

func sqlListLiteral(rv reflect.Value) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		el := rv.Index(i).Interface()
		if s, ok := el.(string); ok {
			s = strings.ReplaceAll(s, `\`, `\\`)
			s = strings.ReplaceAll(s, `"`, `\"`)
			b.WriteByte('"')
			b.WriteString(s)
			b.WriteByte('"')
		} else {
			b.WriteString(fmt.Sprint(el))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// insertError wraps a batch failure, preserving the server status and details
// and naming the target table.
func insertError(tableName string, cause error) *Error {
	e := &Error{
		Kind:    ErrQuery,
		Message: fmt.Sprintf("failed to insert batch into %s: %v", tableName, cause),
		cause:   cause,
	}
	var orig *Error
	if stderrors.As(cause, &orig) {
		e.StatusCode = orig.StatusCode
		e.Details = orig.Details
	}
	return e
}
