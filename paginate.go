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
	"strconv"
	"strings"
)

// PageQuery describes the SELECT driven by a paginated read. Base must not
// contain WHERE, ORDER BY or LIMIT clauses of its own; the paginator appends
// them.
type PageQuery struct {
	// Base is the "SELECT ... FROM ..." part of the query.
	Base string
	// Filter is an optional predicate, ANDed with the cursor bound.
	Filter string
}

func (q PageQuery) render(cursor string, pageSize int) string {
	conds := make([]string, 0, 2)
	if q.Filter != "" {
		conds = append(conds, q.Filter)
	}
	if cursor != "" {
		// The cursor is an exclusive lower bound on the record identifier.
		conds = append(conds, ridField+" > "+cursor)
	}

	var b strings.Builder
	b.WriteString(q.Base)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY " + ridField + " LIMIT ")
	b.WriteString(strconv.Itoa(pageSize))
	return b.String()
}

// fetchPage executes one page of the query and returns the rows together with
// the advanced cursor: the record identifier of the last row, or the cursor
// unchanged when the page is empty.
func (c *Client) fetchPage(ctx context.Context, query PageQuery, cursor string, pageSize int) ([]Record, string, error) {
	rows, err := c.Command(ctx, query.render(cursor, pageSize), nil)
	if err != nil {
		return nil, cursor, err
	}
	if len(rows) == 0 {
		return rows, cursor, nil
	}

	rid, ok := rows[len(rows)-1].RID()
	if !ok {
		return nil, cursor, newError(ErrQuery, "result rows carry no @rid; include it in the select list to paginate")
	}
	return rows, rid, nil
}

// ReadAll fetches every row the query matches, page by page in ascending
// record-identifier order, and returns them concatenated.
//
// The read terminates when a page comes back shorter than pageSize. When the
// true result size is an exact multiple of the page size this costs one extra
// round trip for a final empty page; in exchange the end of the stream is
// always confirmed and no rows are ever dropped.
func (c *Client) ReadAll(ctx context.Context, query PageQuery, pageSize int) ([]Record, error) {
	if pageSize <= 0 {
		pageSize = c.config.PageSize
	}

	var out []Record
	cursor := ""
	for {
		rows, next, err := c.fetchPage(ctx, query, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
		if len(rows) < pageSize {
			return out, nil
		}
		cursor = next
	}
}

// ReadOptions tunes ReadTable.
type ReadOptions struct {
	// Fields restricts the columns read. Empty means all columns.
	Fields []string
	// Filter is an optional raw predicate applied to both the row count
	// pre-check and the paginated read.
	Filter string
	// Bucket overrides the bucket used for version resolution.
	Bucket string
	// PageSize overrides Config.PageSize for this read.
	PageSize int
	// NoVersioning reads name as a plain physical table instead of resolving
	// it through the versions log.
	NoVersioning bool
}

// ReadTable reads all rows of a logical or composite table. Unless
// NoVersioning is set, the name is first resolved to its latest materialized
// version. Server metadata fields (@rid, @type, @cat) are stripped from the
// returned records.
//
// The row count pre-check and the paginated read are separate statements and
// are not transactionally consistent: rows written in between can make the
// count stale. The pre-check only short-circuits empty tables; the paginated
// read itself never relies on the count.
func (c *Client) ReadTable(ctx context.Context, name string, opts *ReadOptions) ([]Record, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}

	if !opts.NoVersioning {
		resolved, err := c.LatestTableName(ctx, name, opts.Bucket)
		if err != nil {
			return nil, err
		}
		name = resolved
	}
	c.logger.WithField("table", name).Debug("reading table")

	count, err := c.Count(ctx, name, opts.Filter)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		c.logger.WithField("table", name).Warn("no records found")
		return nil, nil
	}

	selectList := "*"
	if len(opts.Fields) > 0 {
		quoted := make([]string, 0, len(opts.Fields)+1)
		for _, f := range opts.Fields {
			quoted = append(quoted, quoteIdent(f))
		}
		// The cursor needs @rid even when the caller did not ask for it.
		quoted = append(quoted, ridField)
		selectList = strings.Join(quoted, ", ")
	}

	rows, err := c.ReadAll(ctx, PageQuery{
		Base:   "SELECT " + selectList + " FROM " + quoteIdent(name),
		Filter: opts.Filter,
	}, opts.PageSize)
	if err != nil {
		return nil, err
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = row.withoutMeta()
	}
	return out, nil
}

// Count returns the number of rows in the table, optionally restricted by a
// raw filter predicate.
func (c *Client) Count(ctx context.Context, tableName, filter string) (int64, error) {
	sql := "SELECT COUNT(*) AS counting FROM " + quoteIdent(tableName)
	if filter != "" {
		sql += " WHERE " + filter
	}
	rows, err := c.Command(ctx, sql, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	count, ok := rows[0].Int64("counting")
	if !ok {
		return 0, newErrorf(ErrQuery, "count query on %s returned no readable counting field", tableName)
	}
	return count, nil
}
