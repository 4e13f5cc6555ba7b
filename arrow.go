package arcadedb

import (
	"context"
	"slices"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// timestampLayout is the textual form ArcadeDB accepts for DATETIME literals.
const timestampLayout = "2006-01-02 15:04:05"

// InferColumns derives column descriptors from an Arrow schema. A column is
// flagged for indexing when its name appears in indexable.
func InferColumns(schema *arrow.Schema, indexable []string) []ColumnDescriptor {
	columns := make([]ColumnDescriptor, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		columns = append(columns, ColumnDescriptor{
			Name:  field.Name,
			Type:  sqlTypeOf(field.Type),
			Index: slices.Contains(indexable, field.Name),
		})
	}
	return columns
}

// sqlTypeOf maps an Arrow data type to the ArcadeDB SQL type keyword.
func sqlTypeOf(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.BOOL:
		return "BOOLEAN"
	case arrow.INT8, arrow.UINT8:
		return "BYTE"
	case arrow.INT16, arrow.UINT16:
		return "SHORT"
	case arrow.INT32, arrow.UINT32:
		return "INTEGER"
	case arrow.INT64, arrow.UINT64:
		return "LONG"
	case arrow.FLOAT32:
		return "FLOAT"
	case arrow.FLOAT64:
		return "DOUBLE"
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return "DATETIME"
	case arrow.LIST, arrow.LARGE_LIST:
		return "LIST"
	default:
		return "STRING"
	}
}

// RecordRows converts an Arrow record batch into row maps keyed by field
// name, ready for InsertRows. Null cells become nil.
func RecordRows(rec arrow.Record) []map[string]any {
	schema := rec.Schema()
	rows := make([]map[string]any, rec.NumRows())
	for i := range rows {
		row := make(map[string]any, schema.NumFields())
		for j, field := range schema.Fields() {
			row[field.Name] = cellValue(rec.Column(j), i)
		}
		rows[i] = row
	}
	return rows
}

func cellValue(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return nil
	}
	switch arr := col.(type) {
	case *array.Boolean:
		return arr.Value(i)
	case *array.Int8:
		return int64(arr.Value(i))
	case *array.Int16:
		return int64(arr.Value(i))
	case *array.Int32:
		return int64(arr.Value(i))
	case *array.Int64:
		return arr.Value(i)
	case *array.Uint8:
		return int64(arr.Value(i))
	case *array.Uint16:
		return int64(arr.Value(i))
	case *array.Uint32:
		return int64(arr.Value(i))
	case *array.Uint64:
		return int64(arr.Value(i))
	case *array.Float32:
		return float64(arr.Value(i))
	case *array.Float64:
		return arr.Value(i)
	case *array.String:
		return arr.Value(i)
	case *array.LargeString:
		return arr.Value(i)
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return arr.Value(i).ToTime(unit).Format(timestampLayout)
	case *array.List:
		start, end := arr.ValueOffsets(i)
		values := arr.ListValues()
		out := make([]any, 0, end-start)
		for j := start; j < end; j++ {
			out = append(out, cellValue(values, int(j)))
		}
		return out
	default:
		return col.ValueStr(i)
	}
}

// IngestRecords ingests Arrow record batches as the next version of the
// (bucket, table) dataset. Column descriptors are inferred from the schema of
// the first batch, with Config.IndexableColumns driving the index flags; all
// batches must share that schema.
func (c *Client) IngestRecords(ctx context.Context, bucket, table string, batches []arrow.Record) (string, error) {
	if len(batches) == 0 {
		return "", newError(ErrValidation, "cannot ingest empty batches")
	}
	schema := batches[0].Schema()
	for _, batch := range batches[1:] {
		if !batch.Schema().Equal(schema) {
			return "", newError(ErrValidation, "schema mismatch between record batches")
		}
	}

	var rows []map[string]any
	for _, batch := range batches {
		rows = append(rows, RecordRows(batch)...)
	}
	columns := InferColumns(schema, c.config.IndexableColumns)
	return c.IngestDataset(ctx, bucket, table, rows, columns)
}
