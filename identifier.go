package arcadedb

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// tableNameSeparator joins the parts of a versioned table name.
const tableNameSeparator = "#"

// TableName is the composite key identifying one version of an ingested
// dataset. Its canonical textual form is "bucket#table#version".
type TableName struct {
	// Bucket is the logical source namespace of the dataset.
	Bucket string
	// Table is the logical table name.
	Table string
	// Version is the textual version part. It is not validated to be numeric
	// at decode time; use VersionNumber for arithmetic.
	Version string
}

// String returns the canonical "bucket#table#version" form.
func (t TableName) String() string {
	return t.Bucket + tableNameSeparator + t.Table + tableNameSeparator + t.Version
}

// VersionNumber parses the version part as a non-negative integer.
func (t TableName) VersionNumber() (int, error) {
	n, err := strconv.Atoi(t.Version)
	if err != nil || n < 0 {
		return 0, newErrorf(ErrValidation, "non-numeric version in table name %q", t.String())
	}
	return n, nil
}

// EncodeTableName builds the composite "bucket#table#version" name. A version
// of 0 is valid and denotes "not yet versioned". Bucket and table must be
// non-empty for the result to round-trip through DecodeTableName; the codec
// does not reject empty parts itself, callers validate before encoding.
func EncodeTableName(bucket, table string, version int) string {
	return TableName{Bucket: bucket, Table: table, Version: strconv.Itoa(version)}.String()
}

// DecodeTableName splits a composite table name into its parts. It returns
// false unless splitting on "#" yields exactly 3 non-empty parts; callers
// treat that as a bare, unversioned table name and pass it through unchanged.
func DecodeTableName(name string) (TableName, bool) {
	parts := strings.Split(name, tableNameSeparator)
	if len(parts) != 3 {
		return TableName{}, false
	}
	for _, p := range parts {
		if p == "" {
			return TableName{}, false
		}
	}
	return TableName{Bucket: parts[0], Table: parts[1], Version: parts[2]}, true
}

// quoteIdent back-quotes an identifier for use in an SQL command. Versioned
// table names contain "#", which is not a bare identifier character, so every
// identifier emitted by this package goes through here.
func quoteIdent(s string) string {
	var b bytes.Buffer
	b.WriteByte('`')
	for _, c := range s {
		switch c {
		case '`':
			// ArcadeDB has no escape for a backtick inside a back-quoted
			// identifier; drop it rather than emit a malformed command.
			continue
		case '\t':
			b.WriteString("\\t")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		default:
			if c < 0x20 {
				b.WriteString(fmt.Sprintf("\\x%02x", c))
				break
			}
			b.WriteRune(c)
		}
	}
	b.WriteByte('`')
	return b.String()
}
