package arcadedb

import (
	"context"
	"fmt"
	"strings"
)

// CreateType creates a document type if it does not exist yet. Versioned
// table names contain "#", so the name is always back-quoted.
func (c *Client) CreateType(ctx context.Context, name string) error {
	_, err := c.Command(ctx, fmt.Sprintf("CREATE DOCUMENT TYPE %s IF NOT EXISTS", quoteIdent(name)), nil)
	if err != nil {
		return err
	}
	c.logger.WithField("type", name).Debug("type created")
	return nil
}

// CreateProperty creates a property on the type if it does not exist yet.
// The type keyword is upper-cased before emission.
func (c *Client) CreateProperty(ctx context.Context, typeName, fieldName, fieldType string) error {
	if fieldType == "" {
		fieldType = "STRING"
	}
	_, err := c.Command(ctx, fmt.Sprintf(
		"CREATE PROPERTY %s.%s IF NOT EXISTS %s",
		quoteIdent(typeName), quoteIdent(fieldName), strings.ToUpper(fieldType),
	), nil)
	return err
}

// CreateIndex creates a non-unique index on the given property if it does not
// exist yet.
func (c *Client) CreateIndex(ctx context.Context, typeName, fieldName string) error {
	_, err := c.Command(ctx, fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS ON %s (%s) NOTUNIQUE",
		quoteIdent(typeName), quoteIdent(fieldName),
	), nil)
	return err
}

// DropType drops a document type if it exists. Setting unsafe forces the drop
// even when the type is indexed or referenced; it must be an explicit opt-in,
// never the default.
func (c *Client) DropType(ctx context.Context, name string, unsafe bool) error {
	stmt := "DROP TYPE " + quoteIdent(name)
	if unsafe {
		stmt += " UNSAFE"
	}
	stmt += " IF EXISTS"
	_, err := c.Command(ctx, stmt, nil)
	if err != nil {
		return err
	}
	c.logger.WithField("type", name).Debug("type dropped")
	return nil
}
