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
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Client talks to one database on an ArcadeDB server over its HTTP API.
//
// A Client is safe to construct cheaply and performs no I/O until the first
// operation. Authentication is lazy: the first operation that requires it
// verifies the credentials against the configured database and remembers the
// outcome. At most one transaction may be open per Client at a time.
type Client struct {
	config *Config
	rt     roundTripper
	logger logrus.FieldLogger

	mu            sync.Mutex
	authenticated bool
	tx            *Tx
}

// NewClient creates a client for the database named in config. It validates
// the configuration but does not contact the server; use Ping for that.
func NewClient(config *Config) (*Client, error) {
	cfg := config.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: cfg,
		rt:     newHTTPTransport(cfg),
		logger: cfg.Logger.WithField("database", cfg.Database),
	}, nil
}

// Close releases the idle connections held by the client.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the client is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (c *Client) Close() {
	if t, ok := c.rt.(*httpTransport); ok {
		t.client.CloseIdleConnections()
	}
}

// Ping checks that the server is reachable and ready. It does not
// authenticate.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rt.Do(ctx, &apiRequest{Method: http.MethodGet, Path: "ready"})
	return err
}

// Authenticate verifies the configured credentials against the database.
// Operations that require authentication call this automatically on first
// use; it is exposed for callers that want to fail fast.
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.rt.Do(ctx, &apiRequest{
		Method: http.MethodGet,
		Path:   "exists/" + c.config.Database,
		Auth:   true,
	})
	c.mu.Lock()
	c.authenticated = err == nil
	c.mu.Unlock()
	if err != nil {
		c.logger.WithError(err).Error("authentication failed")
		return err
	}
	c.logger.Debug("authenticated")
	return nil
}

// do issues an authenticated API request, authenticating first if the client
// has not done so yet. A server-side authentication failure is not retried.
func (c *Client) do(ctx context.Context, req *apiRequest) (*apiResponse, error) {
	if req.Auth {
		c.mu.Lock()
		authenticated := c.authenticated
		c.mu.Unlock()
		if !authenticated {
			if err := c.Authenticate(ctx); err != nil {
				return nil, err
			}
		}
	}
	return c.rt.Do(ctx, req)
}

// Command executes one SQL command against the database and returns the
// result rows. Parameters, if any, are bound server-side.
func (c *Client) Command(ctx context.Context, command string, params map[string]any) ([]Record, error) {
	return c.command(ctx, nil, command, params)
}

func (c *Client) command(ctx context.Context, tx *Tx, command string, params map[string]any) ([]Record, error) {
	body := map[string]any{
		"command":  command,
		"language": "sql",
	}
	if len(params) > 0 {
		body["parameters"] = params
	}

	req := &apiRequest{
		Method: http.MethodPost,
		Path:   "command/" + c.config.Database,
		Body:   body,
		Auth:   true,
	}
	if tx != nil {
		req.Headers = map[string]string{sessionHeader: tx.sessionID}
	}

	c.logger.WithField("command", command).Debug("executing command")
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var out commandResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, wrapError(ErrQuery, err, "failed to decode command response")
	}
	return out.Result, nil
}

// Update sets one field to a new value on every record of the table, such as
// bumping a counter. The value is rendered with the same literal rules as
// batched inserts.
func (c *Client) Update(ctx context.Context, tableName, field string, value any) error {
	sql := fmt.Sprintf("UPDATE %s SET %s = %s",
		quoteIdent(tableName), quoteIdent(field), sqlLiteral(value))
	if _, err := c.Command(ctx, sql, nil); err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{"table": tableName, "field": field}).Debug("field updated")
	return nil
}

// ServerInfo returns the server information document.
func (c *Client) ServerInfo(ctx context.Context) (Record, error) {
	resp, err := c.do(ctx, &apiRequest{Method: http.MethodGet, Path: "server", Auth: true})
	if err != nil {
		return nil, err
	}
	var info Record
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, wrapError(ErrQuery, err, "failed to decode server info")
	}
	return info, nil
}

// ListDatabases returns the names of the databases available on the server.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, &apiRequest{Method: http.MethodGet, Path: "databases", Auth: true})
	if err != nil {
		return nil, err
	}
	var out struct {
		Result []string `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, wrapError(ErrQuery, err, "failed to decode database list")
	}
	return out.Result, nil
}

// ListTypes returns the names of the document types defined in the database.
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	rows, err := c.Command(ctx, "SELECT FROM schema:types", nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row.String("name"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
