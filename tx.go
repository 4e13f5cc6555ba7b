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
	"net/http"
)

// sessionHeader carries the transaction session token on every request made
// within the transaction's scope.
const sessionHeader = "arcadedb-session-id"

// Tx is an open server-side transaction. The session token it carries is
// attached explicitly to each command executed through it; it is never stored
// in shared client state, so two clients can never leak tokens into each
// other's requests.
type Tx struct {
	c         *Client
	sessionID string
	done      bool
}

// Begin opens a transaction on the database. Exactly one transaction may be
// open at a time per client; beginning a second one is a validation error.
func (c *Client) Begin(ctx context.Context) (*Tx, error) {
	c.mu.Lock()
	if c.tx != nil {
		c.mu.Unlock()
		return nil, newError(ErrValidation, "a transaction is already open on this client")
	}
	c.mu.Unlock()

	resp, err := c.do(ctx, &apiRequest{
		Method: http.MethodPost,
		Path:   "begin/" + c.config.Database,
		Auth:   true,
	})
	if err != nil {
		return nil, err
	}
	sessionID := resp.Header.Get(sessionHeader)
	if sessionID == "" {
		return nil, newError(ErrQuery, "failed to begin transaction: no session token returned")
	}

	tx := &Tx{c: c, sessionID: sessionID}
	c.mu.Lock()
	c.tx = tx
	c.mu.Unlock()
	c.logger.Debug("transaction started")
	return tx, nil
}

// Command executes one SQL command within the transaction.
func (tx *Tx) Command(ctx context.Context, command string, params map[string]any) ([]Record, error) {
	if tx.done {
		return nil, newError(ErrValidation, "transaction is already closed")
	}
	return tx.c.command(ctx, tx, command, params)
}

// Commit commits the transaction. Once committed the Tx is invalid.
func (tx *Tx) Commit(ctx context.Context) error {
	return tx.finish(ctx, "commit")
}

// Rollback rolls the transaction back. Once rolled back the Tx is invalid.
func (tx *Tx) Rollback(ctx context.Context) error {
	return tx.finish(ctx, "rollback")
}

func (tx *Tx) finish(ctx context.Context, action string) error {
	if tx.done {
		return newError(ErrValidation, "transaction is already closed")
	}

	_, err := tx.c.do(ctx, &apiRequest{
		Method:  http.MethodPost,
		Path:    action + "/" + tx.c.config.Database,
		Auth:    true,
		Headers: map[string]string{sessionHeader: tx.sessionID},
	})
	if err != nil {
		return err
	}

	tx.done = true
	tx.c.mu.Lock()
	if tx.c.tx == tx {
		tx.c.tx = nil
	}
	tx.c.mu.Unlock()
	tx.c.logger.WithField("action", action).Debug("transaction closed")
	return nil
}
