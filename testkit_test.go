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
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/lucasepe/codename"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeTransport records every request and routes it to a test handler.
type fakeTransport struct {
	handle func(req *apiRequest) (*apiResponse, error)

	mu       sync.Mutex
	requests []*apiRequest
}

var _ roundTripper = (*fakeTransport)(nil)

func (f *fakeTransport) Do(_ context.Context, req *apiRequest) (*apiResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.handle(req)
}

// paths returns the request paths seen so far, in order.
func (f *fakeTransport) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, req.Path)
	}
	return out
}

// commands returns the SQL commands issued so far, in order.
func (f *fakeTransport) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, req := range f.requests {
		if cmd := reqCommand(req); cmd != "" {
			out = append(out, cmd)
		}
	}
	return out
}

func reqCommand(req *apiRequest) string {
	body, ok := req.Body.(map[string]any)
	if !ok {
		return ""
	}
	cmd, _ := body["command"].(string)
	return cmd
}

// newTestClient returns a client wired to a fake transport, already
// authenticated. Tests exercising the lazy authentication path reset
// client.authenticated themselves.
func newTestClient(t *testing.T, handle func(req *apiRequest) (*apiResponse, error)) (*Client, *fakeTransport) {
	t.Helper()
	client, err := NewClient(&Config{
		Database: "testdb",
		Username: "root",
		Password: "playwithdata",
		Logger:   discardLogger(),
	})
	require.NoError(t, err)

	ft := &fakeTransport{handle: handle}
	client.rt = ft
	client.authenticated = true
	return client, ft
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func jsonResponse(status int, body any) (*apiResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return &apiResponse{StatusCode: status, Header: http.Header{}, Body: data}, nil
}

// rowsResponse wraps rows in the command result envelope.
func rowsResponse(rows ...Record) (*apiResponse, error) {
	if rows == nil {
		rows = []Record{}
	}
	return jsonResponse(200, commandResponse{Result: rows})
}

// sessionResponse is a successful begin response carrying a session token.
func sessionResponse(sessionID string) (*apiResponse, error) {
	header := http.Header{}
	header.Set(sessionHeader, sessionID)
	return &apiResponse{StatusCode: 204, Header: header}, nil
}

// randomTableName generates a table name safe to interpolate in commands.
func randomTableName(t *testing.T) string {
	t.Helper()
	rng, err := codename.DefaultRNG()
	require.NoError(t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}

// countTuples counts the value tuples of a rendered INSERT command.
func countTuples(command string) int {
	_, values, found := strings.Cut(command, " VALUES ")
	if !found {
		return 0
	}
	return strings.Count(values, "(")
}
