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
	"errors"
	"fmt"
)

// ErrorKind classifies the failures surfaced by this package. Callers can
// branch on the kind without parsing message text.
type ErrorKind string

const (
	// ErrConnection indicates the server could not be reached.
	ErrConnection ErrorKind = "connection"
	// ErrTimeout indicates no response arrived within the configured budget.
	ErrTimeout ErrorKind = "timeout"
	// ErrAuthentication indicates the server rejected the credentials (HTTP 401).
	ErrAuthentication ErrorKind = "authentication"
	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound ErrorKind = "not_found"
	// ErrQuery indicates a command failed on the server: malformed SQL,
	// a constraint violation, or any other 4xx/5xx during a command.
	ErrQuery ErrorKind = "query"
	// ErrConfiguration indicates invalid settings supplied at construction.
	ErrConfiguration ErrorKind = "configuration"
	// ErrValidation indicates malformed caller input, such as an incomplete
	// column descriptor.
	ErrValidation ErrorKind = "validation"
)

// Error is the error type returned by all operations in this package.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Details    map[string]any

	cause error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("arcadedb: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("arcadedb: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func newErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf("%s: %v", message, cause), cause: cause}
}

// KindOf returns the ErrorKind of err, or the empty string if err was not
// produced by this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err (or any error in its chain) carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// errorDetail is the shape of an error body returned by the ArcadeDB HTTP API.
type errorDetail struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	Exception string `json:"exception"`
}

func (d *errorDetail) message(fallback string) string {
	switch {
	case d.Error != "":
		return d.Error
	case d.Detail != "":
		return d.Detail
	case d.Exception != "":
		return d.Exception
	default:
		return fallback
	}
}
