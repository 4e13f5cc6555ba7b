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
	"strconv"
)

// Record is a single row returned by the server, keyed by field name.
// Server-assigned metadata fields use the "@" prefix: "@rid", "@type", "@cat".
type Record map[string]any

// ridField is the server-assigned record identifier used as pagination cursor.
const ridField = "@rid"

// metaFields are the server-assigned fields stripped from high-level reads.
var metaFields = []string{"@rid", "@type", "@cat"}

// RID returns the record identifier, if present.
func (r Record) RID() (string, bool) {
	return r.String(ridField)
}

// String returns the named field as a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int64 returns the named field as an int64. JSON numbers arrive as float64;
// string-encoded integers are accepted as well.
func (r Record) Int64(key string) (int64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// Bool returns the named field as a bool.
func (r Record) Bool(key string) (bool, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// withoutMeta returns a copy of the record with the server metadata fields
// removed.
func (r Record) withoutMeta() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range metaFields {
		delete(out, k)
	}
	return out
}

// commandResponse is the envelope of a successful command execution.
type commandResponse struct {
	Result []Record `json:"result"`
}
