// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import (
	"encoding/json"
	"math"
	"time"
)

// Claims is a decoded JSON object (a token header or payload). All accessors
// treat keys as optional: a missing or mistyped value reports ok=false
// instead of panicking.
type Claims map[string]any

// Has reports whether key is present, even if its value is null.
func (c Claims) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// String returns the value of key if it is a JSON string.
func (c Claims) String(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// StringOr returns the string value of key, or fallback when it is missing,
// not a string, or empty.
func (c Claims) StringOr(key, fallback string) string {
	if s, ok := c.String(key); ok && s != "" {
		return s
	}
	return fallback
}

// Int64 returns the value of key if it is a whole JSON number.
func (c Claims) Int64(key string) (int64, bool) {
	switch v := c[key].(type) {
	case float64:
		if v != math.Trunc(v) || v >= 1<<63 || v < -(1<<63) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// Time interprets key as a NumericDate (seconds since the epoch).
func (c Claims) Time(key string) (time.Time, bool) {
	n, ok := c.Int64(key)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(n, 0), true
}

// Strings returns key as a list of strings. A single string is returned as a
// one-element list (the "aud" claim may be either). Non-string array entries
// are skipped.
func (c Claims) Strings(key string) ([]string, bool) {
	switch v := c[key].(type) {
	case string:
		return []string{v}, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		return v, true
	default:
		return nil, false
	}
}

// Object returns key as a nested JSON object.
func (c Claims) Object(key string) (Claims, bool) {
	m, ok := c[key].(map[string]any)
	return Claims(m), ok
}

// Algorithm returns the "alg" header parameter, or "" when absent.
func (t *Token) Algorithm() string {
	return t.Header.StringOr("alg", "")
}

// KeyID returns the "kid" header parameter, or "" when absent.
func (t *Token) KeyID() string {
	return t.Header.StringOr("kid", "")
}
