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

package format

import (
	"encoding/json"
	"strings"
)

// ExtractToken pulls the compact token out of common wrappers: an
// "Authorization: Bearer" value or an OAuth token response
// ({"access_token": ...}). Anything else is returned trimmed.
func ExtractToken(raw string) string {
	raw = strings.TrimSpace(raw)

	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "authorization:") {
		raw = strings.TrimSpace(raw[len("authorization:"):])
		lower = strings.ToLower(raw)
	}
	if strings.HasPrefix(lower, "bearer ") {
		return strings.TrimSpace(raw[len("bearer "):])
	}

	if strings.HasPrefix(raw, "{") {
		var resp map[string]any
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			return raw
		}
		for _, key := range []string{"access_token", "id_token"} {
			if tok, ok := resp[key].(string); ok && tok != "" {
				return tok
			}
		}
	}

	return raw
}
