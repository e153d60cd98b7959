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
	"encoding/base64"
	"strings"
)

// PadBase64URL restores the '=' padding that base64url encoders usually strip,
// so that len(s) is a multiple of 4.
func PadBase64URL(s string) string {
	if n := (4 - len(s)%4) % 4; n > 0 {
		return s + strings.Repeat("=", n)
	}
	return s
}

// DecodeBase64URL decodes a base64url-encoded string (with or without padding).
func DecodeBase64URL(s string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(PadBase64URL(s))
}

// EncodeBase64URL encodes bytes as base64url without padding.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// EstimateDecodedLen estimates the byte length behind an unpadded base64url
// segment of n characters.
func EstimateDecodedLen(n int) int {
	return n * 3 / 4
}
