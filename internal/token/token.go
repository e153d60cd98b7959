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

// Package token decodes compact, dot-separated, base64url-encoded signed
// claim tokens (JWS compact serialization) without verifying them.
package token

import (
	"encoding/json"
	"strings"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
)

// Token is a decoded compact token.
type Token struct {
	Raw     string
	Header  Claims
	Payload Claims
	// Signature is the third segment exactly as received, still encoded.
	Signature string
	// SignedMessage is header segment + "." + payload segment as received.
	// Signature verification has to run over these bytes.
	SignedMessage string
}

// Decode splits raw into its three segments and decodes header and payload
// into JSON objects. It performs no signature verification.
func Decode(raw string) (*Token, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, &MalformedTokenError{Cause: CauseSegmentCount, Count: len(parts)}
	}

	header, err := decodeSegment("header", parts[0])
	if err != nil {
		return nil, err
	}

	payload, err := decodeSegment("payload", parts[1])
	if err != nil {
		return nil, err
	}

	return &Token{
		Raw:           raw,
		Header:        header,
		Payload:       payload,
		Signature:     parts[2],
		SignedMessage: parts[0] + "." + parts[1],
	}, nil
}

func decodeSegment(name, segment string) (Claims, error) {
	b, err := format.DecodeBase64URL(segment)
	if err != nil {
		return nil, &MalformedTokenError{Cause: CauseEncoding, Segment: name, Err: err}
	}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, &MalformedTokenError{Cause: CauseStructure, Segment: name, Err: err}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedTokenError{Cause: CauseStructure, Segment: name, Err: &notObjectError{got: v}}
	}

	return Claims(obj), nil
}
