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
	"errors"
	"fmt"
)

// ErrMalformed matches every *MalformedTokenError via errors.Is.
var ErrMalformed = errors.New("malformed token")

// Cause says which structural check a token failed.
type Cause int

const (
	// CauseSegmentCount: the token does not have exactly three '.'-separated segments.
	CauseSegmentCount Cause = iota + 1
	// CauseEncoding: a segment is not valid base64url.
	CauseEncoding
	// CauseStructure: a segment is not valid JSON, or not a JSON object.
	CauseStructure
)

func (c Cause) String() string {
	switch c {
	case CauseSegmentCount:
		return "segment count"
	case CauseEncoding:
		return "encoding"
	case CauseStructure:
		return "structure"
	default:
		return fmt.Sprintf("cause(%d)", int(c))
	}
}

// MalformedTokenError reports a token that could not be decoded.
type MalformedTokenError struct {
	Cause   Cause
	Segment string // "header" or "payload"; empty for CauseSegmentCount
	Count   int    // number of segments found, for CauseSegmentCount
	Err     error
}

func (e *MalformedTokenError) Error() string {
	switch e.Cause {
	case CauseSegmentCount:
		return fmt.Sprintf("malformed token: expected 3 segments separated by '.', got %d", e.Count)
	case CauseEncoding:
		return fmt.Sprintf("malformed token: %s is not valid base64url: %v", e.Segment, e.Err)
	default:
		return fmt.Sprintf("malformed token: %s is not a JSON object: %v", e.Segment, e.Err)
	}
}

func (e *MalformedTokenError) Unwrap() error {
	return e.Err
}

func (e *MalformedTokenError) Is(target error) bool {
	return target == ErrMalformed
}

type notObjectError struct {
	got any
}

func (e *notObjectError) Error() string {
	switch e.got.(type) {
	case nil:
		return "got null"
	case []any:
		return "got array"
	case string:
		return "got string"
	case float64:
		return "got number"
	case bool:
		return "got boolean"
	default:
		return fmt.Sprintf("got %T", e.got)
	}
}
