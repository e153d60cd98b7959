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
	"reflect"
	"testing"
	"time"
)

func TestClaims_String(t *testing.T) {
	c := Claims{"iss": "https://kc", "n": 1.0, "empty": ""}

	if s, ok := c.String("iss"); !ok || s != "https://kc" {
		t.Errorf("String(iss) = %q, %v", s, ok)
	}
	if _, ok := c.String("n"); ok {
		t.Error("String on a number should report !ok")
	}
	if _, ok := c.String("missing"); ok {
		t.Error("String on a missing key should report !ok")
	}
	if got := c.StringOr("missing", "N/A"); got != "N/A" {
		t.Errorf("StringOr(missing) = %q", got)
	}
	if got := c.StringOr("empty", "N/A"); got != "N/A" {
		t.Errorf("StringOr(empty) = %q", got)
	}
	if got := c.StringOr("n", "N/A"); got != "N/A" {
		t.Errorf("StringOr(number) = %q", got)
	}
}

func TestClaims_Int64(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int64
		wantOK bool
	}{
		{"float whole", 1700000000.0, 1700000000, true},
		{"float fraction", 1.5, 0, false},
		{"float max int64", 9223372036854775807.0, 0, false},
		{"float overflow", 9223372036854775808.0, 0, false},
		{"float negative overflow", -9223372036854777856.0, 0, false},
		{"float min int64", -9223372036854775808.0, math.MinInt64, true},
		{"json number", json.Number("42"), 42, true},
		{"json number fraction", json.Number("4.2"), 0, false},
		{"int", 7, 7, true},
		{"string", "42", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Claims{"k": tt.value}.Int64("k")
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Int64() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClaims_Time(t *testing.T) {
	c := Claims{"exp": 1700000000.0, "bad": "soon"}
	got, ok := c.Time("exp")
	if !ok || !got.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Time(exp) = %v, %v", got, ok)
	}
	if _, ok := c.Time("bad"); ok {
		t.Error("Time on a string should report !ok")
	}
}

func TestClaims_Strings(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   []string
		wantOK bool
	}{
		{"single", "account", []string{"account"}, true},
		{"array", []any{"a", "b"}, []string{"a", "b"}, true},
		{"mixed array", []any{"a", 1.0, "b"}, []string{"a", "b"}, true},
		{"number", 1.0, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Claims{"aud": tt.value}.Strings("aud")
			if ok != tt.wantOK || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Strings() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClaims_ObjectAndHas(t *testing.T) {
	c := Claims{
		"realm_access": map[string]any{"roles": []any{"user"}},
		"nothing":      nil,
	}
	ra, ok := c.Object("realm_access")
	if !ok {
		t.Fatal("expected realm_access object")
	}
	if roles, _ := ra.Strings("roles"); len(roles) != 1 || roles[0] != "user" {
		t.Errorf("roles = %v", roles)
	}
	if _, ok := c.Object("nothing"); ok {
		t.Error("Object(null) should report !ok")
	}
	if !c.Has("nothing") {
		t.Error("Has should report keys with null values")
	}
	if c.Has("missing") {
		t.Error("Has(missing) should be false")
	}
}

func TestClaims_NilMapIsSafe(t *testing.T) {
	var c Claims
	if c.Has("x") {
		t.Error("nil claims should have no keys")
	}
	if got := c.StringOr("x", "N/A"); got != "N/A" {
		t.Errorf("StringOr on nil claims = %q", got)
	}
}

func TestToken_AlgorithmAndKeyID(t *testing.T) {
	tok := &Token{Header: Claims{"alg": "DILITHIUM3", "kid": "k1"}}
	if tok.Algorithm() != "DILITHIUM3" {
		t.Errorf("Algorithm() = %q", tok.Algorithm())
	}
	if tok.KeyID() != "k1" {
		t.Errorf("KeyID() = %q", tok.KeyID())
	}

	empty := &Token{}
	if empty.Algorithm() != "" || empty.KeyID() != "" {
		t.Error("expected empty values for missing header parameters")
	}
}
