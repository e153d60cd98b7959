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

// Package mock issues Keycloak-shaped sample tokens for offline runs and tests.
package mock

// DefaultUsername is the preferred_username of sample tokens.
const DefaultUsername = "testuser"

// DefaultClaims are merged into every sample token payload.
var DefaultClaims = map[string]any{
	"typ":                "Bearer",
	"aud":                "account",
	"scope":              "openid profile email",
	"email_verified":     true,
	"name":               "Test User",
	"given_name":         "Test",
	"family_name":        "User",
	"email":              "testuser@example.com",
	"acr":                "1",
	"allowed-origins":    []any{"*"},
	"realm_access":       map[string]any{"roles": []any{"offline_access", "uma_authorization", "default-roles-myrealm"}},
	"resource_access":    map[string]any{"account": map[string]any{"roles": []any{"manage-account", "view-profile"}}},
	"preferred_username": DefaultUsername,
}
