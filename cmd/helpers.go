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

package cmd

import (
	"context"
	"fmt"

	"github.com/dominikschlosser/qsign-inspect/internal/config"
	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/keycloak"
	"github.com/dominikschlosser/qsign-inspect/internal/mock"
	"github.com/dominikschlosser/qsign-inspect/internal/output"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
)

func outputOptions() output.Options {
	return output.Options{
		JSON:    jsonOutput,
		NoColor: noColor,
		Verbose: verbose,
	}
}

func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// readToken reads input, unwraps Bearer headers and token responses, and
// decodes the result.
func readToken(input string) (*token.Token, error) {
	raw, err := format.ReadInput(input)
	if err != nil {
		return nil, err
	}
	return decodeToken(format.ExtractToken(raw))
}

func decodeToken(raw string) (*token.Token, error) {
	tok, err := token.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return tok, nil
}

func keycloakConfig(c *config.Config) keycloak.Config {
	return keycloak.Config{
		BaseURL:      c.KeycloakURL,
		Realm:        c.Realm,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Username:     c.Username,
		Password:     c.Password,
		Scope:        c.Scope,
		Timeout:      c.Timeout,
	}
}

// fetchAccessToken requests a token with the password grant.
func fetchAccessToken(ctx context.Context) (*keycloak.TokenResponse, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}
	return keycloak.NewClient(keycloakConfig(cfg), logger).FetchToken(ctx)
}

// sampleToken issues an offline token shaped like one from the configured
// realm. With pqc the header claims DILITHIUM3.
func sampleToken(pqc bool) (string, error) {
	key, err := mock.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating sample key: %w", err)
	}
	tc := mock.TokenConfig{
		BaseURL:  cfg.KeycloakURL,
		Realm:    cfg.Realm,
		ClientID: cfg.ClientID,
		Username: cfg.Username,
		Key:      key,
	}
	if pqc {
		return mock.PQCLabelledToken(tc, "DILITHIUM3")
	}
	return mock.IssueToken(tc)
}
