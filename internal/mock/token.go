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

package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
	"github.com/dominikschlosser/qsign-inspect/internal/format"
)

// TokenConfig holds options for generating a sample access token.
type TokenConfig struct {
	BaseURL   string
	Realm     string
	ClientID  string
	Username  string
	ExpiresIn time.Duration
	Claims    map[string]any
	Key       *rsa.PrivateKey
	// Now defaults to time.Now.
	Now func() time.Time
}

func (cfg TokenConfig) payload() jwt.MapClaims {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	iat := now()
	expiresIn := cfg.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 5 * time.Minute
	}

	claims := jwt.MapClaims{}
	for k, v := range DefaultClaims {
		claims[k] = v
	}
	for k, v := range cfg.Claims {
		claims[k] = v
	}

	claims["iss"] = strings.TrimRight(cfg.BaseURL, "/") + "/realms/" + cfg.Realm
	claims["sub"] = uuid.NewString()
	claims["jti"] = uuid.NewString()
	claims["sid"] = uuid.NewString()
	claims["iat"] = iat.Unix()
	claims["exp"] = iat.Add(expiresIn).Unix()
	claims["azp"] = cfg.ClientID
	if cfg.Username != "" {
		claims["preferred_username"] = cfg.Username
	}
	return claims
}

// IssueToken signs a sample access token with RS256.
func IssueToken(cfg TokenConfig) (string, error) {
	if cfg.Key == nil {
		return "", fmt.Errorf("signing key is required")
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, cfg.payload())
	tok.Header["kid"] = KeyID(&cfg.Key.PublicKey)

	signed, err := tok.SignedString(cfg.Key)
	if err != nil {
		return "", fmt.Errorf("signing sample token: %w", err)
	}
	return signed, nil
}

// PQCLabelledToken builds a token whose header names a post-quantum
// algorithm (e.g. DILITHIUM3) and whose signature segment has that
// algorithm's size. The signature bytes are random: the token only has the
// shape of a post-quantum token and cannot be verified.
func PQCLabelledToken(cfg TokenConfig, alg string) (string, error) {
	size := analysis.ExpectedSignatureSize(alg)
	if size == 0 {
		return "", fmt.Errorf("unknown signature size for %q", alg)
	}

	header := map[string]any{
		"alg": alg,
		"typ": "JWT",
		"kid": uuid.NewString(),
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("marshaling header: %w", err)
	}
	payloadJSON, err := json.Marshal(cfg.payload())
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	sig := make([]byte, size)
	if _, err := rand.Read(sig); err != nil {
		return "", fmt.Errorf("generating placeholder signature: %w", err)
	}

	return format.EncodeBase64URL(headerJSON) + "." +
		format.EncodeBase64URL(payloadJSON) + "." +
		format.EncodeBase64URL(sig), nil
}
