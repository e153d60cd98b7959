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
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
)

// GenerateKey creates an ephemeral RSA-2048 signing key.
func GenerateKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}

// KeyID returns the RFC 7638 JWK thumbprint of an RSA public key.
func KeyID(pub *rsa.PublicKey) string {
	// members in lexicographic order, no whitespace
	canonical := fmt.Sprintf(`{"e":"%s","kty":"RSA","n":"%s"}`,
		format.EncodeBase64URL(big.NewInt(int64(pub.E)).Bytes()),
		format.EncodeBase64URL(pub.N.Bytes()),
	)
	sum := sha256.Sum256([]byte(canonical))
	return format.EncodeBase64URL(sum[:])
}

// PublicJWK returns the JWK of an RSA signing key as a JSON-ready map.
func PublicJWK(pub *rsa.PublicKey, kid string) map[string]any {
	return map[string]any{
		"kid": kid,
		"kty": "RSA",
		"alg": "RS256",
		"use": "sig",
		"n":   format.EncodeBase64URL(pub.N.Bytes()),
		"e":   format.EncodeBase64URL(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// PublicJWKS returns a JWKS document ({"keys": [...]}) holding one RSA key,
// in the shape of Keycloak's certs endpoint.
func PublicJWKS(pub *rsa.PublicKey, kid string) ([]byte, error) {
	b, err := json.MarshalIndent(map[string]any{
		"keys": []any{PublicJWK(pub, kid)},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JWKS: %w", err)
	}
	return b, nil
}
