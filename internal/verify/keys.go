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

package verify

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
)

// ErrNoKeys is returned when a key document holds no usable signing key.
var ErrNoKeys = errors.New("no usable keys")

// Key is one public key from a JWKS or PEM document.
type Key struct {
	ID     string
	Alg    string
	Type   string
	Public crypto.PublicKey
}

// KeySet is an ordered list of verification keys.
type KeySet struct {
	Keys []Key
	// Skipped lists keys that could not be parsed, with the reason.
	Skipped []string
}

// Lookup returns the keys to try for kid. An empty kid matches every key.
func (ks *KeySet) Lookup(kid string) []Key {
	if kid == "" {
		return ks.Keys
	}
	var out []Key
	for _, k := range ks.Keys {
		if k.ID == kid {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of usable keys.
func (ks *KeySet) Len() int {
	return len(ks.Keys)
}

// ParseKeys parses a JWKS document, a single JWK or a PEM public key.
func ParseKeys(data []byte) (*KeySet, error) {
	if block, _ := pem.Decode(data); block != nil {
		pub, err := parsePEMBlock(block)
		if err != nil {
			return nil, err
		}
		return &KeySet{Keys: []Key{{Type: block.Type, Public: pub}}}, nil
	}

	var probe struct {
		Keys json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("not a valid PEM, JWK or JWKS: %w", err)
	}
	if probe.Keys != nil {
		return ParseJWKS(data)
	}

	var jwk map[string]any
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("not a valid JWK: %w", err)
	}
	key, err := parseJWK(jwk)
	if err != nil {
		return nil, err
	}
	return &KeySet{Keys: []Key{key}}, nil
}

// ParseJWKS parses a {"keys": [...]} document. Keys of unsupported types
// (including encryption keys) are recorded in Skipped rather than failing
// the whole set.
func ParseJWKS(data []byte) (*KeySet, error) {
	var doc struct {
		Keys []map[string]any `json:"keys"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JWKS: %w", err)
	}

	ks := &KeySet{}
	for i, jwk := range doc.Keys {
		if use, _ := jwk["use"].(string); use == "enc" {
			ks.Skipped = append(ks.Skipped, fmt.Sprintf("key %d (%s): encryption key", i, describeJWK(jwk)))
			continue
		}
		key, err := parseJWK(jwk)
		if err != nil {
			ks.Skipped = append(ks.Skipped, fmt.Sprintf("key %d (%s): %v", i, describeJWK(jwk), err))
			continue
		}
		ks.Keys = append(ks.Keys, key)
	}
	if len(ks.Keys) == 0 {
		return ks, ErrNoKeys
	}
	return ks, nil
}

func describeJWK(jwk map[string]any) string {
	kid, _ := jwk["kid"].(string)
	kty, _ := jwk["kty"].(string)
	if kid == "" {
		return kty
	}
	return kty + " " + kid
}

func parseJWK(jwk map[string]any) (Key, error) {
	kty, _ := jwk["kty"].(string)
	key := Key{Type: kty}
	key.ID, _ = jwk["kid"].(string)
	key.Alg, _ = jwk["alg"].(string)

	var err error
	switch kty {
	case "RSA":
		key.Public, err = parseRSAJWK(jwk)
	case "EC":
		key.Public, err = parseECJWK(jwk)
	case "OKP":
		key.Public, err = parseOKPJWK(jwk)
	default:
		err = fmt.Errorf("unsupported JWK key type: %q", kty)
	}
	if err != nil {
		return Key{}, err
	}
	return key, nil
}

func parsePEMBlock(block *pem.Block) (crypto.PublicKey, error) {
	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing certificate: %w", err)
		}
		return cert.PublicKey, nil
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("unsupported PEM block type %s: %w", block.Type, err)
		}
		return key, nil
	}
}

func jwkBytes(jwk map[string]any, name string) ([]byte, error) {
	s, _ := jwk[name].(string)
	if s == "" {
		return nil, fmt.Errorf("missing %q", name)
	}
	b, err := format.DecodeBase64URL(s)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return b, nil
}

func parseRSAJWK(jwk map[string]any) (*rsa.PublicKey, error) {
	n, err := jwkBytes(jwk, "n")
	if err != nil {
		return nil, err
	}
	e, err := jwkBytes(jwk, "e")
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}

func parseECJWK(jwk map[string]any) (*ecdsa.PublicKey, error) {
	crv, _ := jwk["crv"].(string)
	var curve elliptic.Curve
	switch crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported curve: %q", crv)
	}

	x, err := jwkBytes(jwk, "x")
	if err != nil {
		return nil, err
	}
	y, err := jwkBytes(jwk, "y")
	if err != nil {
		return nil, err
	}
	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}, nil
}

func parseOKPJWK(jwk map[string]any) (ed25519.PublicKey, error) {
	if crv, _ := jwk["crv"].(string); crv != "Ed25519" {
		return nil, fmt.Errorf("unsupported OKP curve: %q", crv)
	}
	x, err := jwkBytes(jwk, "x")
	if err != nil {
		return nil, err
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 key has %d bytes, want %d", len(x), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(x), nil
}
