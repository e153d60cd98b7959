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

// Package verify checks classical JWS signatures of decoded tokens against a
// caller-supplied key set. Post-quantum algorithms are reported as
// unsupported: no verifier for them is available here.
package verify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
)

// Result contains the result of signature and validity verification.
type Result struct {
	Algorithm      string     `json:"algorithm"`
	Family         string     `json:"family"`
	KeyID          string     `json:"keyId,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	MatchedKeyID   string     `json:"matchedKeyId,omitempty"`
	SignatureValid bool       `json:"signatureValid"`
	Unsupported    bool       `json:"unsupported,omitempty"`
	Expired        bool       `json:"expired"`
	NotYetValid    bool       `json:"notYetValid"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	IssuedAt       *time.Time `json:"issuedAt,omitempty"`
	NotBefore      *time.Time `json:"notBefore,omitempty"`
	Errors         []string   `json:"errors,omitempty"`
}

// Valid reports whether the signature verified and the token is within its
// validity window.
func (r *Result) Valid() bool {
	return r.SignatureValid && !r.Expired && !r.NotYetValid
}

// Verify checks tok against keys at the current time.
func Verify(tok *token.Token, keys *KeySet) *Result {
	return VerifyAt(tok, keys, time.Now())
}

// VerifyAt checks tok against keys, evaluating exp and nbf at now.
func VerifyAt(tok *token.Token, keys *KeySet, now time.Time) *Result {
	alg := tok.Algorithm()
	result := &Result{
		Algorithm: alg,
		Family:    string(analysis.Classify(alg)),
		KeyID:     tok.KeyID(),
		Issuer:    tok.Payload.StringOr("iss", ""),
	}

	if exp, ok := tok.Payload.Time("exp"); ok {
		result.ExpiresAt = &exp
		result.Expired = now.After(exp)
	}
	if iat, ok := tok.Payload.Time("iat"); ok {
		result.IssuedAt = &iat
	}
	if nbf, ok := tok.Payload.Time("nbf"); ok {
		result.NotBefore = &nbf
		result.NotYetValid = now.Before(nbf)
	}

	method, err := signingMethod(alg)
	if err != nil {
		result.Unsupported = true
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	sig, err := format.DecodeBase64URL(tok.Signature)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("decoding signature: %v", err))
		return result
	}

	candidates := keys.Lookup(result.KeyID)
	if len(candidates) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("no key with kid %q", result.KeyID))
		return result
	}

	for _, key := range candidates {
		if key.Alg != "" && key.Alg != alg {
			continue
		}
		if err := method.Verify(tok.SignedMessage, sig, key.Public); err == nil {
			result.SignatureValid = true
			result.MatchedKeyID = key.ID
			break
		}
	}
	if !result.SignatureValid {
		result.Errors = append(result.Errors, "signature verification failed")
	}
	return result
}

// ErrUnsupportedAlgorithm is wrapped by errors for algorithms without a
// verifier.
var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch family := analysis.Classify(alg); family {
	case analysis.FamilyPostQuantum, analysis.FamilyHybrid:
		return nil, fmt.Errorf("%w: %s is %s, no verifier available", ErrUnsupportedAlgorithm, alg, family)
	}
	if alg == "" || strings.EqualFold(alg, "none") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	// HMAC needs a shared secret, which a public key set never holds.
	if strings.HasPrefix(strings.ToUpper(alg), "HS") {
		return nil, fmt.Errorf("%w: %s needs a shared secret", ErrUnsupportedAlgorithm, alg)
	}
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	return method, nil
}
