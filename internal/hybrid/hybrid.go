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

// Package hybrid issues and verifies compact tokens carrying two signatures
// over the same signed message: RS256 and ML-DSA-87. A token is accepted
// only when both legs verify.
package hybrid

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
)

const (
	// Algorithm is the "alg" header value of hybrid tokens.
	Algorithm = "HYBRID"
	// ClassicalAlgorithm signs the classical leg.
	ClassicalAlgorithm = "RS256"
	// PostQuantumAlgorithm signs the post-quantum leg.
	PostQuantumAlgorithm = "ML-DSA-87"

	rsaKeyBits = 2048
)

var (
	// ErrNotHybrid is returned for tokens whose alg is not HYBRID.
	ErrNotHybrid = errors.New("not a hybrid token")
	// ErrSignatureEnvelope is returned when the signature segment is not the
	// expected {"rsa","mldsa"} object.
	ErrSignatureEnvelope = errors.New("invalid hybrid signature envelope")
)

// envelope is the JSON object carried, base64url encoded, in the third
// segment of a hybrid token.
type envelope struct {
	RSA   string `json:"rsa"`
	MLDSA string `json:"mldsa"`
}

// Signer holds an ephemeral key pair for each leg. Keys never leave the
// process.
type Signer struct {
	rsaKey *rsa.PrivateKey
	pqPub  sign.PublicKey
	pqKey  sign.PrivateKey
}

// GenerateSigner creates a fresh RSA-2048 key and ML-DSA-87 key pair.
func GenerateSigner() (*Signer, error) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}
	pqPub, pqKey, err := mldsa87.Scheme().GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating ML-DSA-87 key: %w", err)
	}
	return &Signer{rsaKey: rsaKey, pqPub: pqPub, pqKey: pqKey}, nil
}

// Issue signs claims with both keys and returns the compact token.
func (s *Signer) Issue(claims map[string]any) (string, error) {
	header := map[string]any{
		"alg":           Algorithm,
		"typ":           "JWT",
		"classical_alg": ClassicalAlgorithm,
		"pqc_alg":       PostQuantumAlgorithm,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("marshaling header: %w", err)
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshaling claims: %w", err)
	}
	signed := format.EncodeBase64URL(headerJSON) + "." + format.EncodeBase64URL(payloadJSON)

	rsaSig, err := jwt.SigningMethodRS256.Sign(signed, s.rsaKey)
	if err != nil {
		return "", fmt.Errorf("signing RS256 leg: %w", err)
	}
	pqSig := mldsa87.Scheme().Sign(s.pqKey, []byte(signed), nil)

	envJSON, err := json.Marshal(envelope{
		RSA:   format.EncodeBase64URL(rsaSig),
		MLDSA: format.EncodeBase64URL(pqSig),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling signature envelope: %w", err)
	}
	return signed + "." + format.EncodeBase64URL(envJSON), nil
}

// Verifier returns a verifier holding the signer's public keys.
func (s *Signer) Verifier() *Verifier {
	return &Verifier{RSA: &s.rsaKey.PublicKey, MLDSA: s.pqPub}
}

// Verifier checks both legs of a hybrid token.
type Verifier struct {
	RSA   *rsa.PublicKey
	MLDSA sign.PublicKey
}

// Leg is the outcome for one of the two signatures.
type Leg struct {
	Algorithm      string `json:"algorithm"`
	SignatureBytes int    `json:"signatureBytes"`
	Valid          bool   `json:"valid"`
	Error          string `json:"error,omitempty"`
}

// Result is the outcome of verifying a hybrid token.
type Result struct {
	Token       *token.Token `json:"-"`
	Classical   Leg          `json:"classical"`
	PostQuantum Leg          `json:"postQuantum"`
}

// Valid reports whether both legs verified.
func (r *Result) Valid() bool {
	return r.Classical.Valid && r.PostQuantum.Valid
}

// Verify decodes raw and checks both signatures over its signed message.
// Structural problems (malformed token, wrong alg, bad envelope) are returned
// as errors; a signature that does not verify is reported in the Result.
func (v *Verifier) Verify(raw string) (*Result, error) {
	tok, err := token.Decode(raw)
	if err != nil {
		return nil, err
	}
	if alg := tok.Algorithm(); alg != Algorithm {
		return nil, fmt.Errorf("%w: alg is %q", ErrNotHybrid, alg)
	}

	envJSON, err := format.DecodeBase64URL(tok.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureEnvelope, err)
	}
	var env envelope
	if err := json.Unmarshal(envJSON, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureEnvelope, err)
	}
	if env.RSA == "" || env.MLDSA == "" {
		return nil, fmt.Errorf("%w: missing leg", ErrSignatureEnvelope)
	}

	result := &Result{
		Token:       tok,
		Classical:   Leg{Algorithm: ClassicalAlgorithm},
		PostQuantum: Leg{Algorithm: PostQuantumAlgorithm},
	}
	v.verifyClassical(tok.SignedMessage, env.RSA, &result.Classical)
	v.verifyPostQuantum(tok.SignedMessage, env.MLDSA, &result.PostQuantum)
	return result, nil
}

func (v *Verifier) verifyClassical(message, encoded string, leg *Leg) {
	sig, err := format.DecodeBase64URL(encoded)
	if err != nil {
		leg.Error = fmt.Sprintf("decoding signature: %v", err)
		return
	}
	leg.SignatureBytes = len(sig)
	if err := jwt.SigningMethodRS256.Verify(message, sig, v.RSA); err != nil {
		leg.Error = err.Error()
		return
	}
	leg.Valid = true
}

func (v *Verifier) verifyPostQuantum(message, encoded string, leg *Leg) {
	sig, err := format.DecodeBase64URL(encoded)
	if err != nil {
		leg.Error = fmt.Sprintf("decoding signature: %v", err)
		return
	}
	leg.SignatureBytes = len(sig)
	scheme := mldsa87.Scheme()
	if len(sig) != scheme.SignatureSize() {
		leg.Error = fmt.Sprintf("signature has %d bytes, want %d", len(sig), scheme.SignatureSize())
		return
	}
	if !scheme.Verify(v.MLDSA, []byte(message), sig, nil) {
		leg.Error = "signature verification failed"
		return
	}
	leg.Valid = true
}
