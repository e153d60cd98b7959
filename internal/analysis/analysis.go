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

// Package analysis derives the display values of the hybrid signature report
// from a decoded token. Nothing here verifies a signature: the digests are
// shown so the reader can see what a verifier would hash.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
)

// NotAvailable is shown for claims the token does not carry.
const NotAvailable = "N/A"

const (
	keyIDDisplayLen     = 50
	subjectDisplayLen   = 20
	signatureHeadLen    = 60
	signatureTailLen    = 40
	digestDisplayLength = 32
)

// Family classifies a JWS "alg" value.
type Family string

const (
	FamilyClassical   Family = "classical"
	FamilyPostQuantum Family = "post-quantum"
	FamilyHybrid      Family = "hybrid"
	FamilyUnknown     Family = "unknown"
)

// Report is everything the analyze command prints about one token.
type Report struct {
	Algorithm string `json:"algorithm"`
	Type      string `json:"type"`
	KeyID     string `json:"keyId"`

	Issuer   string `json:"issuer"`
	Subject  string `json:"subject"`
	Username string `json:"username"`
	Client   string `json:"client"`

	Family                 Family `json:"family"`
	SignatureChars         int    `json:"signatureChars"`
	SignatureBytes         int    `json:"signatureBytesEstimate"`
	ExpectedSignatureBytes int    `json:"expectedSignatureBytes,omitempty"`
	SignatureHead          string `json:"signatureHead"`
	SignatureTail          string `json:"signatureTail"`

	// MessageSHA256 is the SHA-256 of the signed message (header.payload),
	// the digest an RS256 verifier computes.
	MessageSHA256 string `json:"messageSha256"`
	// SignatureSHA3 is the SHA3-512 of the signature segment text. It only
	// fingerprints the signature for display.
	SignatureSHA3 string `json:"signatureSha3_512"`
}

// Analyze builds the report for tok.
func Analyze(tok *token.Token) *Report {
	alg := tok.Header.StringOr("alg", "")

	r := &Report{
		Algorithm: tok.Header.StringOr("alg", NotAvailable),
		Type:      tok.Header.StringOr("typ", NotAvailable),
		KeyID:     tok.Header.StringOr("kid", NotAvailable),
		Issuer:    tok.Payload.StringOr("iss", NotAvailable),
		Subject:   tok.Payload.StringOr("sub", NotAvailable),
		Username:  tok.Payload.StringOr("preferred_username", NotAvailable),
		Client:    tok.Payload.StringOr("azp", NotAvailable),

		Family:                 Classify(alg),
		SignatureChars:         len(tok.Signature),
		SignatureBytes:         format.EstimateDecodedLen(len(tok.Signature)),
		ExpectedSignatureBytes: ExpectedSignatureSize(alg),
		SignatureHead:          Head(tok.Signature, signatureHeadLen),
		SignatureTail:          Tail(tok.Signature, signatureTailLen),
	}

	msgSum := sha256.Sum256([]byte(tok.SignedMessage))
	r.MessageSHA256 = hex.EncodeToString(msgSum[:])

	sigSum := sha3.Sum512([]byte(tok.Signature))
	r.SignatureSHA3 = hex.EncodeToString(sigSum[:])

	return r
}

// IsPostQuantum reports whether the token is signed with a post-quantum algorithm.
func (r *Report) IsPostQuantum() bool {
	return r.Family == FamilyPostQuantum
}

// ShortKeyID is the key id cut for display.
func (r *Report) ShortKeyID() string {
	return Truncate(r.KeyID, keyIDDisplayLen)
}

// ShortSubject is the subject cut for display.
func (r *Report) ShortSubject() string {
	return Truncate(r.Subject, subjectDisplayLen)
}

// ShortMessageSHA256 is the message digest cut for display.
func (r *Report) ShortMessageSHA256() string {
	return Truncate(r.MessageSHA256, digestDisplayLength)
}

// ShortSignatureSHA3 is the signature fingerprint cut for display.
func (r *Report) ShortSignatureSHA3() string {
	return Truncate(r.SignatureSHA3, digestDisplayLength)
}

// Classify maps a JWS "alg" value to its family.
func Classify(alg string) Family {
	upper := strings.ToUpper(strings.TrimSpace(alg))
	switch {
	case upper == "":
		return FamilyUnknown
	case upper == "HYBRID":
		return FamilyHybrid
	case strings.Contains(upper, "DILITHIUM"),
		strings.Contains(upper, "ML-DSA"),
		strings.Contains(upper, "MLDSA"),
		strings.Contains(upper, "SLH-DSA"),
		strings.Contains(upper, "FALCON"):
		return FamilyPostQuantum
	case strings.HasPrefix(upper, "RS"),
		strings.HasPrefix(upper, "PS"),
		strings.HasPrefix(upper, "ES"),
		strings.HasPrefix(upper, "HS"),
		upper == "EDDSA", upper == "ED25519":
		return FamilyClassical
	default:
		return FamilyUnknown
	}
}

// Head returns at most n leading runes of s.
func Head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Tail returns at most n trailing runes of s.
func Tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// Truncate cuts s to n runes and marks the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
