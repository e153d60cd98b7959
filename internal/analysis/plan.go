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

package analysis

import "fmt"

// Step is one entry of a numbered list with optional sub-points.
type Step struct {
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
}

// Proposal is one way of carrying a classical and a post-quantum signature.
type Proposal struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// Leg describes how one half of the hybrid signature is checked.
type Leg struct {
	Name          string `json:"name"`
	Algorithm     string `json:"algorithm"`
	KeySource     string `json:"keySource"`
	Digest        string `json:"digest"`
	DigestValue   string `json:"digestValue"`
	SignatureSize int    `json:"signatureSize"`
	Verification  string `json:"verification"`
}

// Plan is the explanatory part of the report.
type Plan struct {
	Proposals []Proposal `json:"proposals,omitempty"`
	Legs      []Leg      `json:"legs"`
	Flow      []Step     `json:"flow"`
	Status    []string   `json:"status"`
	Roadmap   []Step     `json:"roadmap"`
	Benefits  []string   `json:"benefits"`
}

// BuildPlan returns the explanation for r. Proposals are only included when
// the token already carries a post-quantum signature.
func BuildPlan(r *Report) *Plan {
	p := &Plan{}

	if r.IsPostQuantum() {
		p.Proposals = []Proposal{
			{
				Name: "Option A: dual-signature JWT",
				Lines: []string{
					`Header: {"alg": "HYBRID", "pqc_alg": "DILITHIUM3", "classical_alg": "RS256"}`,
					"Payload: { ... }",
					`Signatures: {"rsa": "<RSA signature>", "dilithium": "<Dilithium signature>"}`,
				},
			},
			{
				Name: "Option B: nested JWT (current token + outer RSA signature)",
				Lines: []string{
					"Inner JWT: Dilithium signature (current implementation)",
					"Outer JWT: RSA signature wrapping the inner JWT",
					"Legacy systems verify the RSA signature",
					"Upgraded systems verify the Dilithium signature",
				},
			},
		}
	}

	pqcAlg := r.Algorithm
	if !r.IsPostQuantum() {
		pqcAlg = "ML-DSA-87"
	}
	pqcSize := r.SignatureBytes
	if !r.IsPostQuantum() {
		pqcSize = ExpectedSignatureSize("ML-DSA-87")
	}

	p.Legs = []Leg{
		{
			Name:          "RSA signature (Keycloak)",
			Algorithm:     "RS256",
			KeySource:     "Keycloak realm keystore",
			Digest:        "SHA-256",
			DigestValue:   r.ShortMessageSHA256(),
			SignatureSize: RSA4096SignatureSize,
			Verification:  "standard JWT library against the realm JWKS",
		},
		{
			Name:          "ML-DSA-87 signature (Q-KMS)",
			Algorithm:     pqcAlg,
			KeySource:     "Q-KMS Vault",
			Digest:        "SHA3-512",
			DigestValue:   r.ShortSignatureSHA3(),
			SignatureSize: pqcSize,
			Verification:  "Q-KMS API POST /verify (not implemented yet)",
		},
	}

	p.Flow = []Step{
		{Title: "Client receives the JWT"},
		{Title: "Verify the RSA signature (standard)", Details: []string{
			"Fetch the RSA public key from the JWKS",
			"Verify with a standard JWT library",
		}},
		{Title: "Verify the Dilithium signature (Q-KMS)", Details: []string{
			"Call the Q-KMS API: POST /verify",
			"Verify with the ML-DSA-87 public key",
		}},
		{Title: "Both signatures valid: authentication succeeds", Details: []string{
			"Either signature invalid: authentication is rejected",
		}},
	}

	p.Status = []string{
		"Keycloak-PQC: DILITHIUM3 signature generation",
		fmt.Sprintf("Signature size: ~%d bytes", r.SignatureBytes),
		"Q-KMS: Vault Transit engine in operation",
		"Hybrid mode: environment variables configured",
	}

	p.Roadmap = []Step{
		{Title: "Add an ML-DSA-87 verification API to Q-KMS", Details: []string{"Integrate liboqs or a pqcrypto library"}},
		{Title: "Produce an auxiliary RSA signature in Keycloak", Details: []string{"Implement the dual-signature JWT format"}},
		{Title: "Client verification library", Details: []string{"Verify both RSA and Dilithium signatures"}},
	}

	p.Benefits = []string{
		"Quantum resistance: Dilithium covers future threats",
		"Compatibility: RSA keeps legacy systems working",
		"Defense in depth: both signatures must verify",
		"Gradual migration: PQC can be introduced step by step",
	}

	return p
}
