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

import "strings"

// signatureSizes are the encoded signature sizes in bytes of the algorithms
// the report knows about (FIPS 204 for ML-DSA, round-3 Dilithium for the
// DILITHIUM* identifiers Keycloak PQC builds emit).
var signatureSizes = map[string]int{
	"DILITHIUM2": 2420,
	"DILITHIUM3": 3293,
	"DILITHIUM5": 4595,
	"ML-DSA-44":  2420,
	"ML-DSA-65":  3309,
	"ML-DSA-87":  4627,
	"RS256":      256,
	"RS384":      256,
	"RS512":      256,
	"PS256":      256,
	"PS384":      256,
	"PS512":      256,
	"ES256":      64,
	"ES384":      96,
	"ES512":      132,
	"EDDSA":      64,
	"HS256":      32,
	"HS384":      48,
	"HS512":      64,
}

// RSA4096SignatureSize is the RS256 signature size for the 4096-bit realm
// keys the hybrid proposal assumes for the classical leg.
const RSA4096SignatureSize = 512

// ExpectedSignatureSize returns the signature size for alg, or 0 when unknown.
// RSA sizes assume a 2048-bit key.
func ExpectedSignatureSize(alg string) int {
	return signatureSizes[strings.ToUpper(strings.TrimSpace(alg))]
}
