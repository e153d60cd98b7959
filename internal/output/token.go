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

package output

import (
	"fmt"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
)

const signaturePreviewLen = 60

// BuildTokenJSON returns the JSON-serializable map for a decoded token.
func BuildTokenJSON(tok *token.Token) map[string]any {
	return map[string]any{
		"header":    tok.Header,
		"payload":   tok.Payload,
		"signature": tok.Signature,
		"signatureInfo": map[string]any{
			"chars":              len(tok.Signature),
			"bytesEstimate":      format.EstimateDecodedLen(len(tok.Signature)),
			"family":             analysis.Classify(tok.Algorithm()),
			"expectedBytes":      analysis.ExpectedSignatureSize(tok.Algorithm()),
			"signedMessageChars": len(tok.SignedMessage),
		},
	}
}

// PrintToken prints a decoded token to the terminal.
func PrintToken(tok *token.Token, opts Options) {
	if opts.JSON {
		PrintJSON(BuildTokenJSON(tok))
		return
	}

	printTitle("JWT")

	printSection("Header")
	printMap(tok.Header, 1)

	printSection("Payload")
	printMap(tok.Payload, 1)

	alg := tok.Algorithm()
	shownAlg := alg
	if shownAlg == "" {
		shownAlg = analysis.NotAvailable
	}
	printSection("Signature")
	printKV("Algorithm", shownAlg+dimColor.Sprintf(" (%s)", analysis.Classify(alg)), 1)
	printKV("Length", fmt.Sprintf("%d chars (~%d bytes)", len(tok.Signature), format.EstimateDecodedLen(len(tok.Signature))), 1)
	if expected := analysis.ExpectedSignatureSize(alg); expected > 0 {
		printKV("Expected Size", fmt.Sprintf("%d bytes", expected), 1)
	}
	if opts.Verbose {
		printKV("Value", tok.Signature, 1)
		printKV("Signed Message", fmt.Sprintf("%d chars", len(tok.SignedMessage)), 1)
	} else {
		printKV("Value", analysis.Truncate(tok.Signature, signaturePreviewLen), 1)
	}

	fmt.Println()
}
