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
	"time"

	"github.com/dominikschlosser/qsign-inspect/internal/config"
	"github.com/dominikschlosser/qsign-inspect/internal/hybrid"
	"github.com/dominikschlosser/qsign-inspect/internal/verify"
)

// PrintVerifyResult prints classical signature verification results.
func PrintVerifyResult(r *verify.Result, opts Options) {
	if opts.JSON {
		PrintJSON(r)
		return
	}

	printSection("Signature Verification")
	switch {
	case r.Unsupported:
		warnColor.Printf("  ⚠ Not verified: %s signature\n", r.Family)
	default:
		printCheck(r.SignatureValid, "Signature valid", "Signature invalid")
	}

	printKV("Algorithm", r.Algorithm, 1)
	if r.KeyID != "" {
		printKV("Key ID", r.KeyID, 1)
	}
	if r.MatchedKeyID != "" && r.MatchedKeyID != r.KeyID {
		printKV("Matched Key", r.MatchedKeyID, 1)
	}
	if r.Issuer != "" {
		printKV("Issuer", r.Issuer, 1)
	}
	if r.IssuedAt != nil {
		printKV("Issued", r.IssuedAt.UTC().Format(time.RFC3339), 1)
	}
	printTimeValidity(r.ExpiresAt, r.NotBefore, r.Expired, r.NotYetValid)

	for _, e := range r.Errors {
		errorColor.Printf("  ✗ %s\n", e)
	}
	fmt.Println()
}

// BuildHybridJSON returns the JSON-serializable map for a hybrid run.
func BuildHybridJSON(raw string, r *hybrid.Result) map[string]any {
	out := map[string]any{
		"token":       raw,
		"valid":       r.Valid(),
		"classical":   r.Classical,
		"postQuantum": r.PostQuantum,
	}
	if r.Token != nil {
		out["header"] = r.Token.Header
		out["payload"] = r.Token.Payload
	}
	return out
}

// PrintHybridResult prints the outcome of verifying a hybrid token.
func PrintHybridResult(raw string, r *hybrid.Result, opts Options) {
	if opts.JSON {
		PrintJSON(BuildHybridJSON(raw, r))
		return
	}

	printTitle("Hybrid signature (RS256 + ML-DSA-87)")

	if r.Token != nil {
		printSection("Header")
		printMap(r.Token.Header, 1)
		printSection("Payload")
		printMap(r.Token.Payload, 1)
	}

	printSection("Token")
	printKV("Length", fmt.Sprintf("%d chars", len(raw)), 1)
	if opts.Verbose {
		printKV("Value", raw, 1)
	}

	for _, leg := range []hybrid.Leg{r.Classical, r.PostQuantum} {
		printSection(leg.Algorithm + " leg")
		printCheck(leg.Valid, "Signature valid", "Signature invalid")
		printKV("Signature Size", fmt.Sprintf("%d bytes", leg.SignatureBytes), 1)
		if leg.Error != "" {
			errorColor.Printf("  ✗ %s\n", leg.Error)
		}
	}

	printSection("Result")
	printCheck(r.Valid(), "Both signatures valid: token accepted", "Token rejected: both signatures must verify")
	fmt.Println()
}

// BuildConfigJSON returns the resolved settings as a JSON-serializable map.
func BuildConfigJSON(c *config.Config) map[string]any {
	return map[string]any{
		"file":       c.FilePath(),
		"attributes": c.Attributes(),
	}
}

// PrintConfig prints the resolved settings and where each came from.
func PrintConfig(c *config.Config, opts Options) {
	if opts.JSON {
		PrintJSON(BuildConfigJSON(c))
		return
	}

	printTitle("Configuration")
	printKV("File", c.FilePath(), 1)

	printSection("Settings")
	for _, a := range c.Attributes() {
		value := a.Value
		if value == "" {
			value = "(unset)"
		}
		labelColor.Printf("  %s: ", a.Name)
		valueColor.Print(value)
		dimColor.Printf(" [%s]\n", a.Source)
	}
	fmt.Println()
}
