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
	"strings"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
)

const boxWidth = 58

// BuildReportJSON returns the JSON-serializable map for an analysis report.
func BuildReportJSON(source string, r *analysis.Report, p *analysis.Plan) map[string]any {
	return map[string]any{
		"source": source,
		"report": r,
		"plan":   p,
	}
}

// PrintReport prints the six-step hybrid signature report. source describes
// where the token came from.
func PrintReport(source string, r *analysis.Report, p *analysis.Plan, opts Options) {
	if opts.JSON {
		PrintJSON(BuildReportJSON(source, r, p))
		return
	}

	headerColor.Println(strings.Repeat("=", 60))
	headerColor.Println("  Hybrid signature report")
	headerColor.Println("  RSA (Keycloak) + ML-DSA-87 (Q-KMS)")
	headerColor.Println(strings.Repeat("=", 60))

	printStep(1, "Token acquisition")
	successColor.Printf("✓ Token obtained from %s\n", source)

	printStep(2, "Token structure")
	printTree("JWT header:", [][2]string{
		{"Algorithm", r.Algorithm},
		{"Type", r.Type},
		{"Key ID", r.ShortKeyID()},
	})
	fmt.Println()
	printTree("JWT payload (main claims):", [][2]string{
		{"Issuer", r.Issuer},
		{"Subject", r.ShortSubject()},
		{"Username", r.Username},
		{"Client", r.Client},
	})
	fmt.Println()
	sigInfo := [][2]string{
		{"Length", fmt.Sprintf("%d chars (~%d bytes)", r.SignatureChars, r.SignatureBytes)},
	}
	if r.ExpectedSignatureBytes > 0 {
		sigInfo = append(sigInfo, [2]string{"Expected", fmt.Sprintf("%d bytes for %s", r.ExpectedSignatureBytes, r.Algorithm)})
	}
	sigInfo = append(sigInfo,
		[2]string{"Start", r.SignatureHead + "..."},
		[2]string{"End", "..." + r.SignatureTail},
	)
	printTree("JWT signature:", sigInfo)

	printStep(3, "Hybrid signature analysis")
	if r.IsPostQuantum() {
		successColor.Printf("✓ Current signature: post-quantum (%s)\n", r.Algorithm)
		fmt.Println()
		printBox("JWT token (current)", []string{
			fmt.Sprintf("Header: {alg: %s}", r.Algorithm),
			"Payload: {user data, claims...}",
			fmt.Sprintf("Signature: Dilithium signature (~%d bytes)", r.SignatureBytes),
		})
		fmt.Println()
		labelColor.Println("Hybrid signature options:")
		for _, prop := range p.Proposals {
			fmt.Println()
			printBox(prop.Name, prop.Lines)
		}
	} else {
		warnColor.Printf("⚠ Current signature: %s (%s), no post-quantum protection\n", r.Family, r.Algorithm)
	}

	printStep(4, "Verification process (concept)")
	for i, leg := range p.Legs {
		if i > 0 {
			fmt.Println()
		}
		printTree(leg.Name+":", [][2]string{
			{"Algorithm", leg.Algorithm},
			{"Key Source", leg.KeySource},
			{fmt.Sprintf("Message Hash (%s)", leg.Digest), leg.DigestValue},
			{"Signature Size", fmt.Sprintf("~%d bytes", leg.SignatureSize)},
			{"Verification", leg.Verification},
		})
	}

	printStep(5, "Combined verification flow")
	printSteps(p.Flow)

	printStep(6, "Status and conclusion")
	labelColor.Println("Implemented:")
	printBullets(p.Status)
	fmt.Println()
	labelColor.Println("Roadmap:")
	printSteps(p.Roadmap)
	fmt.Println()
	labelColor.Println("Security benefits:")
	printBullets(p.Benefits)

	if opts.Verbose {
		printSection("Digests")
		printKV("Message SHA-256", r.MessageSHA256, 1)
		printKV("Signature SHA3-512", r.SignatureSHA3, 1)
	}
	fmt.Println()
}

func printStep(n int, title string) {
	fmt.Println()
	headerColor.Printf("## Step %d: %s\n", n, title)
	fmt.Println()
}

func printSteps(steps []analysis.Step) {
	for i, s := range steps {
		labelColor.Printf("  %d. ", i+1)
		valueColor.Println(s.Title)
		for _, d := range s.Details {
			dimColor.Printf("     └─ %s\n", d)
		}
	}
}

func printBullets(lines []string) {
	for i, l := range lines {
		branch := "├─"
		if i == len(lines)-1 {
			branch = "└─"
		}
		dimColor.Printf("  %s ", branch)
		valueColor.Println(l)
	}
}

func printBox(title string, lines []string) {
	border := strings.Repeat("─", boxWidth)
	dimColor.Printf("┌%s┐\n", border)
	dimColor.Print("│ ")
	labelColor.Println(title)
	dimColor.Printf("├%s┤\n", border)
	for _, l := range lines {
		dimColor.Print("│ ")
		valueColor.Println(l)
	}
	dimColor.Printf("└%s┘\n", border)
}
