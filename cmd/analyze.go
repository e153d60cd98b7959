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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
	"github.com/dominikschlosser/qsign-inspect/internal/output"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
)

var (
	analyzeSample bool
	analyzePQC    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input]",
	Short: "Report on a token's signature and the hybrid signature plan",
	Long: `Prints the hybrid signature report for a token: its structure, signature
size and family, the digests each verification leg would use, and the
combined RS256 + ML-DSA-87 verification flow.

Without input the token is fetched from Keycloak. --sample uses an offline
RS256 sample token instead; add --pqc for a DILITHIUM3-labelled sample.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSample, "sample", false, "Analyze an offline sample token")
	analyzeCmd.Flags().BoolVar(&analyzePQC, "pqc", false, "With --sample, label the sample DILITHIUM3")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzePQC && !analyzeSample {
		return fmt.Errorf("--pqc requires --sample")
	}
	if analyzeSample && len(args) > 0 {
		return fmt.Errorf("--sample and an input are mutually exclusive")
	}

	var (
		tok    *token.Token
		source string
		err    error
	)
	switch {
	case len(args) > 0:
		source = "input"
		tok, err = readToken(args[0])
	case analyzeSample:
		source = "offline sample issuer"
		var raw string
		if raw, err = sampleToken(analyzePQC); err == nil {
			tok, err = decodeToken(raw)
		}
	default:
		source = fmt.Sprintf("Keycloak (%s, realm %s)", cfg.KeycloakURL, cfg.Realm)
		tok, err = fetchForAnalysis(cmd)
	}
	if err != nil {
		return err
	}

	report := analysis.Analyze(tok)
	logger.Debug("analyzed token",
		zap.String("alg", report.Algorithm),
		zap.String("family", string(report.Family)),
		zap.Int("signature_bytes", report.SignatureBytes),
	)
	output.PrintReport(source, report, analysis.BuildPlan(report), outputOptions())
	return nil
}

func fetchForAnalysis(cmd *cobra.Command) (*token.Token, error) {
	resp, err := fetchAccessToken(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("fetching token: %w", err)
	}
	return decodeToken(resp.AccessToken)
}
