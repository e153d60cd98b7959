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
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/hybrid"
	"github.com/dominikschlosser/qsign-inspect/internal/mock"
	"github.com/dominikschlosser/qsign-inspect/internal/output"
)

var hybridTamper bool

var hybridCmd = &cobra.Command{
	Use:   "hybrid [input]",
	Short: "Issue and verify a hybrid RS256 + ML-DSA-87 token locally",
	Long: `Generates ephemeral RSA-2048 and ML-DSA-87 keys, signs a token with both,
and verifies both signatures. The token is accepted only when both legs
verify.

The claims are taken from the input token's payload when one is given,
otherwise from a sample claim set for the configured realm. --tamper changes
the payload after signing to show both legs failing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHybrid,
}

func init() {
	hybridCmd.Flags().BoolVar(&hybridTamper, "tamper", false, "Modify the payload after signing")
	rootCmd.AddCommand(hybridCmd)
}

func runHybrid(cmd *cobra.Command, args []string) error {
	claims, err := hybridClaims(args)
	if err != nil {
		return err
	}

	signer, err := hybrid.GenerateSigner()
	if err != nil {
		return err
	}
	raw, err := signer.Issue(claims)
	if err != nil {
		return err
	}
	logger.Debug("issued hybrid token", zap.Int("length", len(raw)))

	if hybridTamper {
		if raw, err = tamperPayload(raw); err != nil {
			return err
		}
		logger.Debug("tampered with payload")
	}

	result, err := signer.Verifier().Verify(raw)
	if err != nil {
		return err
	}
	output.PrintHybridResult(raw, result, outputOptions())

	if !result.Valid() {
		return fmt.Errorf("hybrid signature verification failed")
	}
	return nil
}

func hybridClaims(args []string) (map[string]any, error) {
	if len(args) > 0 {
		tok, err := readToken(args[0])
		if err != nil {
			return nil, err
		}
		return tok.Payload, nil
	}

	now := time.Now()
	claims := map[string]any{}
	for k, v := range mock.DefaultClaims {
		claims[k] = v
	}
	claims["iss"] = strings.TrimRight(cfg.KeycloakURL, "/") + "/realms/" + cfg.Realm
	claims["azp"] = cfg.ClientID
	claims["preferred_username"] = cfg.Username
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(5 * time.Minute).Unix()
	return claims, nil
}

// tamperPayload replaces the payload with a copy whose preferred_username is
// changed, keeping the original signatures.
func tamperPayload(raw string) (string, error) {
	parts := strings.Split(raw, ".")
	b, err := format.DecodeBase64URL(parts[1])
	if err != nil {
		return "", err
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		return "", err
	}
	payload["preferred_username"] = "admin"
	forged, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	parts[1] = format.EncodeBase64URL(forged)
	return strings.Join(parts, "."), nil
}
