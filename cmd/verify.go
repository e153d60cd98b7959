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
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/keycloak"
	"github.com/dominikschlosser/qsign-inspect/internal/output"
	"github.com/dominikschlosser/qsign-inspect/internal/verify"
)

var (
	jwksSource   string
	allowExpired bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [input]",
	Short: "Verify a classical token signature against a JWKS",
	Long: `Verifies the signature of an RS/PS/ES/EdDSA-signed token and checks its
exp and nbf claims.

Keys come from --jwks (file path or URL; a JWKS, a single JWK or a PEM public
key) or, by default, from the realm's certs endpoint. Post-quantum and hybrid
algorithms are reported as unsupported and fail the command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&jwksSource, "jwks", "", "JWKS, JWK or PEM public key (file path or URL)")
	verifyCmd.Flags().BoolVar(&allowExpired, "allow-expired", false, "Don't fail on expired tokens")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	tok, err := readToken(inputArg(args))
	if err != nil {
		return err
	}

	var keyData []byte
	if jwksSource != "" {
		s, err := format.ReadInput(jwksSource)
		if err != nil {
			return fmt.Errorf("reading keys: %w", err)
		}
		keyData = []byte(s)
	} else {
		client := keycloak.NewClient(keycloakConfig(cfg), logger)
		if keyData, err = client.FetchJWKS(cmd.Context()); err != nil {
			return fmt.Errorf("fetching realm keys: %w", err)
		}
	}

	keys, err := verify.ParseKeys(keyData)
	if err != nil && !errors.Is(err, verify.ErrNoKeys) {
		return fmt.Errorf("parsing keys: %w", err)
	}
	for _, s := range keys.Skipped {
		logger.Debug("skipped key", zap.String("reason", s))
	}

	result := verify.Verify(tok, keys)
	output.PrintVerifyResult(result, outputOptions())

	switch {
	case result.Unsupported:
		return fmt.Errorf("cannot verify %s signature", result.Algorithm)
	case !result.SignatureValid:
		return fmt.Errorf("signature verification failed")
	case result.Expired && !allowExpired:
		return fmt.Errorf("token expired")
	case result.NotYetValid:
		return fmt.Errorf("token not yet valid")
	}
	return nil
}
