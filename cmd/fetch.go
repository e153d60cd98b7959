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

	"github.com/dominikschlosser/qsign-inspect/internal/output"
	"github.com/dominikschlosser/qsign-inspect/internal/qr"
)

var (
	fetchDecode bool
	fetchQROut  string
	fetchQRSize int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Request an access token from Keycloak",
	Long: `Requests an access token with the resource owner password grant from
{keycloak_url}/realms/{realm}/protocol/openid-connect/token and prints it.
Use --decode to print the decoded token instead, or --qr-out to also write
it as a QR code PNG (classical tokens only; post-quantum tokens exceed QR
capacity).`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchDecode, "decode", false, "Print the decoded token")
	fetchCmd.Flags().StringVar(&fetchQROut, "qr-out", "", "Write the access token as a QR code PNG to this path")
	fetchCmd.Flags().IntVar(&fetchQRSize, "qr-size", 512, "QR code image size in pixels")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	resp, err := fetchAccessToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching token: %w", err)
	}

	if fetchQROut != "" {
		if err := qr.WritePNG(fetchQROut, resp.AccessToken, fetchQRSize); err != nil {
			return err
		}
		logger.Info("wrote QR code", zap.String("path", fetchQROut))
	}

	switch {
	case fetchDecode:
		tok, err := decodeToken(resp.AccessToken)
		if err != nil {
			return err
		}
		output.PrintToken(tok, outputOptions())
	case jsonOutput:
		output.PrintJSON(resp)
	default:
		fmt.Println(resp.AccessToken)
	}
	return nil
}
