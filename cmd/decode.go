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
	"github.com/spf13/cobra"

	"github.com/dominikschlosser/qsign-inspect/internal/output"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Decode a compact JWT without verifying it",
	Long: `Decodes the header and payload of a compact JWS token and shows its signature
segment. Nothing is verified. Input can be a file path, URL, QR code image,
raw token, "Bearer <token>", a JSON token response, or piped via stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	tok, err := readToken(inputArg(args))
	if err != nil {
		return err
	}
	output.PrintToken(tok, outputOptions())
	return nil
}
