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

	"github.com/dominikschlosser/qsign-inspect/internal/web"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve decode, analyze and verify as a local JSON API",
	Long: `Starts a local HTTP server with the endpoints

  POST /api/decode   {"input": "<token>"}
  POST /api/analyze  {"input": "<token>"}
  POST /api/verify   {"input": "<token>", "jwks": "<JWKS, JWK or PEM>"}
  GET  /healthz

Responses use the same JSON shapes as the --json output of the commands.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8090", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Serving the qsign-inspect API at http://%s\n", listenAddr)
	logger.Info("listening", zap.String("addr", listenAddr))
	return web.ListenAndServe(cmd.Context(), listenAddr, logger)
}
