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
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dominikschlosser/qsign-inspect/internal/config"
	"github.com/dominikschlosser/qsign-inspect/internal/logging"
	"github.com/dominikschlosser/qsign-inspect/internal/output"
)

var (
	jsonOutput bool
	noColor    bool
	verbose    bool
	configPath string
	logLevel   string

	// Provider overrides; applied only when set on the command line.
	keycloakURL  string
	realm        string
	clientID     string
	clientSecret string
	username     string
	password     string
	scope        string

	cfg    *config.Config
	logger = zap.NewNop()
)

// providerFlags maps flag names to config settings.
var providerFlags = map[string]string{
	"keycloak-url":  "keycloak_url",
	"realm":         "realm",
	"client-id":     "client_id",
	"client-secret": "client_secret",
	"username":      "username",
	"password":      "password",
	"scope":         "scope",
	"log-level":     "log_level",
}

var rootCmd = &cobra.Command{
	Use:   "qsign-inspect",
	Short: "Decode and analyze JWTs signed with classical, post-quantum or hybrid algorithms",
	Long: `A CLI for inspecting compact JWS tokens from a Keycloak realm. It decodes
tokens without verifying them, reports on their signature (including
post-quantum algorithms such as Dilithium / ML-DSA), verifies classical
signatures against a JWKS, and demonstrates a hybrid RS256 + ML-DSA-87
dual signature.`,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output (also enables debug logging)")
	pf.StringVar(&configPath, "config", "", "Config file (default $QSIGN_CONFIG or <user config dir>/qsign-inspect/config.yml)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	pf.StringVar(&keycloakURL, "keycloak-url", "", "Keycloak base URL")
	pf.StringVar(&realm, "realm", "", "Keycloak realm")
	pf.StringVar(&clientID, "client-id", "", "OAuth client ID")
	pf.StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	pf.StringVar(&username, "username", "", "Resource owner username")
	pf.StringVar(&password, "password", "", "Resource owner password")
	pf.StringVar(&scope, "scope", "", "Requested scope")
}

func setup(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}

	c, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return err
	}
	for flag, setting := range providerFlags {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := c.SetFromFlag(setting, f.Value.String()); err != nil {
			return err
		}
	}
	cfg = c

	l, err := logging.New(cfg.LogLevel, verbose, os.Stderr)
	if err != nil {
		return err
	}
	logger = l
	logger.Debug("configuration loaded",
		zap.String("file", cfg.FilePath()),
		zap.String("keycloak_url", cfg.KeycloakURL),
		zap.String("realm", cfg.Realm),
	)
	return nil
}

// Execute runs the root command. Interrupts cancel in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.PrintError(err.Error())
		return err
	}
	return nil
}
