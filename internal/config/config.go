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

// Package config resolves qsign-inspect settings from defaults, a YAML file
// and QSIGN_* environment variables, remembering where each value came from.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix      = "QSIGN_"
	ConfigFileName = "config.yml"

	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "environment"
	SourceFlag    = "flag"
)

// Config holds everything needed to reach the identity provider and to
// configure logging. It is passed explicitly; there is no package-level instance.
type Config struct {
	KeycloakURL  string        `yaml:"keycloak_url"`
	Realm        string        `yaml:"realm"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Scope        string        `yaml:"scope"`
	Timeout      time.Duration `yaml:"timeout"`
	LogLevel     string        `yaml:"log_level"`

	sources  map[string]string
	filePath string
}

// Attribute is one resolved setting for display.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{
		KeycloakURL: "http://localhost:8080",
		Realm:       "myrealm",
		ClientID:    "app3-pqc-client",
		Username:    "testuser",
		Scope:       "openid",
		Timeout:     15 * time.Second,
		LogLevel:    "warn",
		sources:     make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// DefaultPath returns the config file location used when none is given:
// $QSIGN_CONFIG, else <user config dir>/qsign-inspect/config.yml.
func DefaultPath(getenv func(string) string) string {
	if p := getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qsign-inspect", ConfigFileName)
}

// Load resolves the configuration. An explicit path that does not exist is an
// error; a missing default file is not. getenv is usually os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath(getenv)
	}
	c.filePath = path

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var file Config
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
			c.applyFile(&file)
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := c.applyEnv(getenv); err != nil {
		return nil, err
	}
	return c, nil
}

func attributeNames() []string {
	return []string{
		"keycloak_url", "realm", "client_id", "client_secret",
		"username", "password", "scope", "timeout", "log_level",
	}
}

func (c *Config) applyFile(file *Config) {
	set := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = SourceFile
		}
	}
	set("keycloak_url", &c.KeycloakURL, file.KeycloakURL)
	set("realm", &c.Realm, file.Realm)
	set("client_id", &c.ClientID, file.ClientID)
	set("client_secret", &c.ClientSecret, file.ClientSecret)
	set("username", &c.Username, file.Username)
	set("password", &c.Password, file.Password)
	set("scope", &c.Scope, file.Scope)
	set("log_level", &c.LogLevel, file.LogLevel)
	if file.Timeout != 0 {
		c.Timeout = file.Timeout
		c.sources["timeout"] = SourceFile
	}
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(name string, dst *string) {
		if v := getenv(EnvPrefix + strings.ToUpper(name)); v != "" {
			*dst = v
			c.sources[name] = SourceEnv
		}
	}
	set("keycloak_url", &c.KeycloakURL)
	set("realm", &c.Realm)
	set("client_id", &c.ClientID)
	set("client_secret", &c.ClientSecret)
	set("username", &c.Username)
	set("password", &c.Password)
	set("scope", &c.Scope)
	set("log_level", &c.LogLevel)

	if v := getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.Timeout = d
		c.sources["timeout"] = SourceEnv
	}
	return nil
}

// SetFromFlag overrides a string setting with a command-line value.
func (c *Config) SetFromFlag(name, value string) error {
	var dst *string
	switch name {
	case "keycloak_url":
		dst = &c.KeycloakURL
	case "realm":
		dst = &c.Realm
	case "client_id":
		dst = &c.ClientID
	case "client_secret":
		dst = &c.ClientSecret
	case "username":
		dst = &c.Username
	case "password":
		dst = &c.Password
	case "scope":
		dst = &c.Scope
	case "log_level":
		dst = &c.LogLevel
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	*dst = value
	c.sources[name] = SourceFlag
	return nil
}

// Source returns where a setting came from.
func (c *Config) Source(name string) string {
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// FilePath returns the config file that was consulted (it may not exist).
func (c *Config) FilePath() string {
	return c.filePath
}

// ValidateProvider checks the settings needed for a password-grant token request.
func (c *Config) ValidateProvider() error {
	var missing []string
	if c.KeycloakURL == "" {
		missing = append(missing, "keycloak_url")
	}
	if c.Realm == "" {
		missing = append(missing, "realm")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing settings: %s (set them in %s, via %s* variables, or flags)",
			strings.Join(missing, ", "), c.filePath, EnvPrefix)
	}
	if !strings.HasPrefix(c.KeycloakURL, "http://") && !strings.HasPrefix(c.KeycloakURL, "https://") {
		return fmt.Errorf("keycloak_url must start with http:// or https://, got %q", c.KeycloakURL)
	}
	return nil
}

// Attributes lists all settings with secrets masked.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "keycloak_url", Value: c.KeycloakURL, Source: c.Source("keycloak_url")},
		{Name: "realm", Value: c.Realm, Source: c.Source("realm")},
		{Name: "client_id", Value: c.ClientID, Source: c.Source("client_id")},
		{Name: "client_secret", Value: mask(c.ClientSecret), Source: c.Source("client_secret")},
		{Name: "username", Value: c.Username, Source: c.Source("username")},
		{Name: "password", Value: mask(c.Password), Source: c.Source("password")},
		{Name: "scope", Value: c.Scope, Source: c.Source("scope")},
		{Name: "timeout", Value: c.Timeout.String(), Source: c.Source("timeout")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
