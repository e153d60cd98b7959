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

// Package keycloak acquires tokens from a Keycloak realm using the OAuth 2.0
// resource owner password grant, and fetches the realm's signing keys.
package keycloak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// ErrNoAccessToken is returned when the provider answers 200 without an access token.
var ErrNoAccessToken = errors.New("token response contains no access_token")

// Config describes the realm and the credentials used for the password grant.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scope        string
	Timeout      time.Duration
}

// TokenResponse is the provider's answer to a token request.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	IDToken          string `json:"id_token,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in,omitempty"`
	Scope            string `json:"scope,omitempty"`
}

// ProviderError is an OAuth error response (RFC 6749 section 5.2) or any other
// non-2xx answer from the provider.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("provider returned HTTP %d: %s: %s", e.StatusCode, e.Code, e.Description)
	case e.Code != "":
		return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("provider returned HTTP %d", e.StatusCode)
	}
}

// Client talks to one Keycloak realm.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// NewClient returns a client for cfg. A nil logger disables logging.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  log.Named("keycloak"),
	}
}

// RealmURL returns {BaseURL}/realms/{Realm}, which is also the issuer of the realm's tokens.
func (c *Client) RealmURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/realms/" + url.PathEscape(c.cfg.Realm)
}

// TokenEndpoint returns the realm's OpenID Connect token endpoint.
func (c *Client) TokenEndpoint() string {
	return c.RealmURL() + "/protocol/openid-connect/token"
}

// CertsEndpoint returns the realm's JWKS endpoint.
func (c *Client) CertsEndpoint() string {
	return c.RealmURL() + "/protocol/openid-connect/certs"
}

// FetchToken performs a password grant and returns the token response.
func (c *Client) FetchToken(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)
	if c.cfg.ClientSecret != "" {
		form.Set("client_secret", c.cfg.ClientSecret)
	}
	if c.cfg.Scope != "" {
		form.Set("scope", c.cfg.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	c.log.Debug("token issued",
		zap.String("token_type", tr.TokenType),
		zap.Int("expires_in", tr.ExpiresIn),
		zap.Int("access_token_len", len(tr.AccessToken)),
	)
	return &tr, nil
}

// FetchJWKS returns the raw JWKS document published by the realm.
func (c *Client) FetchJWKS(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CertsEndpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating certs request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("certs request: %w", err)
	}
	return body, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With(
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseProviderError(resp.StatusCode, body)
	}
	return body, nil
}

func parseProviderError(status int, body []byte) *ProviderError {
	pe := &ProviderError{StatusCode: status}
	var oauthErr struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if json.Unmarshal(body, &oauthErr) == nil {
		pe.Code = oauthErr.Error
		pe.Description = oauthErr.Description
	}
	return pe
}
