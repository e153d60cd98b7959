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

package keycloak

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:  baseURL,
		Realm:    "myrealm",
		ClientID: "app3-pqc-client",
		Username: "testuser",
		Password: "testpass123",
		Scope:    "openid",
		Timeout:  time.Second,
	}
}

func TestEndpoints(t *testing.T) {
	c := NewClient(testConfig("http://kc.local:8080/"), nil)
	assert.Equal(t, "http://kc.local:8080/realms/myrealm", c.RealmURL())
	assert.Equal(t, "http://kc.local:8080/realms/myrealm/protocol/openid-connect/token", c.TokenEndpoint())
	assert.Equal(t, "http://kc.local:8080/realms/myrealm/protocol/openid-connect/certs", c.CertsEndpoint())
}

func TestFetchToken_PasswordGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/realms/myrealm/protocol/openid-connect/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "app3-pqc-client", r.PostForm.Get("client_id"))
		assert.Equal(t, "testuser", r.PostForm.Get("username"))
		assert.Equal(t, "testpass123", r.PostForm.Get("password"))
		assert.Equal(t, "openid", r.PostForm.Get("scope"))
		assert.False(t, r.PostForm.Has("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"a.b.c","token_type":"Bearer","expires_in":300,"id_token":"x.y.z"}`))
	}))
	defer srv.Close()

	tr, err := NewClient(testConfig(srv.URL), nil).FetchToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tr.AccessToken)
	assert.Equal(t, "x.y.z", tr.IDToken)
	assert.Equal(t, "Bearer", tr.TokenType)
	assert.Equal(t, 300, tr.ExpiresIn)
}

func TestFetchToken_ClientSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "s3cr3t", r.PostForm.Get("client_secret"))
		w.Write([]byte(`{"access_token":"a.b.c"}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ClientSecret = "s3cr3t"
	_, err := NewClient(cfg, nil).FetchToken(context.Background())
	require.NoError(t, err)
}

func TestFetchToken_OAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).FetchToken(context.Background())
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Equal(t, "invalid_grant", pe.Code)
	assert.Equal(t, "Invalid user credentials", pe.Description)
	assert.Contains(t, err.Error(), "invalid_grant: Invalid user credentials")
}

func TestFetchToken_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).FetchToken(context.Background())
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusBadGateway, pe.StatusCode)
	assert.Empty(t, pe.Code)
	assert.Equal(t, "provider returned HTTP 502", pe.Error())
}

func TestFetchToken_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).FetchToken(context.Background())
	assert.ErrorIs(t, err, ErrNoAccessToken)
}

func TestFetchToken_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>login</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).FetchToken(context.Background())
	assert.ErrorContains(t, err, "parsing token response")
}

func TestFetchToken_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"a.b.c"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(testConfig(srv.URL), nil).FetchToken(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchJWKS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/realms/myrealm/protocol/openid-connect/certs", r.URL.Path)
		w.Write([]byte(`{"keys":[]}`))
	}))
	defer srv.Close()

	body, err := NewClient(testConfig(srv.URL), nil).FetchJWKS(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":[]}`, string(body))
}
