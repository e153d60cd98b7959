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

package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
	"github.com/dominikschlosser/qsign-inspect/internal/config"
	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/hybrid"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
	"github.com/dominikschlosser/qsign-inspect/internal/verify"
)

// captureOutput captures all terminal output (both fmt and color) during fn execution.
func captureOutput(fn func()) string {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	r, w, _ := os.Pipe()

	oldStdout := os.Stdout
	oldOutput := color.Output
	os.Stdout = w
	color.Output = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = oldStdout
	color.Output = oldOutput

	return <-done
}

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = old })
}

func makeToken(t *testing.T, header, payload string, sigBytes int) *token.Token {
	t.Helper()
	raw := format.EncodeBase64URL([]byte(header)) + "." +
		format.EncodeBase64URL([]byte(payload)) + "." +
		format.EncodeBase64URL(bytes.Repeat([]byte{0xAB}, sigBytes))
	tok, err := token.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return tok
}

func TestPrintToken(t *testing.T) {
	fixedNow(t, time.Unix(1700000000, 0))
	tok := makeToken(t,
		`{"alg":"RS256","typ":"JWT","kid":"k1"}`,
		`{"sub":"1234567890","exp":1700000300,"roles":["a","b"]}`, 256)

	out := captureOutput(func() {
		PrintToken(tok, Options{})
	})

	for _, want := range []string{
		"alg: RS256",
		"kid: k1",
		"sub: 1234567890",
		`roles: ["a","b"]`,
		"exp: 1700000300 (2023-11-14T22:18:20Z, in 5 minutes)",
		"Algorithm: RS256 (classical)",
		"Length: 342 chars (~256 bytes)",
		"Expected Size: 256 bytes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestPrintToken_VerboseShowsFullSignature(t *testing.T) {
	tok := makeToken(t, `{"alg":"DILITHIUM3"}`, `{}`, 3293)

	short := captureOutput(func() { PrintToken(tok, Options{}) })
	full := captureOutput(func() { PrintToken(tok, Options{Verbose: true}) })

	if strings.Contains(short, tok.Signature) {
		t.Error("signature should be truncated without -v")
	}
	if !strings.Contains(full, tok.Signature) {
		t.Error("signature should be shown in full with -v")
	}
	if !strings.Contains(short, "(post-quantum)") {
		t.Error("expected post-quantum family")
	}
}

func TestPrintToken_JSON(t *testing.T) {
	tok := makeToken(t, `{"alg":"RS256"}`, `{"sub":"x"}`, 256)

	out := captureOutput(func() {
		PrintToken(tok, Options{JSON: true})
	})

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got["signature"] != tok.Signature {
		t.Error("signature mismatch")
	}
	info := got["signatureInfo"].(map[string]any)
	if info["family"] != "classical" {
		t.Errorf("family = %v", info["family"])
	}
	if info["expectedBytes"] != float64(256) {
		t.Errorf("expectedBytes = %v", info["expectedBytes"])
	}
}

func TestPrintReport_PostQuantum(t *testing.T) {
	tok := makeToken(t,
		`{"alg":"DILITHIUM3","typ":"JWT","kid":"pqc-key"}`,
		`{"iss":"http://localhost:8080/realms/myrealm","sub":"f1e2d3c4-b5a6-4789-9012-abcdef012345","preferred_username":"testuser","azp":"app3-pqc-client"}`,
		3293)
	r := analysis.Analyze(tok)

	out := captureOutput(func() {
		PrintReport("Keycloak (myrealm)", r, analysis.BuildPlan(r), Options{})
	})

	for _, want := range []string{
		"## Step 1: Token acquisition",
		"✓ Token obtained from Keycloak (myrealm)",
		"Algorithm: DILITHIUM3",
		"Subject: f1e2d3c4-b5a6-4789-9...",
		"Username: testuser",
		"Length: 4391 chars (~3293 bytes)",
		"✓ Current signature: post-quantum (DILITHIUM3)",
		"Option A: dual-signature JWT",
		"Option B: nested JWT",
		"## Step 4: Verification process (concept)",
		"Message Hash (SHA-256): " + r.ShortMessageSHA256(),
		"## Step 6: Status and conclusion",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, r.SignatureSHA3) {
		t.Error("full SHA3 digest should only be shown with -v")
	}
}

func TestPrintReport_ClassicalAndMissingClaims(t *testing.T) {
	tok := makeToken(t, `{"alg":"RS256"}`, `{}`, 256)
	r := analysis.Analyze(tok)

	out := captureOutput(func() {
		PrintReport("sample issuer", r, analysis.BuildPlan(r), Options{})
	})

	if !strings.Contains(out, "no post-quantum protection") {
		t.Error("expected classical warning")
	}
	if strings.Contains(out, "Option A") {
		t.Error("proposals should be omitted for classical tokens")
	}
	if !strings.Contains(out, "Issuer: N/A") || !strings.Contains(out, "Key ID: N/A") {
		t.Error("missing claims should show N/A")
	}
}

func TestPrintReport_JSON(t *testing.T) {
	tok := makeToken(t, `{"alg":"ML-DSA-87"}`, `{}`, 4627)
	r := analysis.Analyze(tok)

	out := captureOutput(func() {
		PrintReport("input", r, analysis.BuildPlan(r), Options{JSON: true})
	})

	var got struct {
		Source string          `json:"source"`
		Report analysis.Report `json:"report"`
		Plan   analysis.Plan   `json:"plan"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Source != "input" || got.Report.ExpectedSignatureBytes != 4627 {
		t.Errorf("unexpected report: %+v", got)
	}
	if len(got.Plan.Proposals) != 2 {
		t.Errorf("proposals = %d, want 2", len(got.Plan.Proposals))
	}
}

func TestPrintVerifyResult(t *testing.T) {
	fixedNow(t, time.Unix(1700000000, 0))
	exp := time.Unix(1699999000, 0)

	tests := []struct {
		name   string
		result *verify.Result
		want   []string
	}{
		{
			name:   "valid",
			result: &verify.Result{Algorithm: "RS256", KeyID: "k1", SignatureValid: true},
			want:   []string{"✓ Signature valid", "Key ID: k1"},
		},
		{
			name:   "invalid and expired",
			result: &verify.Result{Algorithm: "RS256", ExpiresAt: &exp, Expired: true, Errors: []string{"signature verification failed"}},
			want:   []string{"✗ Signature invalid", "⚠ Expired: 2023-11-14T21:56:40Z (16 minutes ago)", "✗ signature verification failed"},
		},
		{
			name:   "unsupported",
			result: &verify.Result{Algorithm: "DILITHIUM3", Family: "post-quantum", Unsupported: true},
			want:   []string{"⚠ Not verified: post-quantum signature"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(func() { PrintVerifyResult(tt.result, Options{}) })
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q\n%s", w, out)
				}
			}
		})
	}
}

func TestPrintHybridResult(t *testing.T) {
	signer, err := hybrid.GenerateSigner()
	if err != nil {
		t.Fatal(err)
	}
	raw, err := signer.Issue(map[string]any{"sub": "user-1"})
	if err != nil {
		t.Fatal(err)
	}
	result, err := signer.Verifier().Verify(raw)
	if err != nil {
		t.Fatal(err)
	}

	out := captureOutput(func() { PrintHybridResult(raw, result, Options{}) })

	for _, want := range []string{
		"┌ RS256 leg",
		"┌ ML-DSA-87 leg",
		"Signature Size: 4627 bytes",
		"✓ Both signatures valid: token accepted",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	jsonOut := captureOutput(func() { PrintHybridResult(raw, result, Options{JSON: true}) })
	var got map[string]any
	if err := json.Unmarshal([]byte(jsonOut), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["valid"] != true {
		t.Errorf("valid = %v", got["valid"])
	}
}

func TestPrintConfig_MasksSecrets(t *testing.T) {
	c := config.Default()
	if err := c.SetFromFlag("password", "hunter2"); err != nil {
		t.Fatal(err)
	}

	out := captureOutput(func() { PrintConfig(c, Options{}) })

	if strings.Contains(out, "hunter2") {
		t.Error("password must be masked")
	}
	if !strings.Contains(out, "password: ******** [flag]") {
		t.Errorf("expected masked password with source\n%s", out)
	}
	if !strings.Contains(out, "realm: myrealm [default]") {
		t.Error("expected default realm")
	}
	if !strings.Contains(out, "client_secret: (unset) [default]") {
		t.Error("expected unset client secret")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{90 * time.Second, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{time.Hour, "1 hour"},
		{5 * time.Hour, "5 hours"},
		{25 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{float64(42), "42"},
		{1.5, "1.5"},
		{true, "true"},
		{nil, "null"},
		{[]any{"a", float64(1)}, `["a",1]`},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
