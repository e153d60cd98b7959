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

package format

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestReadInput_RawString(t *testing.T) {
	raw, err := ReadInput("eyJhbGciOiJSUzI1NiJ9.test.sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "eyJhbGciOiJSUzI1NiJ9.test.sig" {
		t.Errorf("expected raw string back, got %q", raw)
	}
}

func TestReadInput_FileRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.txt")
	if err := os.WriteFile(path, []byte("  a.b.c  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	raw, err := ReadInput(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "a.b.c" {
		t.Errorf("expected trimmed file content, got %q", raw)
	}
}

func TestReadInput_JSONNotTreatedAsFile(t *testing.T) {
	in := `{"access_token":"a.b.c"}`
	raw, err := ReadInput(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != in {
		t.Errorf("expected JSON passthrough, got %q", raw)
	}
}

func TestReadInput_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "  a.b.c  ")
	}))
	defer srv.Close()

	raw, err := ReadInput(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "a.b.c" {
		t.Errorf("got %q, want a.b.c", raw)
	}
}

func TestReadInput_URLNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := ReadInput(srv.URL); err == nil {
		t.Error("expected error for HTTP 404")
	}
}

func TestReadInput_ImageWithoutQR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.png")
	if err := os.WriteFile(path, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadInput(path); err == nil {
		t.Error("expected error for undecodable image")
	}
}
