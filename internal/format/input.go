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
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dominikschlosser/qsign-inspect/internal/qr"
)

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ReadInput reads token input from: URL, file path, QR code image, "-" for stdin, or raw string.
func ReadInput(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "-" || input == "" {
		return readStdin(os.Stdin)
	}

	if strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "http://") {
		return fetchURL(input)
	}

	// JSON token responses are passed inline more often than as files
	if strings.HasPrefix(input, "{") {
		return input, nil
	}

	if _, err := os.Stat(input); err == nil {
		if imageExtensions[strings.ToLower(filepath.Ext(input))] {
			text, err := qr.ScanFile(input)
			if err != nil {
				return "", fmt.Errorf("scanning %s: %w", input, err)
			}
			return strings.TrimSpace(text), nil
		}
		b, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("reading file %s: %w", input, err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	return input, nil
}

func readStdin(f *os.File) (string, error) {
	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("cannot read stdin: %w", err)
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no input provided (use a file path, URL, raw token, or pipe to stdin)")
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func fetchURL(url string) (string, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", url, err)
	}

	return strings.TrimSpace(string(b)), nil
}
