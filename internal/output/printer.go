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

// Package output renders decoded tokens, reports and verification results
// for the terminal, or as JSON when Options.JSON is set.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Options controls how results are printed.
type Options struct {
	JSON    bool
	NoColor bool
	Verbose bool
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	valueColor   = color.New(color.FgWhite)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)

	// timeNow is the function used to get the current time. Override in tests.
	timeNow = time.Now
)

// timeClaims are rendered as dates next to their numeric value.
var timeClaims = map[string]bool{
	"exp":       true,
	"iat":       true,
	"nbf":       true,
	"auth_time": true,
}

// relativeTime returns a human-readable relative duration string for t.
// Future times return "in X units", past times return "X units ago".
func relativeTime(t time.Time) string {
	d := t.Sub(timeNow())
	if d < 0 {
		return formatDuration(-d) + " ago"
	}
	return "in " + formatDuration(d)
}

func formatDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d >= 2*day:
		return fmt.Sprintf("%d days", int(d/day))
	case d >= day:
		return "1 day"
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Hour:
		return "1 hour"
	case d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d >= time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
}

func printTitle(title string) {
	headerColor.Println(title)
	headerColor.Println(strings.Repeat("─", 60))
}

func printSection(title string) {
	fmt.Println()
	headerColor.Printf("┌ %s\n", title)
}

func printKV(key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	labelColor.Printf("%s%s: ", prefix, key)
	valueColor.Println(value)
}

// printTree prints key/value pairs with ├─ / └─ connectors.
func printTree(title string, pairs [][2]string) {
	labelColor.Println(title)
	for i, kv := range pairs {
		branch := "├─"
		if i == len(pairs)-1 {
			branch = "└─"
		}
		dimColor.Printf("  %s ", branch)
		labelColor.Printf("%s: ", kv[0])
		valueColor.Println(kv[1])
	}
}

func printMap(m map[string]any, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, k := range sortedKeys(m) {
		labelColor.Printf("%s%s: ", prefix, k)
		fmt.Println(formatClaim(k, m[k]))
	}
}

// formatClaim formats v, appending the date for numeric time claims.
func formatClaim(key string, v any) string {
	s := formatValue(v)
	if !timeClaims[key] {
		return s
	}
	n, ok := v.(float64)
	if !ok {
		return s
	}
	t := time.Unix(int64(n), 0).UTC()
	return s + dimColor.Sprintf(" (%s, %s)", t.Format(time.RFC3339), relativeTime(t))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	case map[string]any:
		b, _ := json.MarshalIndent(val, "    ", "  ")
		return string(b)
	case []any:
		if isSimpleArray(val) {
			b, _ := json.Marshal(val)
			return string(b)
		}
		b, _ := json.MarshalIndent(val, "    ", "  ")
		return string(b)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func isSimpleArray(arr []any) bool {
	for _, v := range arr {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printTimeValidity(expires, notBefore *time.Time, expired, notYetValid bool) {
	if notBefore != nil {
		printKV("Not Before", notBefore.UTC().Format(time.RFC3339), 1)
	}
	if expires != nil {
		rel := dimColor.Sprintf(" (%s)", relativeTime(*expires))
		if expired {
			warnColor.Printf("  ⚠ Expired: %s%s\n", expires.UTC().Format(time.RFC3339), rel)
		} else {
			printKV("Expires", expires.UTC().Format(time.RFC3339)+rel, 1)
		}
	}
	if notYetValid {
		warnColor.Println("  ⚠ Token not yet valid")
	}
}

func printCheck(ok bool, okMsg, failMsg string) {
	if ok {
		successColor.Printf("  ✓ %s\n", okMsg)
	} else {
		errorColor.Printf("  ✗ %s\n", failMsg)
	}
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor.Sprint("Error:"), msg)
}
