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

// Package logging builds the diagnostic logger. Diagnostics go to stderr so
// they never interleave with the report written to stdout.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w at the given level
// ("debug", "info", "warn", "error"). verbose forces debug.
func New(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := resolveLevel(level, verbose)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core), nil
}

func resolveLevel(level string, verbose bool) (zap.AtomicLevel, error) {
	if verbose {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}
	if strings.TrimSpace(level) == "" {
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), nil
	}
	var parsed zapcore.Level
	if err := parsed.Set(level); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}
