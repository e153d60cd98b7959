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

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", false, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("error", true, &buf)
	require.NoError(t, err)

	log.Debug("details")
	assert.Contains(t, buf.String(), "details")
}

func TestNew_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", false, &buf)
	require.NoError(t, err)

	log.Info("quiet")
	log.Error("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", false, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")
}
