// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmc.dev/x/packprofile/pkg/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "uid", "net.minecraft")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "uid=net.minecraft")

	_, err = NewLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestInitLoggingRejectsUnknownLevel(t *testing.T) {
	t.Setenv(config.LogLevelEnvVar, "loud")
	assert.Error(t, InitLogging())

	t.Setenv(config.LogLevelEnvVar, "debug")
	assert.NoError(t, InitLogging())
}
