// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmc.dev/x/packprofile/pkg/simpleplatform"
)

func writeConfig(t *testing.T, home, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName), []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	c, err := GetWithCustomHome(home)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, cwd, c.InstancePath)
	assert.Equal(t, DefaultMetaURL, c.MetaURL)
	assert.Equal(t, DefaultFetchConcurrency, c.FetchConcurrency)
	assert.Equal(t, TieBreakStackPosition, c.TieBreak)
	assert.False(t, c.Offline)
	assert.Equal(t, filepath.Join(home, "cache", "meta"), c.MetaCachePath)
	assert.False(t, c.Platform.IsGeneric())
}

func TestConfigFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
instance: /srv/instances/vanilla
meta-url: http://localhost:9999
offline: true
fetch-concurrency: 2
tie-break: uid
platform: windows/386
`)
	c, err := GetWithCustomHome(home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean("/srv/instances/vanilla"), c.InstancePath)
	assert.Equal(t, "http://localhost:9999", c.MetaURL)
	assert.True(t, c.Offline)
	assert.Equal(t, 2, c.FetchConcurrency)
	assert.Equal(t, TieBreakUID, c.TieBreak)
	assert.Equal(t, "windows", c.Platform.(*simpleplatform.NonGeneric).LauncherOS())
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "meta-url: http://from-file\noffline: true\n")

	t.Setenv(MetaURLEnvVar, "http://from-env")
	t.Setenv(OfflineEnvVar, "false")
	t.Setenv(FetchConcurrencyEnvVar, "8")
	t.Setenv(InstanceEnvVar, "instances/modded")

	c, err := GetWithCustomHome(home)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", c.MetaURL)
	assert.False(t, c.Offline)
	assert.Equal(t, 8, c.FetchConcurrency)
	assert.Equal(t, filepath.Join(cwd, "instances", "modded"), c.InstancePath)
}

func TestHomeFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnvVar, home)
	c, err := Get()
	require.NoError(t, err)
	assert.Equal(t, home, c.HomePath)
	require.NoError(t, c.EnsureDirs())
	assert.DirExists(t, c.MetaCachePath)
}

func TestInvalidConfig(t *testing.T) {
	for name, content := range map[string]string{
		"unknown field":     "colour: blue\n",
		"unknown tie-break": "tie-break: random\n",
		"bad platform":      "platform: plan9\n",
	} {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, content)
			_, err := GetWithCustomHome(home)
			assert.Error(t, err)
		})
	}

	t.Run("bad env", func(t *testing.T) {
		t.Setenv(FetchConcurrencyEnvVar, "zero")
		_, err := GetWithCustomHome(t.TempDir())
		assert.Error(t, err)
	})
}
