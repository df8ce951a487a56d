// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package simpleplatform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("darwin/arm64")
	require.NoError(t, err)
	require.False(t, p.IsGeneric())
	nonGeneric := p.(*NonGeneric)
	assert.Equal(t, OSX, nonGeneric.LauncherOS())
	assert.Equal(t, "64", nonGeneric.Bits())
	assert.True(t, p.Equal(&NonGeneric{OS: "darwin", Architecture: "arm64"}))
	assert.False(t, p.Equal(&NonGeneric{OS: "darwin", Architecture: "amd64"}))

	g, err := ParsePlatform(GenericPlatformStr)
	require.NoError(t, err)
	assert.True(t, g.IsGeneric())

	for _, invalid := range []string{"linux", "linux/", "/amd64", "linux/amd64/v2"} {
		_, err = ParsePlatform(invalid)
		assert.ErrorIs(t, err, ErrInvalidPlatform, invalid)
	}
}

func TestTextRoundTrip(t *testing.T) {
	p := &NonGeneric{}
	require.NoError(t, p.UnmarshalText([]byte("windows/386")))
	assert.Equal(t, &NonGeneric{OS: "windows", Architecture: "386"}, p)

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "windows/386", string(text))

	assert.ErrorIs(t, p.UnmarshalText([]byte(GenericPlatformStr)), ErrInvalidPlatform)
}

func TestLauncherOS(t *testing.T) {
	assert.Equal(t, OSWindows, (&NonGeneric{OS: "windows", Architecture: "386"}).LauncherOS())
	assert.Equal(t, "32", (&NonGeneric{OS: "windows", Architecture: "386"}).Bits())
	assert.Equal(t, OSLinux, (&NonGeneric{OS: "linux", Architecture: "amd64"}).LauncherOS())
	assert.Equal(t, OSOther, (&NonGeneric{OS: "plan9", Architecture: "amd64"}).LauncherOS())
}
