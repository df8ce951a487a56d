// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	l := NewLedger("net.fabricmc.fabric-loader")
	assert.Equal(t, None, l.Severity())

	l.Add(Warning, "possibly broken")
	assert.Equal(t, Warning, l.Severity())

	l.Addf(Error, "missing dependency %s", "net.minecraft")
	assert.Equal(t, Error, l.Severity())

	// adding a warning after an error never lowers the severity
	l.Add(Warning, "another")
	assert.Equal(t, Error, l.Severity())

	ps := l.Problems()
	require.Len(t, ps, 3)
	assert.Equal(t, "net.fabricmc.fabric-loader", ps[1].Source)
	assert.Equal(t, "error: net.fabricmc.fabric-loader: missing dependency net.minecraft", ps[1].String())

	clone := l.Clone()
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, None, l.Severity())
	assert.Equal(t, 3, clone.Len())
}

func TestSeverityText(t *testing.T) {
	for _, s := range []Severity{None, Warning, Error} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back Severity
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}
	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}
