// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package versioncmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0.0", 0},
		{"1.7.10", "1.7.2", 1},
		{"1.12.2", "1.16.5", -1},
		{"14.23.5.2847", "14.23.5.2860", -1},
		{"2.9.4-nightly-20150209", "2.9.4", -1},
		{"3.2.2", "3.2.2", 0},
		{"1.16-pre3", "1.16.1", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		want       bool
	}{
		{"empty constraint", "1.2.3", "", true},
		{"plain equal", "1.12.2", "1.12.2", true},
		{"plain equal with padding", "1.12", "1.12.0", true},
		{"plain different", "1.12.2", "1.16.5", false},
		{"semver range", "1.16.5", ">=1.14, <1.17", true},
		{"semver range miss", "1.18.1", ">=1.14, <1.17", false},
		{"semver tilde", "1.7.10", "~1.7", true},
		{"four part version", "14.23.5.2847", ">=14.23.5.2800", true},
		{"four part version miss", "14.23.5.2847", "<14.23", false},
		{"not equal", "20w14a", "!=20w14a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Satisfies(tt.version, tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSatisfiesInvalid(t *testing.T) {
	_, err := Satisfies("14.23.5.2847", "~>14")
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}
