// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/fslock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "file.json")
	require.NoError(t, WriteFileAtomic(p, []byte("one")))
	require.NoError(t, WriteFileAtomic(p, []byte("two")))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, RemoveIfExists(p))
	require.NoError(t, RemoveIfExists(p))
}

func TestWithInstanceLockWaitsForContext(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".lock")
	require.NoError(t, EnsureDirs(filepath.Dir(lockPath)))

	held := fslock.New(lockPath)
	require.NoError(t, held.Lock())
	defer held.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	ran := false
	err := WithInstanceLock(ctx, lockPath, func() error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

func TestEnvVars(t *testing.T) {
	t.Setenv("PACKPROFILE_TEST_BOOL", "true")
	b, ok, err := BoolEnvVar("PACKPROFILE_TEST_BOOL")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, b)

	t.Setenv("PACKPROFILE_TEST_INT", "-1")
	_, ok, err = PositiveIntEnvVar("PACKPROFILE_TEST_INT")
	assert.True(t, ok)
	assert.Error(t, err)

	_, ok, err = PositiveIntEnvVar("PACKPROFILE_TEST_UNSET")
	assert.False(t, ok)
	assert.NoError(t, err)
}
