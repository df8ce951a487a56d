// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package patchstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmc.dev/x/packprofile/pkg/testutil"
)

func TestPatchFiles(t *testing.T) {
	s := New(t.TempDir())

	uids, err := s.ListPatchFiles()
	require.NoError(t, err)
	assert.Empty(t, uids)

	_, err = s.ReadPatchFile("net.minecraft")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, s.WritePatchFile("org.lwjgl", []byte(`{"uid":"org.lwjgl"}`)))
	require.NoError(t, s.WritePatchFile("net.minecraft", []byte(`{"uid":"net.minecraft"}`)))
	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(s.PatchesDir(), "notes.txt"), []byte("hi"), 0o644))

	uids, err = s.ListPatchFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"net.minecraft", "org.lwjgl"}, uids)

	data, err := s.ReadPatchFile("net.minecraft")
	require.NoError(t, err)
	assert.Equal(t, `{"uid":"net.minecraft"}`, string(data))

	require.NoError(t, s.DeletePatchFile("net.minecraft"))
	// deleting twice is fine
	require.NoError(t, s.DeletePatchFile("net.minecraft"))
	uids, err = s.ListPatchFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"org.lwjgl"}, uids)

	// no temp files are left behind
	entries, err := os.ReadDir(s.PatchesDir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestInvalidUID(t *testing.T) {
	s := New(t.TempDir())
	for _, uid := range []string{"", "..", "../escape", `a\b`} {
		assert.ErrorIs(t, s.WritePatchFile(uid, []byte("{}")), ErrInvalidUID)
		_, err := s.ReadPatchFile(uid)
		assert.ErrorIs(t, err, ErrInvalidUID)
	}
}

func TestOrder(t *testing.T) {
	s := New(t.TempDir())

	order, err := s.ReadOrder()
	require.NoError(t, err)
	assert.Nil(t, order)

	require.NoError(t, s.WriteOrder([]string{"net.minecraft", "org.lwjgl"}))
	raw, err := os.ReadFile(filepath.Join(s.InstanceDir(), OrderFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version": 1`)

	order, err = s.ReadOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"net.minecraft", "org.lwjgl"}, order)

	require.NoError(t, s.DeleteOrder())
	order, err = s.ReadOrder()
	require.NoError(t, err)
	assert.Nil(t, order)

	require.NoError(t, os.WriteFile(filepath.Join(s.InstanceDir(), OrderFileName), []byte(`{"version":2,"order":[]}`), 0o644))
	_, err = s.ReadOrder()
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestPack(t *testing.T) {
	s := New(testutil.CopyInstance(t))

	p, err := s.ReadPack()
	require.NoError(t, err)
	require.Len(t, p.Components, 3)
	assert.Equal(t, "org.lwjgl", p.Components[0].UID)
	assert.True(t, p.Components[0].DependencyOnly)
	assert.True(t, p.Components[1].Important)

	p.Components = p.Components[1:]
	require.NoError(t, s.WritePack(p))
	p, err = s.ReadPack()
	require.NoError(t, err)
	assert.Len(t, p.Components, 2)

	uids, err := s.ListPatchFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"org.example.tweaks"}, uids)
}

func TestInvalidPack(t *testing.T) {
	for _, content := range []string{`[]`, `{"formatVersion":2,"components":[]}`, `{"formatVersion":1,"components":[{"version":"1"}]}`} {
		_, err := ParsePack([]byte(content))
		assert.ErrorIs(t, err, ErrInvalidPack)
	}
}

func TestJarMods(t *testing.T) {
	s := New(t.TempDir())
	src := filepath.Join(t.TempDir(), "OptiFine.jar")
	require.NoError(t, os.WriteFile(src, []byte("PK"), 0o644))

	require.NoError(t, s.ImportJarMod(src, "abc.jar"))
	assert.FileExists(t, filepath.Join(s.JarModsDir(), "abc.jar"))
	require.NoError(t, s.DeleteJarMod("abc.jar"))
	assert.NoFileExists(t, filepath.Join(s.JarModsDir(), "abc.jar"))
}

func TestLock(t *testing.T) {
	s := New(t.TempDir())
	ran := false
	require.NoError(t, s.Lock(testutil.Context(t), func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
	assert.FileExists(t, s.LockFile())
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.WritePatchFile("b", []byte("{}")))
	require.NoError(t, m.WritePatchFile("a", []byte("{}")))
	uids, err := m.ListPatchFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, uids)
	assert.True(t, m.HasPatch("a"))

	_, err = m.ReadPatchFile("c")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	m.FailWrites = fs.ErrPermission
	assert.ErrorIs(t, m.WritePatchFile("c", nil), fs.ErrPermission)
	assert.False(t, m.HasPatch("c"))
}
