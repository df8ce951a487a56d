// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package patchstore

import (
	"cmp"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"sync"
)

// Memory keeps everything in maps. It is meant for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	patches map[string][]byte
	jarMods map[string]string
	order   []string
	pack    *Pack

	// FailWrites makes every write return this error when set
	FailWrites error
	// FailOrderWrites only fails WriteOrder
	FailOrderWrites error
}

func NewMemory() *Memory {
	return &Memory{patches: map[string][]byte{}, jarMods: map[string]string{}}
}

func (m *Memory) ReadPatchFile(uid string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.patches[uid]
	if !ok {
		return nil, fmt.Errorf("patch %s: %w", uid, fs.ErrNotExist)
	}
	return slices.Clone(data), nil
}

func (m *Memory) WritePatchFile(uid string, data []byte) error {
	if err := validateUID(uid); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.patches[uid] = slices.Clone(data)
	return nil
}

func (m *Memory) DeletePatchFile(uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.patches, uid)
	return nil
}

func (m *Memory) ListPatchFiles() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.patches)), nil
}

func (m *Memory) ReadOrder() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order), nil
}

func (m *Memory) WriteOrder(order []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := cmp.Or(m.FailWrites, m.FailOrderWrites); err != nil {
		return err
	}
	m.order = slices.Clone(order)
	return nil
}

func (m *Memory) DeleteOrder() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	return nil
}

func (m *Memory) ReadPack() (*Pack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pack == nil {
		return nil, nil
	}
	p := *m.pack
	p.Components = slices.Clone(m.pack.Components)
	return &p, nil
}

func (m *Memory) WritePack(p *Pack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	c := *p
	c.FormatVersion = PackFormatVersion
	c.Components = slices.Clone(p.Components)
	m.pack = &c
	return nil
}

// ImportJarMod only records the source path
func (m *Memory) ImportJarMod(srcPath, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.jarMods[filename] = srcPath
	return nil
}

func (m *Memory) DeleteJarMod(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jarMods, filename)
	return nil
}

// JarMods returns the imported jar mod file names, sorted
func (m *Memory) JarMods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.jarMods))
}

// HasPatch is a test helper
func (m *Memory) HasPatch(uid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.patches[uid]
	return ok
}
