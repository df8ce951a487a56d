// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bytesource

import (
	"context"
	"slices"
	"sync"
)

// Memory serves version files from a map. It is meant for tests.
type Memory struct {
	mu    sync.Mutex
	files map[Ref][]byte
	calls []Ref

	// BeforeFetch runs before every fetch, a returned error fails the fetch
	BeforeFetch func(ctx context.Context, ref Ref) error
}

func NewMemory() *Memory {
	return &Memory{files: map[Ref][]byte{}}
}

func (m *Memory) Put(ref Ref, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[ref] = slices.Clone(data)
}

func (m *Memory) Delete(ref Ref) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
}

// Calls returns the refs fetched so far, in call order
func (m *Memory) Calls() []Ref {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

func (m *Memory) Fetch(ctx context.Context, ref Ref, _ Mode) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ref)
	hook := m.BeforeFetch
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, ref); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[ref]
	if !ok {
		return nil, notAvailable(ref, "unknown")
	}
	return slices.Clone(data), nil
}
