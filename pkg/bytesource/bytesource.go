// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package bytesource delivers the raw bytes of upstream version files. It knows
// nothing about their content.
package bytesource

import (
	"context"
	"errors"
	"fmt"
)

// Mode decides how far a fetch may go to get bytes
type Mode int

const (
	// Offline only uses what is already on disk
	Offline Mode = iota
	// Local uses what is on disk and downloads only what's missing
	Local
	// Online refreshes everything from the remote, falling back to disk when that fails
	Online
)

func (m Mode) String() string {
	switch m {
	case Offline:
		return "offline"
	case Local:
		return "local"
	case Online:
		return "online"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var ErrNotAvailable = errors.New("version file not available")

// Ref names one upstream version file
type Ref struct {
	UID     string
	Version string
}

func (r Ref) String() string {
	if r.Version == "" {
		return r.UID
	}
	return r.UID + "@" + r.Version
}

type Source interface {
	// Fetch returns the bytes for ref, or an error matching ErrNotAvailable
	// when the mode doesn't allow getting them.
	Fetch(ctx context.Context, ref Ref, mode Mode) ([]byte, error)
}

func notAvailable(ref Ref, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrNotAvailable, ref, reason)
}
