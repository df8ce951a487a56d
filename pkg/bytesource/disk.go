// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bytesource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mmc.dev/x/packprofile/pkg/utils"
)

// Disk reads and writes the metadata cache, laid out as <dir>/<uid>/<version>.json
type Disk struct {
	dir string
}

func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

func (d *Disk) path(ref Ref) (string, error) {
	for _, part := range []string{ref.UID, ref.Version} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("%w: invalid reference %q", ErrNotAvailable, ref)
		}
	}
	return filepath.Join(d.dir, ref.UID, ref.Version+".json"), nil
}

// Fetch ignores the mode, the cache is always allowed
func (d *Disk) Fetch(ctx context.Context, ref Ref, _ Mode) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notAvailable(ref, "not in cache")
	}
	return data, err
}

func (d *Disk) Store(ref Ref, data []byte) error {
	p, err := d.path(ref)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(p, data)
}
