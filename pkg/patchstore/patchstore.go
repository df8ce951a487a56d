// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patchstore persists the files an instance's component stack owns:
//
//	<instance>/patches/<uid>.json   patch and overlay files
//	<instance>/order.json           explicit component order
//	<instance>/mmc-pack.json        component list
//	<instance>/jarmods/             jar mod archives
//	<instance>/.packprofile.lock    single writer lock
package patchstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mmc.dev/x/packprofile/pkg/utils"
)

const (
	PatchesDirName = "patches"
	JarModsDirName = "jarmods"
	OrderFileName  = "order.json"
	PackFileName   = "mmc-pack.json"
	LockFileName   = ".packprofile.lock"

	patchExtension = ".json"
)

var ErrInvalidUID = errors.New("invalid component uid")

// Store is the filesystem implementation, rooted at an instance directory
type Store struct {
	instanceDir string
}

func New(instanceDir string) *Store {
	return &Store{instanceDir: instanceDir}
}

func (s *Store) InstanceDir() string {
	return s.instanceDir
}

func (s *Store) PatchesDir() string {
	return filepath.Join(s.instanceDir, PatchesDirName)
}

func (s *Store) JarModsDir() string {
	return filepath.Join(s.instanceDir, JarModsDirName)
}

func (s *Store) LockFile() string {
	return filepath.Join(s.instanceDir, LockFileName)
}

// uids become file names, anything that could escape the patches dir is rejected
func validateUID(uid string) error {
	if uid == "" || uid == "." || uid == ".." || strings.ContainsAny(uid, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidUID, uid)
	}
	return nil
}

func (s *Store) patchPath(uid string) (string, error) {
	if err := validateUID(uid); err != nil {
		return "", err
	}
	return filepath.Join(s.PatchesDir(), uid+patchExtension), nil
}

// ReadPatchFile returns an error matching fs.ErrNotExist when there's no patch for uid
func (s *Store) ReadPatchFile(uid string) ([]byte, error) {
	p, err := s.patchPath(uid)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *Store) WritePatchFile(uid string, data []byte) error {
	p, err := s.patchPath(uid)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(p, data)
}

func (s *Store) DeletePatchFile(uid string) error {
	p, err := s.patchPath(uid)
	if err != nil {
		return err
	}
	return utils.RemoveIfExists(p)
}

// ListPatchFiles returns the uids of all patch files, sorted
func (s *Store) ListPatchFiles() ([]string, error) {
	entries, err := os.ReadDir(s.PatchesDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var uids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), patchExtension) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		uids = append(uids, strings.TrimSuffix(e.Name(), patchExtension))
	}
	slices.Sort(uids)
	return uids, nil
}

// ReadOrder returns nil without error when there's no order file
func (s *Store) ReadOrder() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.instanceDir, OrderFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return ParseOrder(data)
}

func (s *Store) WriteOrder(order []string) error {
	data, err := MarshalOrder(order)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(filepath.Join(s.instanceDir, OrderFileName), data)
}

func (s *Store) DeleteOrder() error {
	return utils.RemoveIfExists(filepath.Join(s.instanceDir, OrderFileName))
}

// ReadPack returns nil without error when the instance has no pack file yet
func (s *Store) ReadPack() (*Pack, error) {
	data, err := os.ReadFile(filepath.Join(s.instanceDir, PackFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return ParsePack(data)
}

func (s *Store) WritePack(p *Pack) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(filepath.Join(s.instanceDir, PackFileName), data)
}

// ImportJarMod copies a jar into the instance's jar mod folder under the given file name
func (s *Store) ImportJarMod(srcPath, filename string) error {
	if err := validateUID(filename); err != nil {
		return err
	}
	return utils.CopyFile(srcPath, filepath.Join(s.JarModsDir(), filename))
}

func (s *Store) DeleteJarMod(filename string) error {
	if err := validateUID(filename); err != nil {
		return err
	}
	return utils.RemoveIfExists(filepath.Join(s.JarModsDir(), filename))
}

// Lock runs action holding the instance lock, see utils.WithInstanceLock
func (s *Store) Lock(ctx context.Context, action func() error) error {
	return utils.WithInstanceLock(ctx, s.LockFile(), action)
}
