// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
	"mmc.dev/x/packprofile/pkg/patchstore"
	"mmc.dev/x/packprofile/pkg/testutil"
)

type AppSuite struct {
	testutil.CommonSetupSuite

	meta *testutil.MetaServer
	conf *config.Config
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.CommonSetupSuite.SetupTest()
	t := s.T()

	s.meta = testutil.StartMetaServer(t, testutil.TestdataPath(t, "meta"))
	t.Setenv(config.InstanceEnvVar, testutil.CopyInstance(t))

	var err error
	s.conf, err = config.Get()
	s.Require().NoError(err)
	s.Require().NoError(s.conf.EnsureDirs())
}

func (s *AppSuite) TestOpenMissingInstance() {
	s.conf.InstancePath = filepath.Join(s.T().TempDir(), "nope")
	_, err := Open(s.conf)
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *AppSuite) TestMode() {
	inst, err := Open(s.conf)
	s.Require().NoError(err)
	s.Equal(bytesource.Local, inst.Mode(false))
	s.Equal(bytesource.Online, inst.Mode(true))

	s.conf.Offline = true
	s.Equal(bytesource.Offline, inst.Mode(true))
}

func (s *AppSuite) TestComponentIndex() {
	inst, err := Open(s.conf)
	s.Require().NoError(err)
	s.Require().NoError(inst.Load(testutil.Context(s.T()), bytesource.Local))

	index, err := inst.ComponentIndex("org.lwjgl")
	s.Require().NoError(err)
	s.Equal(1, index)

	index, err = inst.ComponentIndex("3")
	s.Require().NoError(err)
	s.Equal(3, index)

	_, err = inst.ComponentIndex("org.example.missing")
	s.ErrorIs(err, packprofile.ErrNotFound)
}

func (s *AppSuite) TestRunSavesOnlyMutations() {
	ctx := testutil.Context(s.T())
	inst, err := Open(s.conf)
	s.Require().NoError(err)
	packFile := filepath.Join(s.conf.InstancePath, patchstore.PackFileName)
	before, err := os.ReadFile(packFile)
	s.Require().NoError(err)

	s.Require().NoError(inst.Run(ctx, builtincommand.List, false, func(r *packprofile.Resolver) error {
		s.Equal(4, r.Len())
		return nil
	}))
	after, err := os.ReadFile(packFile)
	s.Require().NoError(err)
	s.Equal(before, after)

	s.Require().NoError(inst.Run(ctx, builtincommand.Add, false, func(r *packprofile.Resolver) error {
		return r.AddEmpty("org.example.extra", "Extra")
	}))
	pack, err := inst.Store.ReadPack()
	s.Require().NoError(err)
	s.Len(pack.Components, 5)
}

func (s *AppSuite) TestRunDoesNotSaveFailedActions() {
	inst, err := Open(s.conf)
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = inst.Run(testutil.Context(s.T()), builtincommand.Add, false, func(r *packprofile.Resolver) error {
		return boom
	})
	s.ErrorIs(err, boom)

	pack, err := inst.Store.ReadPack()
	s.Require().NoError(err)
	s.Len(pack.Components, 3)
}

func TestSetOutputStreams(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	a := &App{Stdout: w, Stderr: w}
	root := &cobra.Command{Use: "root"}
	sub := &cobra.Command{Use: "sub"}
	root.AddCommand(sub)
	a.SetOutputStreams(root)

	assert.Equal(t, w, sub.OutOrStdout())
	assert.Equal(t, w, sub.ErrOrStderr())
}
