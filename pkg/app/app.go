// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package app wires configuration, storage and transport into a resolver for the CLI
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
	"mmc.dev/x/packprofile/pkg/patchstore"
	"mmc.dev/x/packprofile/pkg/utils"
)

type App struct {
	Stderr, Stdout, Stdin *os.File
	ExitFn                func(exitCode int)
	// must contain at least one argument, namely the binary name, similar to os.Args
	OsArgs []string
}

func (a *App) SetOutputStreams(cmd *cobra.Command) {
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)
	cmd.SetIn(a.Stdin)

	lo.ForEach(cmd.Commands(), func(sub *cobra.Command, _ int) {
		a.SetOutputStreams(sub)
	})
}

// Instance is one opened instance directory
type Instance struct {
	Store    *patchstore.Store
	Resolver *packprofile.Resolver

	config *config.Config
}

func Open(cfg *config.Config) (*Instance, error) {
	instancePath, err := filepath.Abs(cfg.InstancePath)
	if err != nil {
		return nil, err
	}
	if ok, err := utils.DirExists(instancePath); err != nil {
		return nil, err
	} else if !ok {
		return nil, &os.PathError{Op: "open instance", Path: instancePath, Err: os.ErrNotExist}
	}

	source, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	tieBreak, err := packprofile.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}

	store := patchstore.New(instancePath)
	resolver, err := packprofile.New(packprofile.Options{
		Source:           source,
		Store:            store,
		Platform:         cfg.Platform,
		Logger:           slog.Default().With("instance", filepath.Base(instancePath)),
		TieBreak:         tieBreak,
		FetchConcurrency: cfg.FetchConcurrency,
	})
	if err != nil {
		return nil, err
	}
	return &Instance{Store: store, Resolver: resolver, config: cfg}, nil
}

// NewSource puts the metadata cache in front of the metadata server
func NewSource(cfg *config.Config) (bytesource.Source, error) {
	netrcPath := cfg.NetrcPath
	if netrcPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			netrcPath = filepath.Join(home, ".netrc")
		}
	}
	remote, err := bytesource.NewRemote(cfg.MetaURL, bytesource.WithNetrc(netrcPath))
	if err != nil {
		return nil, err
	}
	return bytesource.NewCaching(bytesource.NewDisk(cfg.MetaCachePath), remote), nil
}

// Mode picks the fetch mode, an offline config always wins
func (i *Instance) Mode(online bool) bytesource.Mode {
	switch {
	case i.config.Offline:
		return bytesource.Offline
	case online:
		return bytesource.Online
	}
	return bytesource.Local
}

// Load reads the pack and resolves it
func (i *Instance) Load(ctx context.Context, mode bytesource.Mode) error {
	if err := i.Resolver.LoadPack(); err != nil {
		return err
	}
	return i.Resolver.Reload(ctx, mode)
}

// Run loads the instance and hands the resolver to action. Mutating commands
// hold the instance lock and save the pack afterwards. A stack that doesn't
// resolve is only logged, so broken components can still be listed and repaired.
func (i *Instance) Run(ctx context.Context, command builtincommand.BuiltinCommand, online bool, action func(r *packprofile.Resolver) error) error {
	run := func() error {
		err := i.Load(ctx, i.Mode(online))
		var resolveErr *packprofile.ResolveError
		if errors.As(err, &resolveErr) {
			slog.Warn("instance doesn't resolve", "components", resolveErr.UIDs())
		} else if err != nil {
			return err
		}

		if err := action(i.Resolver); err != nil {
			return err
		}
		if !command.IsMutating() {
			return nil
		}
		return i.Resolver.SavePack()
	}

	if !command.IsMutating() {
		return run()
	}
	return i.Store.Lock(ctx, run)
}

// ComponentIndex accepts a uid or a stack index
func (i *Instance) ComponentIndex(arg string) (int, error) {
	if index := i.Resolver.IndexOf(arg); index >= 0 {
		return index, nil
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		return -1, fmt.Errorf("%w: %s", packprofile.ErrNotFound, arg)
	}
	return index, nil
}
