// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

type fetched struct {
	data []byte
	// overlay is true when the bytes came from the instance's own patch file
	overlay bool
	err     error
}

// Reload reads every component's document again and resolves the stack.
// Cancellation leaves everything as it was. On a ResolveError the new states
// and problems are published, the profile stays the last one that resolved.
func (r *Resolver) Reload(ctx context.Context, mode bytesource.Mode) error {
	staged := r.staged()
	if err := r.load(ctx, staged, mode, func(*component) bool { return true }); err != nil {
		return err
	}

	profile, resolveErr := r.resolveStack(staged)
	if resolveErr != nil {
		r.logger.Warn("reload failed", "mode", mode.String(), "err", resolveErr.Error())
		r.publishFailed(staged)
		return resolveErr
	}
	r.publish(staged, profile, Reloaded, "")
	r.logger.Debug("reloaded components", "mode", mode.String(), "components", len(staged))
	return nil
}

// Resolve merges and analyzes what's loaded. Components that were never
// loaded get loaded first. Online also refreshes stale and failed components.
func (r *Resolver) Resolve(ctx context.Context, mode bytesource.Mode) error {
	staged := r.staged()
	err := r.load(ctx, staged, mode, func(c *component) bool {
		if c.state == Unloaded {
			return true
		}
		return mode == bytesource.Online && (c.state == Stale || c.state == LoadFailed)
	})
	if err != nil {
		return err
	}

	profile, resolveErr := r.resolveStack(staged)
	if resolveErr != nil {
		r.publishFailed(staged)
		return resolveErr
	}
	r.publish(staged, profile, Resolved, "")
	return nil
}

// load fetches the selected components concurrently, then parses them in stack
// order. It only fails on cancellation, per component failures end up in the
// component's state.
func (r *Resolver) load(ctx context.Context, components []*component, mode bytesource.Mode, selected func(*component) bool) error {
	results := make([]*fetched, len(components))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range components {
		if !selected(c) {
			continue
		}
		c.setState(Loading)
		uid, version, origin := c.uid, c.version, c.origin
		g.Go(func() error {
			res := r.fetch(gctx, uid, version, origin, mode)
			if res.err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("reload canceled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reload canceled: %w", err)
	}

	for i, c := range components {
		if results[i] != nil {
			r.apply(c, results[i])
		}
	}
	return nil
}

// fetch prefers the instance's patch file over the byte source, an overlay
// shadows the upstream document completely
func (r *Resolver) fetch(ctx context.Context, uid, version string, origin Origin, mode bytesource.Mode) *fetched {
	data, err := r.store.ReadPatchFile(uid)
	if err == nil {
		return &fetched{data: data, overlay: true}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return &fetched{err: err}
	}

	switch {
	case origin == OriginLocal || origin == OriginJarMod:
		return &fetched{err: fmt.Errorf("patch file of %s is missing", uid)}
	case version == "":
		return &fetched{err: fmt.Errorf("no version set for %s", uid)}
	}

	data, err = r.source.Fetch(ctx, bytesource.Ref{UID: uid, Version: version}, mode)
	if err != nil {
		return &fetched{err: err}
	}
	return &fetched{data: data}
}

func (r *Resolver) apply(c *component, res *fetched) {
	if res.err != nil {
		r.fail(c, res.err)
		return
	}

	f, err := versionfile.Parse(res.data, c.uid+".json")
	if err != nil {
		r.fail(c, err)
		return
	}
	if f.UID != c.uid {
		r.fail(c, fmt.Errorf("document belongs to %s", f.UID))
		return
	}

	c.loadErr = nil
	c.file = f
	c.custom = res.overlay
	if !res.overlay {
		c.upstream = f
	} else if c.upstream != nil && c.upstream.Version != c.version {
		c.upstream = nil
	}
	if f.Name != "" {
		c.name = f.Name
	}
	if c.version == "" {
		c.version = f.Version
	}
	c.setState(Loaded)
}

func (r *Resolver) fail(c *component, err error) {
	r.logger.Warn("failed to load component", "uid", c.uid, "version", c.version, "err", err.Error())
	c.loadErr = fmt.Errorf("%w: %w", ErrLoadFailed, err)
	c.file = nil
	c.setState(LoadFailed)
}
