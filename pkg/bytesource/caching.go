// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bytesource

import (
	"context"
	"errors"
	"log/slog"
)

// Caching puts a local cache in front of a remote source
type Caching struct {
	cache  *Disk
	remote Source
}

func NewCaching(cache *Disk, remote Source) *Caching {
	return &Caching{cache: cache, remote: remote}
}

func (c *Caching) Fetch(ctx context.Context, ref Ref, mode Mode) ([]byte, error) {
	switch mode {
	case Offline:
		return c.cache.Fetch(ctx, ref, mode)

	case Online:
		data, err := c.fetchRemote(ctx, ref, mode)
		if err == nil {
			return data, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		cached, cacheErr := c.cache.Fetch(ctx, ref, mode)
		if cacheErr != nil {
			return nil, errors.Join(err, cacheErr)
		}
		slog.Warn("using cached version file, refreshing it failed", "ref", ref.String(), "err", err.Error())
		return cached, nil

	default:
		data, err := c.cache.Fetch(ctx, ref, mode)
		if err == nil || !errors.Is(err, ErrNotAvailable) {
			return data, err
		}
		return c.fetchRemote(ctx, ref, mode)
	}
}

func (c *Caching) fetchRemote(ctx context.Context, ref Ref, mode Mode) ([]byte, error) {
	data, err := c.remote.Fetch(ctx, ref, mode)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Store(ref, data); err != nil {
		// the bytes are still good, only the next offline start will miss them
		slog.Warn("failed to cache version file", "ref", ref.String(), "err", err.Error())
	}
	return data, nil
}
