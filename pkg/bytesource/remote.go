// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bytesource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jdx/go-netrc"

	"mmc.dev/x/packprofile/pkg/toolversion"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryCount = 2
)

// Remote downloads version files from a metadata server
type Remote struct {
	baseURL string
	client  *resty.Client
}

type RemoteOption func(*Remote) error

// WithNetrc sends basic auth credentials of the netrc machine matching the server's host.
// A missing netrc file is not an error.
func WithNetrc(path string) RemoteOption {
	return func(r *Remote) error {
		if path == "" {
			return nil
		}
		u, err := url.Parse(r.baseURL)
		if err != nil {
			return err
		}
		n, err := netrc.Parse(path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no netrc file, requests to the metadata server will be unauthenticated", "path", path)
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read netrc %q: %w", path, err)
		}
		machine := n.Machine(u.Hostname())
		if machine == nil {
			return nil
		}
		slog.Debug("using netrc credentials for metadata server", "host", u.Hostname())
		r.client.SetBasicAuth(machine.Get("login"), machine.Get("password"))
		return nil
	}
}

// WithHTTPClient takes over the transport of c, mostly for tests. Whatever
// was set on the remote before is kept, the timeout only changes if c has one.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) error {
		if c.Transport != nil {
			r.client.SetTransport(c.Transport)
		}
		if c.Jar != nil {
			r.client.SetCookieJar(c.Jar)
		}
		if c.Timeout > 0 {
			r.client.SetTimeout(c.Timeout)
		}
		return nil
	}
}

func WithRetryCount(n int) RemoteOption {
	return func(r *Remote) error {
		r.client.SetRetryCount(n)
		return nil
	}
}

func NewRemote(baseURL string, opts ...RemoteOption) (*Remote, error) {
	r := &Remote{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: resty.New().
			SetHeader("User-Agent", toolversion.UserAgent()).
			SetTimeout(defaultTimeout).
			SetRetryCount(defaultRetryCount),
	}
	for _, o := range opts {
		if err := o(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Fetch refuses to touch the network in Offline mode
func (r *Remote) Fetch(ctx context.Context, ref Ref, mode Mode) ([]byte, error) {
	if mode == Offline {
		return nil, notAvailable(ref, "offline")
	}
	if ref.UID == "" || ref.Version == "" {
		return nil, notAvailable(ref, "incomplete reference")
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"uid":     ref.UID,
			"version": ref.Version,
		}).
		Get(r.baseURL + "/{uid}/{version}.json")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, notAvailable(ref, "not found on metadata server")
	case !resp.IsSuccess():
		return nil, fmt.Errorf("failed to fetch %s: %s", ref, resp.Status())
	}
	slog.Debug("fetched version file", "ref", ref.String(), "bytes", len(resp.Body()))
	return resp.Body(), nil
}
