// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/utils"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// MetaServer serves version files as <uid>/<version>.json, like the real metadata server
type MetaServer struct {
	*httptest.Server

	mu         sync.Mutex
	requests   []string
	userAgents []string
	auth       []string
	gate       chan struct{}
}

// StartMetaServer serves the files below root and points PACKPROFILE_META_URL at it
func StartMetaServer(t *testing.T, root string) *MetaServer {
	m := &MetaServer{}
	files := http.FileServer(http.Dir(root))
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.URL.Path)
		m.userAgents = append(m.userAgents, r.UserAgent())
		if user, _, ok := r.BasicAuth(); ok {
			m.auth = append(m.auth, user)
		}
		gate := m.gate
		m.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		files.ServeHTTP(w, r)
	}))
	t.Cleanup(m.Close)
	t.Setenv(config.MetaURLEnvVar, m.URL)
	return m
}

// Hold blocks every following request until release is called or the request is cancelled
func (m *MetaServer) Hold() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Requests returns the paths requested so far
func (m *MetaServer) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func (m *MetaServer) UserAgents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.userAgents...)
}

// AuthUsers returns the basic auth user names sent so far
func (m *MetaServer) AuthUsers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.auth...)
}

// CopyInstance copies the instance fixture into a fresh temp dir
func CopyInstance(t *testing.T) string {
	src := TestdataPath(t, "instance")
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		return utils.CopyFile(p, filepath.Join(dst, rel))
	})
	require.NoError(t, err)
	return dst
}

type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	// point PACKPROFILE_HOME at a randomized temp dir before every test,
	// otherwise all tests would share the default ~/.packprofile
	tmpHome, deleteFn, err := utils.MkdirTemp("", "")
	suite.Require().NoError(err)
	suite.T().Setenv(config.HomeEnvVar, tmpHome)
	suite.T().Setenv(config.NetrcEnvVar, filepath.Join(tmpHome, "netrc"))
	suite.T().Cleanup(func() {
		deleteFn()
	})
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}
