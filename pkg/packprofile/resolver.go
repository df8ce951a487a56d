// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package packprofile owns the ordered component stack of one instance. It
// loads every component's version file, folds them into a launch profile and
// keeps the patch files on disk in line with user edits.
//
// A Resolver is not safe for concurrent use. It assumes it is the only writer
// of its store, see patchstore.Store.Lock for the cross-process part.
package packprofile

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/launchprofile"
	"mmc.dev/x/packprofile/pkg/patchstore"
	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/simpleplatform"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

// Store persists the instance's own files, patchstore.Store on disk and patchstore.Memory in tests
type Store interface {
	ReadPatchFile(uid string) ([]byte, error)
	WritePatchFile(uid string, data []byte) error
	DeletePatchFile(uid string) error
	ListPatchFiles() ([]string, error)

	ReadOrder() ([]string, error)
	WriteOrder(order []string) error
	DeleteOrder() error

	ReadPack() (*patchstore.Pack, error)
	WritePack(p *patchstore.Pack) error

	ImportJarMod(srcPath, filename string) error
	DeleteJarMod(filename string) error
}

var (
	_ Store = (*patchstore.Store)(nil)
	_ Store = (*patchstore.Memory)(nil)
)

type TieBreak int

const (
	// TieBreakStackPosition keeps components of equal order in stack order
	TieBreakStackPosition TieBreak = iota
	// TieBreakUID sorts components of equal order by uid
	TieBreakUID
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", config.TieBreakStackPosition:
		return TieBreakStackPosition, nil
	case config.TieBreakUID:
		return TieBreakUID, nil
	}
	return 0, fmt.Errorf("%w: unknown tie break %q", ErrInvalidOptions, s)
}

type Options struct {
	Source   bytesource.Source
	Store    Store
	Platform simpleplatform.Platform
	// Logger defaults to slog.Default()
	Logger   *slog.Logger
	TieBreak TieBreak
	// FetchConcurrency bounds parallel fetches of Reload, defaults to config.DefaultFetchConcurrency
	FetchConcurrency int
}

type Resolver struct {
	source      bytesource.Source
	store       Store
	platform    simpleplatform.Platform
	logger      *slog.Logger
	tieBreak    TieBreak
	concurrency int

	components []*component
	profile    *launchprofile.Profile

	observers    map[int]func(Event)
	nextObserver int
}

func New(opts Options) (*Resolver, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("%w: no byte source", ErrInvalidOptions)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: no store", ErrInvalidOptions)
	}
	platform := opts.Platform
	if platform == nil {
		platform = simpleplatform.CurrentPlatform()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.FetchConcurrency
	if concurrency <= 0 {
		concurrency = config.DefaultFetchConcurrency
	}

	return &Resolver{
		source:      opts.Source,
		store:       opts.Store,
		platform:    platform,
		logger:      logger,
		tieBreak:    opts.TieBreak,
		concurrency: concurrency,
		profile:     launchprofile.Empty(),
		observers:   map[int]func(Event){},
	}, nil
}

func (r *Resolver) Platform() simpleplatform.Platform {
	return r.platform
}

// Snapshot returns the last published profile. It is never modified, later
// changes publish a new one.
func (r *Resolver) Snapshot() *launchprofile.Profile {
	return r.profile
}

func (r *Resolver) Len() int {
	return len(r.components)
}

// Components lists the stack in merge order as of the last resolve
func (r *Resolver) Components() []ComponentInfo {
	return lo.Map(r.components, func(c *component, _ int) ComponentInfo {
		return c.info()
	})
}

func (r *Resolver) Component(index int) (ComponentInfo, error) {
	c, err := r.at(index)
	if err != nil {
		return ComponentInfo{}, err
	}
	return c.info(), nil
}

// IndexOf returns -1 for an unknown uid
func (r *Resolver) IndexOf(uid string) int {
	return lo.IndexOf(lo.Map(r.components, func(c *component, _ int) string { return c.uid }), uid)
}

// Document returns a copy of the component's effective version file
func (r *Resolver) Document(uid string) (*versionfile.VersionFile, error) {
	c, err := r.byUID(uid)
	if err != nil {
		return nil, err
	}
	if c.file == nil {
		return nil, fmt.Errorf("%w: %s has no document", ErrLoadFailed, uid)
	}
	return c.file.Clone(), nil
}

// FreeOrderNumber is an order that sorts after every component in the stack
func (r *Resolver) FreeOrderNumber() int {
	return freeOrderNumber(r.components)
}

func freeOrderNumber(components []*component) int {
	highest := 100
	for _, c := range components {
		highest = max(highest, c.order())
	}
	return highest + 1
}

// AddProblem records a problem found outside the resolver, it lasts until the next resolve
func (r *Resolver) AddProblem(uid string, severity problems.Severity, description string) error {
	c, err := r.byUID(uid)
	if err != nil {
		return err
	}
	c.ledger.Add(severity, description)
	return nil
}

func (r *Resolver) ProblemsFor(uid string) []problems.Problem {
	c, err := r.byUID(uid)
	if err != nil {
		return nil
	}
	return c.ledger.Problems()
}

func (r *Resolver) SeverityFor(uid string) problems.Severity {
	c, err := r.byUID(uid)
	if err != nil {
		return problems.None
	}
	return c.ledger.Severity()
}

// CanLaunch is false as soon as any component carries an Error
func (r *Resolver) CanLaunch() bool {
	return !lo.SomeBy(r.components, func(c *component) bool {
		return c.ledger.Severity() >= problems.Error
	})
}

func (r *Resolver) at(index int) (*component, error) {
	if index < 0 || index >= len(r.components) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, index)
	}
	return r.components[index], nil
}

func (r *Resolver) byUID(uid string) (*component, error) {
	c, ok := lo.Find(r.components, func(c *component) bool { return c.uid == uid })
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return c, nil
}

// staged copies the stack so a change can be worked out without touching the published state
func (r *Resolver) staged() []*component {
	return lo.Map(r.components, func(c *component, _ int) *component { return c.clone() })
}

// publish swaps in a worked out stack and tells the observers
func (r *Resolver) publish(components []*component, profile *launchprofile.Profile, kind EventKind, op string) {
	r.components = components
	r.profile = profile
	r.notify(Event{Kind: kind, Op: op, Profile: profile})
}

// publishFailed swaps in the stack of a failed resolve. Observers aren't told,
// there is no new profile.
func (r *Resolver) publishFailed(components []*component) {
	r.components = components
}
