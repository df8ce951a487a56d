// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package versionfile holds the typed representation of a single patch
// document and converts it from and to its JSON form.
//
// Two historical shapes are understood: the flat "version info" shape
// published for base game versions (minecraftArguments, libraries,
// minimumLauncherVersion, ...) and the "patch" shape written by the launcher
// (uid, order, +libraries, +traits, requires, conflicts, ...). Both parse into
// the same VersionFile; serialization always produces the patch shape.
package versionfile

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/problems"
)

// CurrentFormatVersion is the only patch format version that is read and written
const CurrentFormatVersion = 1

// CurrentMinimumLauncherVersion is the highest version info format this launcher knows how to run
const CurrentMinimumLauncherVersion = 18

type Shape int

const (
	ShapePatch Shape = iota
	ShapeVersionInfo
)

func (s Shape) String() string {
	if s == ShapeVersionInfo {
		return "version-info"
	}
	return "patch"
}

// Require is a dependency or conflict declaration on another component.
// Version is an optional constraint, see versioncmp.Satisfies.
type Require struct {
	UID     string `json:"uid"`
	Version string `json:"version,omitempty"`
}

type VersionFile struct {
	Shape Shape

	UID     string
	Name    string
	Version string
	// Order is the explicit order hint of the document, nil if the file didn't set one
	Order *int

	MainClass   string
	AppletClass string

	// base game properties, only found in version info documents and their customized copies
	MinecraftVersion       string
	MinecraftArguments     string
	Type                   string
	Assets                 string
	ReleaseTime            string
	UpdateTime             string
	MinimumLauncherVersion int
	AssetIndex             json.RawMessage
	Downloads              json.RawMessage

	MainJar    *Library
	Libraries  []*Library
	MavenFiles []*Library
	JarMods    []*Library

	Traits   []string
	Tweakers []string

	Requires  []Require
	Conflicts []Require

	// Volatile components may be dropped once nothing requires them anymore
	Volatile bool

	// Extra keeps fields this package doesn't understand so they survive a rewrite
	Extra map[string]json.RawMessage

	// Problems found while parsing. These are not serialized.
	Problems []problems.Problem
}

// New returns an empty patch shaped document
func New(uid, name string) *VersionFile {
	return &VersionFile{UID: uid, Name: name}
}

func (f *VersionFile) addProblem(severity problems.Severity, description string) {
	f.Problems = append(f.Problems, problems.Problem{Severity: severity, Description: description, Source: f.UID})
}

func (f *VersionFile) HasTrait(trait string) bool {
	return lo.Contains(f.Traits, trait)
}

// AddTraits appends traits that aren't present yet, keeping insertion order
func (f *VersionFile) AddTraits(traits ...string) {
	for _, t := range traits {
		if !f.HasTrait(t) {
			f.Traits = append(f.Traits, t)
		}
	}
}

// OrderOr returns the explicit order or the given fallback
func (f *VersionFile) OrderOr(fallback int) int {
	if f.Order == nil {
		return fallback
	}
	return *f.Order
}

// Clone makes a deep copy
func (f *VersionFile) Clone() *VersionFile {
	if f == nil {
		return nil
	}
	out := *f
	if f.Order != nil {
		o := *f.Order
		out.Order = &o
	}
	out.AssetIndex = slices.Clone(f.AssetIndex)
	out.Downloads = slices.Clone(f.Downloads)
	out.MainJar = f.MainJar.Clone()
	out.Libraries = cloneLibraries(f.Libraries)
	out.MavenFiles = cloneLibraries(f.MavenFiles)
	out.JarMods = cloneLibraries(f.JarMods)
	out.Traits = slices.Clone(f.Traits)
	out.Tweakers = slices.Clone(f.Tweakers)
	out.Requires = slices.Clone(f.Requires)
	out.Conflicts = slices.Clone(f.Conflicts)
	out.Problems = slices.Clone(f.Problems)
	if f.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(f.Extra))
		for k, v := range f.Extra {
			out.Extra[k] = slices.Clone(v)
		}
	}
	return &out
}

// Overlay returns a copy suitable for writing as a user customization of this
// document: it is always patch shaped and carries no parse problems.
func (f *VersionFile) Overlay() *VersionFile {
	out := f.Clone()
	out.Shape = ShapePatch
	out.Problems = nil
	out.Extra = maps.Clone(out.Extra)
	return out
}

func cloneLibraries(libs []*Library) []*Library {
	if libs == nil {
		return nil
	}
	return lo.Map(libs, func(l *Library, _ int) *Library {
		return l.Clone()
	})
}
