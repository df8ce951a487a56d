// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package launchprofile folds an ordered stack of version files into the
// effective configuration a game launch needs.
package launchprofile

import (
	"slices"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/versioncmp"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

// Builder is the accumulator of a single merge pass. Apply documents in merge
// order, then call Build. A Builder must not be reused after Build.
type Builder struct {
	mainClass          string
	appletClass        string
	minecraftArguments string
	assets             string
	mainJar            *versionfile.Library

	libraries  libraryList
	mavenFiles libraryList
	jarMods    libraryList

	traits   map[string]struct{}
	tweakers []string

	problems []problems.Problem
}

func NewBuilder() *Builder {
	return &Builder{traits: map[string]struct{}{}}
}

// Apply merges one document. Findings about the merge itself, like overriding a
// hard pinned library, go to ledger which may be nil.
func (b *Builder) Apply(f *versionfile.VersionFile, ledger *problems.Ledger) {
	if f.MainClass != "" {
		b.mainClass = f.MainClass
	}
	if f.AppletClass != "" {
		b.appletClass = f.AppletClass
	}
	if f.MinecraftArguments != "" {
		b.minecraftArguments = f.MinecraftArguments
	}
	if f.Assets != "" {
		b.assets = f.Assets
	}
	if f.MainJar != nil {
		b.mainJar = f.MainJar.Clone()
	}

	for _, t := range f.Traits {
		b.traits[t] = struct{}{}
	}
	for _, t := range f.Tweakers {
		if !lo.Contains(b.tweakers, t) {
			b.tweakers = append(b.tweakers, t)
		}
	}

	b.libraries.beginComponent()
	for _, l := range f.Libraries {
		if replaced := b.libraries.add(l.Clone(), true); replaced != nil {
			checkPinned(replaced, l, ledger)
		}
	}
	for _, l := range f.MavenFiles {
		b.mavenFiles.add(l.Clone(), false)
	}
	for _, l := range f.JarMods {
		b.jarMods.add(l.Clone(), false)
	}
}

// AddProblems records problems that belong into the snapshot's problem list
func (b *Builder) AddProblems(ps ...problems.Problem) {
	b.problems = append(b.problems, ps...)
}

func (b *Builder) Build() *Profile {
	traits := lo.Keys(b.traits)
	slices.Sort(traits)
	return &Profile{
		MainClass:          b.mainClass,
		AppletClass:        b.appletClass,
		MinecraftArguments: b.minecraftArguments,
		Assets:             b.assets,
		MainJar:            b.mainJar,
		Libraries:          b.libraries.items,
		MavenFiles:         b.mavenFiles.items,
		JarMods:            b.jarMods.items,
		Traits:             traits,
		Tweakers:           b.tweakers,
		Problems:           slices.Clone(b.problems),
	}
}

// checkPinned warns when a later library lowers the version of one an earlier
// component marked as a hard dependency. The later one still wins.
func checkPinned(existing, added *versionfile.Library, ledger *problems.Ledger) {
	if ledger == nil || existing.Depend != versionfile.DependHard {
		return
	}
	if versioncmp.Compare(added.Name.Version, existing.Name.Version) < 0 {
		ledger.Addf(problems.Warning, "library %s is pinned to version %s, overridden with %s",
			existing.Name.Key(), existing.Name.Version, added.Name.Version)
	}
}
