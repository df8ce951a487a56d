// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package launchprofile

import (
	"path"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/simpleplatform"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

// Profile is the result of a merge pass. It is never modified after Build,
// consumers must fetch a new one after the component stack changed.
type Profile struct {
	MainClass          string
	AppletClass        string
	MinecraftArguments string
	Assets             string
	MainJar            *versionfile.Library

	// Libraries are in merge order, unique by group:artifact[:classifier]
	Libraries  []*versionfile.Library
	MavenFiles []*versionfile.Library
	JarMods    []*versionfile.Library

	// Traits are sorted
	Traits   []string
	Tweakers []string

	Problems []problems.Problem
}

// Empty is the profile of an empty stack
func Empty() *Profile {
	return NewBuilder().Build()
}

func (p *Profile) HasTrait(trait string) bool {
	_, found := slices.BinarySearch(p.Traits, trait)
	return found
}

// ActiveLibraries are the java libraries that apply on the platform, natives excluded
func (p *Profile) ActiveLibraries(platform simpleplatform.Platform) []*versionfile.Library {
	return lo.Filter(p.Libraries, func(l *versionfile.Library, _ int) bool {
		return !l.IsNative() && l.IsActive(platform)
	})
}

func (p *Profile) NativeLibraries(platform simpleplatform.Platform) []*versionfile.Library {
	return lo.Filter(p.Libraries, func(l *versionfile.Library, _ int) bool {
		return l.IsNative() && l.IsActive(platform)
	})
}

// Classpath lists storage paths relative to librariesDir, the main jar last.
// Local libraries are left relative, the launcher resolves them against the instance.
func (p *Profile) Classpath(platform simpleplatform.Platform, librariesDir string) []string {
	entries := lo.Map(p.ActiveLibraries(platform), func(l *versionfile.Library, _ int) string {
		return storagePath(l, platform, librariesDir)
	})
	if p.MainJar != nil && len(p.JarMods) == 0 {
		entries = append(entries, storagePath(p.MainJar, platform, librariesDir))
	}
	return entries
}

func storagePath(l *versionfile.Library, platform simpleplatform.Platform, librariesDir string) string {
	if l.Hint == versionfile.HintLocal {
		return l.StoragePath(platform)
	}
	return path.Join(librariesDir, l.StoragePath(platform))
}

func (p *Profile) CanLaunch() bool {
	return problems.Max(p.Problems) < problems.Error
}

// Summary is a flat, serializable view used for printing
type Summary struct {
	MainClass   string   `json:"mainClass,omitempty" yaml:"mainClass,omitempty"`
	AppletClass string   `json:"appletClass,omitempty" yaml:"appletClass,omitempty"`
	MainJar     string   `json:"mainJar,omitempty" yaml:"mainJar,omitempty"`
	Libraries   []string `json:"libraries" yaml:"libraries"`
	MavenFiles  []string `json:"mavenFiles,omitempty" yaml:"mavenFiles,omitempty"`
	JarMods     []string `json:"jarMods,omitempty" yaml:"jarMods,omitempty"`
	Traits      []string `json:"traits" yaml:"traits"`
	Tweakers    []string `json:"tweakers,omitempty" yaml:"tweakers,omitempty"`
	CanLaunch   bool     `json:"canLaunch" yaml:"canLaunch"`
}

func (p *Profile) Summary() Summary {
	names := func(libs []*versionfile.Library) []string {
		return lo.Map(libs, func(l *versionfile.Library, _ int) string { return l.Name.String() })
	}
	s := Summary{
		MainClass:   p.MainClass,
		AppletClass: p.AppletClass,
		Libraries:   names(p.Libraries),
		MavenFiles:  names(p.MavenFiles),
		JarMods:     names(p.JarMods),
		Traits:      p.Traits,
		Tweakers:    p.Tweakers,
		CanLaunch:   p.CanLaunch(),
	}
	if p.MainJar != nil {
		s.MainJar = p.MainJar.Name.String()
	}
	return s
}

// LibraryTable renders the merged libraries, faint when inactive on the platform
func (p *Profile) LibraryTable(platform simpleplatform.Platform) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(lo.Map(p.Libraries, func(l *versionfile.Library, _ int) []string {
			name := l.Name.ArtifactPrefix()
			if l.Name.Classifier != "" {
				name += ":" + l.Name.Classifier
			}
			version := l.Name.Version
			kind := ""
			switch {
			case l.IsNative():
				kind = "native"
			case l.Hint == versionfile.HintLocal:
				kind = "local"
			}
			if !l.IsActive(platform) {
				name = lipgloss.NewStyle().Faint(true).Italic(true).Render(name)
			}
			return []string{name, version, kind}
		})...).
		String()
}
