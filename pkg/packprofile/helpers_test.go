// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/gradle"
	"mmc.dev/x/packprofile/pkg/patchstore"
	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/simpleplatform"
	"mmc.dev/x/packprofile/pkg/testutil"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

var linux = &simpleplatform.NonGeneric{OS: simpleplatform.OSLinux, Architecture: "amd64"}

type fixture struct {
	source   *bytesource.Memory
	store    *patchstore.Memory
	resolver *Resolver
}

func withResolver(t *testing.T, fn func(f *fixture), opts ...func(*Options)) {
	source := bytesource.NewMemory()
	store := patchstore.NewMemory()
	o := Options{Source: source, Store: store, Platform: linux}
	for _, opt := range opts {
		opt(&o)
	}
	r, err := New(o)
	require.NoError(t, err)
	fn(&fixture{source: source, store: store, resolver: r})
}

// publish makes a document available upstream under its uid and version
func (f *fixture) publish(t *testing.T, doc *versionfile.VersionFile) {
	data, err := versionfile.Serialize(doc)
	require.NoError(t, err)
	f.source.Put(bytesource.Ref{UID: doc.UID, Version: doc.Version}, data)
}

// seed publishes documents and appends them in the given order
func (f *fixture) seed(t *testing.T, origin Origin, docs ...*versionfile.VersionFile) {
	for _, doc := range docs {
		f.publish(t, doc)
		require.NoError(t, f.resolver.Append(ComponentSpec{UID: doc.UID, Version: doc.Version, Origin: origin}))
	}
}

func (f *fixture) reload(t *testing.T) {
	require.NoError(t, f.resolver.Reload(testutil.Context(t), bytesource.Local))
}

func meta(uid, version string, order int, opts ...func(*versionfile.VersionFile)) *versionfile.VersionFile {
	doc := versionfile.New(uid, uid)
	doc.Version = version
	doc.Order = &order
	for _, o := range opts {
		o(doc)
	}
	return doc
}

func mainClass(class string) func(*versionfile.VersionFile) {
	return func(doc *versionfile.VersionFile) { doc.MainClass = class }
}

func libs(coords ...string) func(*versionfile.VersionFile) {
	return func(doc *versionfile.VersionFile) {
		for _, c := range coords {
			doc.Libraries = append(doc.Libraries, versionfile.NewLibrary(gradle.MustParse(c)))
		}
	}
}

func prependLib(coord string) func(*versionfile.VersionFile) {
	return func(doc *versionfile.VersionFile) {
		l := versionfile.NewLibrary(gradle.MustParse(coord))
		l.Insert = versionfile.InsertPrepend
		doc.Libraries = append(doc.Libraries, l)
	}
}

func requires(uid, version string) func(*versionfile.VersionFile) {
	return func(doc *versionfile.VersionFile) {
		doc.Requires = append(doc.Requires, versionfile.Require{UID: uid, Version: version})
	}
}

func conflicts(uid string) func(*versionfile.VersionFile) {
	return func(doc *versionfile.VersionFile) {
		doc.Conflicts = append(doc.Conflicts, versionfile.Require{UID: uid})
	}
}

func volatile(doc *versionfile.VersionFile) {
	doc.Volatile = true
}

func noOrder(doc *versionfile.VersionFile) {
	doc.Order = nil
}

func libNames(libs []*versionfile.Library) []string {
	return lo.Map(libs, func(l *versionfile.Library, _ int) string { return l.Name.String() })
}

func componentUIDs(infos []ComponentInfo) []string {
	return lo.Map(infos, func(c ComponentInfo, _ int) string { return c.UID })
}

func severities(ps []problems.Problem) []problems.Severity {
	return lo.Map(ps, func(p problems.Problem, _ int) problems.Severity { return p.Severity })
}

func minecraft(opts ...func(*versionfile.VersionFile)) *versionfile.VersionFile {
	return meta("net.minecraft", "1.8.9", 1, append([]func(*versionfile.VersionFile){
		mainClass("net.minecraft.client.Main"),
		libs("org.lwjgl:lwjgl:1.0"),
	}, opts...)...)
}

func loader(opts ...func(*versionfile.VersionFile)) *versionfile.VersionFile {
	return meta("net.loader", "0.14", 2, append([]func(*versionfile.VersionFile){
		libs("org.lwjgl:lwjgl:2.0", "net.loader:loaderlib:1.0"),
	}, opts...)...)
}
