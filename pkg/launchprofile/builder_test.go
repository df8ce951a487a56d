// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package launchprofile

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmc.dev/x/packprofile/pkg/gradle"
	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/simpleplatform"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

var linux = &simpleplatform.NonGeneric{OS: "linux", Architecture: "amd64"}

func lib(coord string, opts ...func(*versionfile.Library)) *versionfile.Library {
	l := versionfile.NewLibrary(gradle.MustParse(coord))
	for _, o := range opts {
		o(l)
	}
	return l
}

func prepend(l *versionfile.Library) { l.Insert = versionfile.InsertPrepend }
func hard(l *versionfile.Library)    { l.Depend = versionfile.DependHard }

func doc(uid string, libs ...*versionfile.Library) *versionfile.VersionFile {
	f := versionfile.New(uid, uid)
	f.Libraries = libs
	return f
}

func names(libs []*versionfile.Library) []string {
	return lo.Map(libs, func(l *versionfile.Library, _ int) string { return l.Name.String() })
}

func TestLastWins(t *testing.T) {
	a := doc("a")
	a.MainClass = "X"
	a.AppletClass = "Applet"
	b := doc("b")
	b.MainClass = "Y"

	builder := NewBuilder()
	builder.Apply(a, nil)
	builder.Apply(b, nil)
	p := builder.Build()

	assert.Equal(t, "Y", p.MainClass)
	// empty values never override
	assert.Equal(t, "Applet", p.AppletClass)
}

func TestLibraryDedupLaterWins(t *testing.T) {
	builder := NewBuilder()
	builder.Apply(doc("a", lib("g:a:1.0"), lib("g:other:1")), nil)
	builder.Apply(doc("b", lib("g:a:2.0")), nil)
	p := builder.Build()

	assert.Equal(t, []string{"g:a:2.0", "g:other:1"}, names(p.Libraries))
}

func TestClassifierIsPartOfIdentity(t *testing.T) {
	builder := NewBuilder()
	builder.Apply(doc("a", lib("g:a:1.0"), lib("g:a:1.0:natives-linux")), nil)
	p := builder.Build()
	assert.Len(t, p.Libraries, 2)
}

func TestPrepend(t *testing.T) {
	builder := NewBuilder()
	builder.Apply(doc("a", lib("g:one:1"), lib("g:two:1")), nil)
	builder.Apply(doc("b", lib("g:three:1", prepend), lib("g:four:1", prepend), lib("g:five:1")), nil)
	p := builder.Build()

	assert.Equal(t, []string{"g:three:1", "g:four:1", "g:one:1", "g:two:1", "g:five:1"}, names(p.Libraries))
}

func TestPrependReplacementMovesToFront(t *testing.T) {
	builder := NewBuilder()
	builder.Apply(doc("a", lib("g:one:1"), lib("g:two:1")), nil)
	builder.Apply(doc("b", lib("g:two:2", prepend)), nil)
	p := builder.Build()

	assert.Equal(t, []string{"g:two:2", "g:one:1"}, names(p.Libraries))
}

func TestHardPinnedLibraryWarns(t *testing.T) {
	ledger := problems.NewLedger("b")
	builder := NewBuilder()
	builder.Apply(doc("a", lib("g:pinned:2.0", hard)), problems.NewLedger("a"))
	builder.Apply(doc("b", lib("g:pinned:1.0")), ledger)
	p := builder.Build()

	assert.Equal(t, []string{"g:pinned:1.0"}, names(p.Libraries))
	assert.Equal(t, problems.Warning, ledger.Severity())

	// raising the version is fine
	ledger.Reset()
	builder = NewBuilder()
	builder.Apply(doc("a", lib("g:pinned:2.0", hard)), nil)
	builder.Apply(doc("b", lib("g:pinned:3.0")), ledger)
	assert.Equal(t, 0, ledger.Len())
}

func TestTraitsAndTweakers(t *testing.T) {
	a := doc("a")
	a.Traits = []string{"texturepacks", "FirstThreadOnMacOS"}
	a.Tweakers = []string{"t.One"}
	b := doc("b")
	b.Traits = []string{"FirstThreadOnMacOS", "XR:Initial"}
	b.Tweakers = []string{"t.Two", "t.One"}

	builder := NewBuilder()
	builder.Apply(a, nil)
	builder.Apply(b, nil)
	p := builder.Build()

	assert.Equal(t, []string{"FirstThreadOnMacOS", "XR:Initial", "texturepacks"}, p.Traits)
	assert.True(t, p.HasTrait("XR:Initial"))
	assert.False(t, p.HasTrait("NoApplet"))
	assert.Equal(t, []string{"t.One", "t.Two"}, p.Tweakers)
}

func TestJarModsAndMavenFiles(t *testing.T) {
	a := doc("a")
	a.MainJar = lib("com.mojang:minecraft:1.8.9:client")
	a.MavenFiles = []*versionfile.Library{lib("g:maven:1")}
	b := doc("b")
	b.JarMods = []*versionfile.Library{lib("org.multimc.jarmods:abc:1", func(l *versionfile.Library) { l.Hint = versionfile.HintLocal })}
	b.MavenFiles = []*versionfile.Library{lib("g:maven:2")}

	builder := NewBuilder()
	builder.Apply(a, nil)
	builder.Apply(b, nil)
	p := builder.Build()

	require.NotNil(t, p.MainJar)
	assert.Equal(t, []string{"g:maven:2"}, names(p.MavenFiles))
	assert.Len(t, p.JarMods, 1)
}

func TestApplyDoesNotAlias(t *testing.T) {
	a := doc("a", lib("g:a:1"))
	builder := NewBuilder()
	builder.Apply(a, nil)
	p := builder.Build()

	a.Libraries[0].URL = "changed"
	assert.Empty(t, p.Libraries[0].URL)
}

func TestQueries(t *testing.T) {
	native := lib("org.lwjgl:lwjgl-platform:2.9", func(l *versionfile.Library) {
		l.Natives = map[string]string{"linux": "natives-linux"}
	})
	windowsOnly := lib("g:win:1", func(l *versionfile.Library) {
		require.NoError(t, json.Unmarshal([]byte(`[{"action":"allow","os":{"name":"windows"}}]`), &l.Rules))
	})
	base := doc("net.minecraft", lib("g:a:1"), native, windowsOnly)
	base.MainJar = lib("com.mojang:minecraft:1.8.9:client")

	builder := NewBuilder()
	builder.Apply(base, nil)
	p := builder.Build()

	assert.Equal(t, []string{"g:a:1"}, names(p.ActiveLibraries(linux)))
	assert.Equal(t, []string{"org.lwjgl:lwjgl-platform:2.9"}, names(p.NativeLibraries(linux)))
	assert.Equal(t, []string{
		"libraries/g/a/1/a-1.jar",
		"libraries/com/mojang/minecraft/1.8.9/minecraft-1.8.9-client.jar",
	}, p.Classpath(linux, "libraries"))

	assert.True(t, p.CanLaunch())
	assert.Contains(t, p.LibraryTable(linux), "g:a")

	s := p.Summary()
	assert.Equal(t, "com.mojang:minecraft:1.8.9:client", s.MainJar)
	assert.Len(t, s.Libraries, 3)
}

func TestProblemsInSnapshot(t *testing.T) {
	builder := NewBuilder()
	builder.AddProblems(problems.Problem{Severity: problems.Error, Description: "missing dependency x", Source: "a"})
	p := builder.Build()
	assert.False(t, p.CanLaunch())
}
