// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/patchstore"
	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/testutil"
)

type InstanceSuite struct {
	testutil.CommonSetupSuite

	meta     *testutil.MetaServer
	store    *patchstore.Store
	resolver *Resolver
}

func TestInstanceSuite(t *testing.T) {
	suite.Run(t, new(InstanceSuite))
}

func (s *InstanceSuite) SetupTest() {
	s.CommonSetupSuite.SetupTest()
	s.meta = testutil.StartMetaServer(s.T(), testutil.TestdataPath(s.T(), "meta"))
	remote, err := bytesource.NewRemote(s.meta.URL, bytesource.WithRetryCount(0))
	s.Require().NoError(err)

	s.store = patchstore.New(testutil.CopyInstance(s.T()))
	s.resolver, err = New(Options{
		Source:   bytesource.NewCaching(bytesource.NewDisk(s.T().TempDir()), remote),
		Store:    s.store,
		Platform: linux,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.resolver.LoadPack())
}

func (s *InstanceSuite) TestLoadPack() {
	infos := s.resolver.Components()
	s.Equal([]string{"org.lwjgl", "net.minecraft", "net.minecraftforge", "org.example.tweaks"}, componentUIDs(infos))
	s.Equal(OriginBuiltin, infos[0].Origin)
	s.Equal(OriginBuiltin, infos[1].Origin)
	s.Equal(OriginLoader, infos[2].Origin)
	s.Equal(OriginLocal, infos[3].Origin)
	s.Equal("Forge", infos[2].Name)
	for _, c := range infos {
		s.Equal(Unloaded, c.State)
	}
}

func (s *InstanceSuite) TestReloadOnline() {
	s.Require().NoError(s.resolver.Reload(testutil.Context(s.T()), bytesource.Online))

	s.Equal([]string{"net.minecraft", "org.lwjgl", "org.example.tweaks", "net.minecraftforge"}, componentUIDs(s.resolver.Components()))
	p := s.resolver.Snapshot()
	s.Equal("net.minecraft.launchwrapper.Launch", p.MainClass)
	s.Equal([]string{
		"com.mojang:netty:1.6",
		"com.google.guava:guava:17.0",
		"org.lwjgl.lwjgl:lwjgl:2.9.4",
		"org.lwjgl.lwjgl:lwjgl-platform:2.9.4",
		"org.example:tweaks:1.0",
		"net.minecraftforge:forge:11.15.1.2318:universal",
	}, libNames(p.Libraries))
	s.Equal([]string{"FirstThreadOnMacOS", "texturepacks"}, p.Traits)
	s.Equal([]string{"net.minecraftforge.fml.common.launcher.FMLTweaker"}, p.Tweakers)
	s.True(s.resolver.CanLaunch())
	s.Len(s.meta.Requests(), 3)

	// the cache serves the next local reload
	s.Require().NoError(s.resolver.Reload(testutil.Context(s.T()), bytesource.Local))
	s.Len(s.meta.Requests(), 3)
}

func (s *InstanceSuite) TestOfflineWithoutCacheFails() {
	err := s.resolver.Reload(testutil.Context(s.T()), bytesource.Offline)
	var resolveErr *ResolveError
	s.Require().ErrorAs(err, &resolveErr)
	s.ElementsMatch([]string{"org.lwjgl", "net.minecraft"}, resolveErr.UIDs())
	s.Empty(s.meta.Requests())
	s.False(s.resolver.CanLaunch())
	s.Equal(problems.Error, s.resolver.SeverityFor("net.minecraft"))
}

func (s *InstanceSuite) TestSavePackRoundTrip() {
	ctx := testutil.Context(s.T())
	s.Require().NoError(s.resolver.Reload(ctx, bytesource.Online))
	s.Require().NoError(s.resolver.Move(s.resolver.IndexOf("net.minecraftforge"), Up))
	s.Require().NoError(s.resolver.SavePack())

	pack, err := s.store.ReadPack()
	s.Require().NoError(err)
	s.Len(pack.Components, 4)
	forge := pack.Components[2]
	s.Equal("net.minecraftforge", forge.UID)
	s.Equal("11.15.1.2318", forge.CachedVersion)
	s.Equal("loader", forge.Origin)

	reopened, err := New(Options{Source: bytesource.NewMemory(), Store: s.store, Platform: linux})
	s.Require().NoError(err)
	s.Require().NoError(reopened.LoadPack())
	s.Equal(componentUIDs(s.resolver.Components()), componentUIDs(reopened.Components()))
	for _, c := range reopened.Components() {
		s.NotNil(c.ExplicitOrder)
	}
}

func TestLoadPackRejectsDuplicates(t *testing.T) {
	withResolver(t, func(f *fixture) {
		require.NoError(t, f.store.WritePack(&patchstore.Pack{Components: []patchstore.PackComponent{
			{UID: "net.minecraft", Version: "1.8.9"},
			{UID: "net.minecraft", Version: "1.9"},
		}}))
		assert.ErrorIs(t, f.resolver.LoadPack(), ErrDuplicateComponent)
	})
}

func TestLoadPackOrigins(t *testing.T) {
	withResolver(t, func(f *fixture) {
		require.NoError(t, f.store.WritePack(&patchstore.Pack{Components: []patchstore.PackComponent{
			{UID: "net.minecraft", Version: "1.8.9"},
			{UID: "org.multimc.jarmod.abc"},
			{UID: "net.custom", Version: "1", Origin: "local"},
			{UID: "com.example.loader", Version: "2"},
		}}))
		require.NoError(t, f.resolver.LoadPack())

		origins := map[string]Origin{}
		for _, c := range f.resolver.Components() {
			origins[c.UID] = c.Origin
		}
		assert.Equal(t, map[string]Origin{
			"net.minecraft":          OriginBuiltin,
			"org.multimc.jarmod.abc": OriginJarMod,
			"net.custom":             OriginLocal,
			"com.example.loader":     OriginLoader,
		}, origins)

		require.NoError(t, f.store.WritePack(&patchstore.Pack{Components: []patchstore.PackComponent{{UID: "x", Origin: "alien"}}}))
		assert.ErrorIs(t, f.resolver.LoadPack(), patchstore.ErrInvalidPack)
	})
}

func TestAppendRejectsDuplicates(t *testing.T) {
	withResolver(t, func(f *fixture) {
		require.NoError(t, f.resolver.Append(ComponentSpec{UID: "a"}))
		assert.ErrorIs(t, f.resolver.Append(ComponentSpec{UID: "a"}), ErrDuplicateComponent)
	})
}
