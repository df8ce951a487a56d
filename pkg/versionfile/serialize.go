// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package versionfile

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/rules"
)

type wireLibrary struct {
	Name              string            `json:"name"`
	URL               string            `json:"url,omitempty"`
	Insert            string            `json:"insert,omitempty"`
	Hint              string            `json:"MMC-hint,omitempty"`
	Depend            string            `json:"MMC-depend,omitempty"`
	AbsoluteURL       string            `json:"MMC-absoluteUrl,omitempty"`
	LegacyAbsoluteURL string            `json:"MMC-absulute_url,omitempty"`
	Filename          string            `json:"MMC-filename,omitempty"`
	DisplayName       string            `json:"MMC-displayname,omitempty"`
	Natives           map[string]string `json:"natives,omitempty"`
	Extract           *Extract          `json:"extract,omitempty"`
	Rules             rules.Rules       `json:"rules,omitempty"`
	Downloads         json.RawMessage   `json:"downloads,omitempty"`
}

func toWireLibrary(l *Library) *wireLibrary {
	if l == nil {
		return nil
	}
	return &wireLibrary{
		Name:        l.Name.String(),
		URL:         l.URL,
		Insert:      string(l.Insert),
		Hint:        l.Hint,
		Depend:      string(l.Depend),
		AbsoluteURL: l.AbsoluteURL,
		Filename:    l.Filename,
		DisplayName: l.DisplayName,
		Natives:     l.Natives,
		Extract:     l.Extract,
		Rules:       l.Rules,
		Downloads:   l.Downloads,
	}
}

func toWireLibraries(libs []*Library) []*wireLibrary {
	if len(libs) == 0 {
		return nil
	}
	return lo.Map(libs, func(l *Library, _ int) *wireLibrary {
		return toWireLibrary(l)
	})
}

func toWireRequires(reqs []Require) []wireRequire {
	if len(reqs) == 0 {
		return nil
	}
	return lo.Map(reqs, func(r Require, _ int) wireRequire {
		return wireRequire{UID: r.UID, Version: r.Version}
	})
}

// Serialize writes the patch shape with the current format version. Keys are
// sorted so that equal documents produce equal bytes, unknown fields kept in
// Extra are written back unless a known field of the same name is present.
func Serialize(f *VersionFile) ([]byte, error) {
	for _, l := range append(append(append([]*Library{f.MainJar}, f.Libraries...), f.MavenFiles...), f.JarMods...) {
		if l != nil && !l.Name.Valid() {
			return nil, fmt.Errorf("%w %s: library without a valid name", ErrParse, f.UID)
		}
	}

	formatVersion := CurrentFormatVersion
	name := f.Name
	w := wireFile{
		FormatVersion:          &formatVersion,
		Name:                   &name,
		UID:                    f.UID,
		Version:                f.Version,
		Order:                  f.Order,
		ID:                     f.MinecraftVersion,
		MainClass:              f.MainClass,
		AppletClass:            f.AppletClass,
		MinecraftArguments:     f.MinecraftArguments,
		Type:                   f.Type,
		Assets:                 f.Assets,
		ReleaseTime:            f.ReleaseTime,
		Time:                   f.UpdateTime,
		MinimumLauncherVersion: f.MinimumLauncherVersion,
		AssetIndex:             f.AssetIndex,
		Downloads:              f.Downloads,
		MainJar:                toWireLibrary(f.MainJar),
		PlusLibraries:          toWireLibraries(f.Libraries),
		MavenFiles:             toWireLibraries(f.MavenFiles),
		JarMods:                toWireLibraries(f.JarMods),
		Traits:                 f.Traits,
		Tweakers:               f.Tweakers,
		Requires:               toWireRequires(f.Requires),
		Conflicts:              toWireRequires(f.Conflicts),
		Volatile:               f.Volatile,
	}

	known, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	if len(f.Extra) == 0 {
		return indent(known)
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range f.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	return indent(out)
}

// indent re-encodes through a map so key order is stable and human friendly
func indent(data []byte) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
