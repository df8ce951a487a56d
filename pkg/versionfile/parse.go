// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package versionfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"mmc.dev/x/packprofile/pkg/gradle"
	"mmc.dev/x/packprofile/pkg/problems"
)

var ErrParse = errors.New("invalid version file")

const (
	minecraftUID       = "net.minecraft"
	jarModGroup        = "org.multimc.jarmods"
	legacyResourcesURL = "https://s3.amazonaws.com/Minecraft.Download/versions/"
)

var legacyProcessArguments = map[string]string{
	"legacy":                   " ${auth_player_name} ${auth_session}",
	"username_session":         "--username ${auth_player_name} --session ${auth_session}",
	"username_session_version": "--username ${auth_player_name} --session ${auth_session} --version ${profile_name}",
}

// patchMarkers are fields only the patch shape uses
var patchMarkers = []string{"formatVersion", "order", "fileId", "uid", "+libraries", "+traits", "+tweakers", "+jarMods", "requires", "conflicts"}

// unsupported fields: their presence is reported, they are never applied
var unsupportedErrors = []string{"tweakers", "-libraries", "-tweakers", "-minecraftArguments", "+minecraftArguments"}

type wireRequire struct {
	UID      string `json:"uid"`
	Version  string `json:"version,omitempty"`
	Equals   string `json:"equals,omitempty"`
	Suggests string `json:"suggests,omitempty"`
}

type wireJarMod struct {
	Name         string `json:"name"`
	OriginalName string `json:"originalName,omitempty"`
}

type wireFile struct {
	FormatVersion          *int            `json:"formatVersion,omitempty"`
	Name                   *string         `json:"name,omitempty"`
	UID                    string          `json:"uid,omitempty"`
	FileID                 string          `json:"fileId,omitempty"`
	Version                string          `json:"version,omitempty"`
	Order                  *int            `json:"order,omitempty"`
	ID                     string          `json:"id,omitempty"`
	MainClass              string          `json:"mainClass,omitempty"`
	AppletClass            string          `json:"appletClass,omitempty"`
	MinecraftArguments     string          `json:"minecraftArguments,omitempty"`
	ProcessArguments       string          `json:"processArguments,omitempty"`
	Type                   string          `json:"type,omitempty"`
	Assets                 string          `json:"assets,omitempty"`
	ReleaseTime            string          `json:"releaseTime,omitempty"`
	Time                   string          `json:"time,omitempty"`
	MinimumLauncherVersion int             `json:"minimumLauncherVersion,omitempty"`
	AssetIndex             json.RawMessage `json:"assetIndex,omitempty"`
	Downloads              json.RawMessage `json:"downloads,omitempty"`
	MainJar                *wireLibrary    `json:"mainJar,omitempty"`
	Libraries              []*wireLibrary  `json:"libraries,omitempty"`
	PlusLibraries          []*wireLibrary  `json:"+libraries,omitempty"`
	MavenFiles             []*wireLibrary  `json:"mavenFiles,omitempty"`
	JarMods                []*wireLibrary  `json:"jarMods,omitempty"`
	PlusJarMods            []wireJarMod    `json:"+jarMods,omitempty"`
	Traits                 []string        `json:"+traits,omitempty"`
	Tweakers               []string        `json:"+tweakers,omitempty"`
	Requires               []wireRequire   `json:"requires,omitempty"`
	Conflicts              []wireRequire   `json:"conflicts,omitempty"`
	MCVersion              string          `json:"mcVersion,omitempty"`
	Volatile               bool            `json:"volatile,omitempty"`
}

// knownFields lists every key wireFile handles, the rest ends up in VersionFile.Extra
var knownFields = lo.Keyify(append([]string{
	"name", "version", "id", "mainClass", "appletClass", "minecraftArguments", "processArguments",
	"type", "assets", "releaseTime", "time", "minimumLauncherVersion", "assetIndex", "downloads",
	"mainJar", "libraries", "mavenFiles", "jarMods", "mcVersion", "volatile",
}, append(patchMarkers, unsupportedErrors...)...))

func parseError(filename string, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrParse, filename, fmt.Sprintf(format, args...))
}

// Parse reads a document of either shape. filename is only used in error messages
// and as the uid fallback for documents without one.
//
// Malformed JSON, a wrong top level type, a wrong field type, a library
// without a name and a patch without a name all fail with ErrParse. Fields
// that are known but not supported produce problems on the returned file.
func Parse(data []byte, filename string) (*VersionFile, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseError(filename, "malformed JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, parseError(filename, "top level value is not an object")
	}

	var w wireFile
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Join(parseError(filename, "unexpected content"), err)
	}

	present := map[string]gjson.Result{}
	root.ForEach(func(key, value gjson.Result) bool {
		present[key.String()] = value
		return true
	})
	has := func(key string) bool {
		_, ok := present[key]
		return ok
	}

	f := &VersionFile{Shape: ShapeVersionInfo}
	if lo.SomeBy(patchMarkers, has) {
		f.Shape = ShapePatch
	}

	if w.FormatVersion != nil && *w.FormatVersion != CurrentFormatVersion {
		return nil, parseError(filename, "unsupported format version %d", *w.FormatVersion)
	}

	f.UID = lo.CoalesceOrEmpty(w.UID, w.FileID)
	if f.UID == "" && f.Shape == ShapePatch {
		f.UID = strings.TrimSuffix(filename, ".json")
	}
	// version info files only carry the game version as 'id'
	if f.UID == "" && f.Shape == ShapeVersionInfo && w.ID != "" {
		f.UID = minecraftUID
	}
	if f.UID == "" {
		return nil, parseError(filename, "missing 'uid' field")
	}
	if w.Name != nil {
		f.Name = *w.Name
	} else if f.Shape == ShapePatch {
		return nil, parseError(filename, "missing 'name' field")
	} else if f.UID == minecraftUID {
		f.Name = "Minecraft"
	}
	f.Version = w.Version
	f.Order = w.Order
	f.MinecraftVersion = w.ID
	if f.Shape == ShapeVersionInfo && f.Version == "" {
		f.Version = w.ID
	}

	f.MainClass = w.MainClass
	f.AppletClass = w.AppletClass
	f.Type = w.Type
	f.Assets = w.Assets
	f.ReleaseTime = w.ReleaseTime
	f.UpdateTime = w.Time
	f.AssetIndex = compactRaw(w.AssetIndex)
	f.Downloads = compactRaw(w.Downloads)
	f.Volatile = w.Volatile

	f.MinecraftArguments = w.MinecraftArguments
	if f.MinecraftArguments == "" && w.ProcessArguments != "" {
		args, ok := legacyProcessArguments[strings.ToLower(w.ProcessArguments)]
		if !ok {
			f.addProblem(problems.Error, fmt.Sprintf("unknown 'processArguments' value '%s'", w.ProcessArguments))
		}
		f.MinecraftArguments = args
	}

	f.MinimumLauncherVersion = w.MinimumLauncherVersion
	if f.MinimumLauncherVersion > CurrentMinimumLauncherVersion {
		f.addProblem(problems.Warning, fmt.Sprintf(
			"the 'minimumLauncherVersion' value of this version (%d) is higher than supported (%d), it might not work properly",
			f.MinimumLauncherVersion, CurrentMinimumLauncherVersion))
	}

	for _, key := range unsupportedErrors {
		if has(key) {
			f.addProblem(problems.Error, fmt.Sprintf("the '%s' field is not supported anymore", key))
		}
	}

	var err error
	if w.Libraries != nil && w.PlusLibraries != nil {
		f.addProblem(problems.Warning, "version file has both 'libraries' and '+libraries', both are added")
	}
	if f.Libraries, err = convertLibraries(filename, "libraries", append(w.Libraries, w.PlusLibraries...)); err != nil {
		return nil, err
	}
	if f.MavenFiles, err = convertLibraries(filename, "mavenFiles", w.MavenFiles); err != nil {
		return nil, err
	}
	if f.JarMods, err = convertLibraries(filename, "jarMods", w.JarMods); err != nil {
		return nil, err
	}
	for _, jm := range w.PlusJarMods {
		if jm.Name == "" {
			return nil, parseError(filename, "'+jarMods' entry without a 'name'")
		}
		f.JarMods = append(f.JarMods, legacyJarMod(jm, f.Name))
	}

	if w.MainJar != nil {
		if f.MainJar, err = convertLibrary(filename, "mainJar", w.MainJar); err != nil {
			return nil, err
		}
	} else if f.Shape == ShapeVersionInfo && f.MinecraftVersion != "" {
		f.MainJar = reconstructMainJar(f.MinecraftVersion, root)
	}

	if len(w.Traits) > 0 {
		f.AddTraits(w.Traits...)
	}
	if len(w.Tweakers) > 0 {
		f.Tweakers = w.Tweakers
	}

	f.Requires = convertRequires(w.Requires)
	f.Conflicts = convertRequires(w.Conflicts)
	if w.MCVersion != "" && !lo.ContainsBy(f.Requires, func(r Require) bool { return r.UID == minecraftUID }) {
		f.Requires = append(f.Requires, Require{UID: minecraftUID, Version: w.MCVersion})
	}

	for key, value := range present {
		if _, ok := knownFields[key]; !ok {
			if f.Extra == nil {
				f.Extra = map[string]json.RawMessage{}
			}
			f.Extra[key] = compactRaw(json.RawMessage(value.Raw))
		}
	}

	// problems were attributed before the uid was final
	for i := range f.Problems {
		f.Problems[i].Source = f.UID
	}
	return f, nil
}

func convertRequires(in []wireRequire) []Require {
	if len(in) == 0 {
		return nil
	}
	return lo.Map(in, func(r wireRequire, _ int) Require {
		return Require{UID: r.UID, Version: lo.CoalesceOrEmpty(r.Version, r.Equals)}
	})
}

func convertLibraries(filename, field string, in []*wireLibrary) ([]*Library, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*Library, 0, len(in))
	for _, wl := range in {
		l, err := convertLibrary(filename, field, wl)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func convertLibrary(filename, field string, wl *wireLibrary) (*Library, error) {
	if wl == nil || wl.Name == "" {
		return nil, parseError(filename, "'%s' contains a library that doesn't have a 'name' field", field)
	}
	name, err := gradle.Parse(wl.Name)
	if err != nil {
		return nil, errors.Join(parseError(filename, "'%s' contains a library with an invalid name", field), err)
	}
	insert := InsertType(strings.ToLower(wl.Insert))
	if insert != InsertDefault && insert != InsertAppend && insert != InsertPrepend {
		return nil, parseError(filename, "library %s has unknown insert type '%s'", wl.Name, wl.Insert)
	}
	depend := DependType(strings.ToLower(wl.Depend))
	if depend != DependDefault && depend != DependSoft && depend != DependHard {
		return nil, parseError(filename, "library %s has unknown dependency type '%s'", wl.Name, wl.Depend)
	}
	return &Library{
		Name:        name,
		URL:         wl.URL,
		AbsoluteURL: lo.CoalesceOrEmpty(wl.AbsoluteURL, wl.LegacyAbsoluteURL),
		Hint:        wl.Hint,
		Filename:    wl.Filename,
		DisplayName: wl.DisplayName,
		Insert:      insert,
		Depend:      depend,
		Natives:     wl.Natives,
		Extract:     wl.Extract,
		Rules:       wl.Rules,
		Downloads:   compactRaw(wl.Downloads),
	}, nil
}

// compactRaw strips insignificant whitespace so raw values compare equal after a rewrite
func compactRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// legacyJarMod turns an old style '+jarMods' entry into a local jar mod library
func legacyJarMod(jm wireJarMod, patchName string) *Library {
	displayName := jm.OriginalName
	if displayName == "" {
		displayName = strings.TrimSuffix(patchName, " (jar mod)")
	}
	return &Library{
		Name:        gradle.MustParse(fmt.Sprintf("%s:%s:1", jarModGroup, uuid.NewString())),
		Filename:    jm.Name,
		DisplayName: displayName,
		Hint:        HintLocal,
	}
}

// reconstructMainJar builds the client jar library old version info files only imply
func reconstructMainJar(id string, root gjson.Result) *Library {
	lib := &Library{
		Name: gradle.MustParse(fmt.Sprintf("com.mojang:minecraft:%s:client", id)),
	}
	if client := root.Get("downloads.client"); client.Exists() {
		lib.Downloads = compactRaw(json.RawMessage(fmt.Sprintf(`{"artifact":%s}`, client.Raw)))
	} else {
		lib.AbsoluteURL = fmt.Sprintf("%s%s/%s.jar", legacyResourcesURL, id, id)
	}
	return lib
}
