// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package versionfile

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"mmc.dev/x/packprofile/pkg/gradle"
	"mmc.dev/x/packprofile/pkg/rules"
	"mmc.dev/x/packprofile/pkg/simpleplatform"
)

// InsertType decides where a library lands in the merged library list
type InsertType string

const (
	InsertDefault InsertType = ""
	InsertAppend  InsertType = "append"
	InsertPrepend InsertType = "prepend"
)

// DependType marks how strictly a library's version must be kept
type DependType string

const (
	DependDefault DependType = ""
	DependSoft    DependType = "soft"
	DependHard    DependType = "hard"
)

// HintLocal marks libraries stored inside the instance instead of the shared library folder
const HintLocal = "local"

type Extract struct {
	Exclude []string `json:"exclude"`
}

type Library struct {
	Name gradle.Specifier

	URL         string
	AbsoluteURL string
	Hint        string
	Filename    string
	DisplayName string

	Insert InsertType
	Depend DependType

	// Natives maps a launcher OS name to a classifier, possibly containing ${arch}
	Natives map[string]string
	Extract *Extract
	Rules   rules.Rules

	// Downloads is kept verbatim, its content is the download layer's business
	Downloads json.RawMessage
}

func NewLibrary(name gradle.Specifier) *Library {
	return &Library{Name: name}
}

func (l *Library) Clone() *Library {
	if l == nil {
		return nil
	}
	out := *l
	out.Natives = maps.Clone(l.Natives)
	if l.Extract != nil {
		out.Extract = &Extract{Exclude: slices.Clone(l.Extract.Exclude)}
	}
	if l.Rules != nil {
		out.Rules = make(rules.Rules, len(l.Rules))
		for i, r := range l.Rules {
			out.Rules[i] = r
			if r.OS != nil {
				os := *r.OS
				out.Rules[i].OS = &os
			}
		}
	}
	out.Downloads = slices.Clone(l.Downloads)
	return &out
}

func (l *Library) IsNative() bool {
	return len(l.Natives) > 0
}

// IsActive reports whether the library applies on the platform
func (l *Library) IsActive(platform simpleplatform.Platform) bool {
	if !l.Rules.Allowed(platform) {
		return false
	}
	if !l.IsNative() || platform.IsGeneric() {
		return true
	}
	p, ok := platform.(*simpleplatform.NonGeneric)
	if !ok {
		return true
	}
	_, ok = l.Natives[p.LauncherOS()]
	return ok
}

// NativeClassifier returns the classifier to use on the platform, with ${arch} substituted
func (l *Library) NativeClassifier(platform *simpleplatform.NonGeneric) (string, bool) {
	c, ok := l.Natives[platform.LauncherOS()]
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(c, "${arch}", platform.Bits()), true
}

// StoragePath is the path of the artifact relative to a libraries folder
func (l *Library) StoragePath(platform simpleplatform.Platform) string {
	spec := l.Name
	if p, ok := platform.(*simpleplatform.NonGeneric); ok && l.IsNative() {
		if classifier, ok := l.NativeClassifier(p); ok {
			spec.Classifier = classifier
		}
	}
	if l.Filename != "" {
		return l.Filename
	}
	return spec.ToPath()
}

func (l *Library) String() string {
	return l.Name.String()
}
