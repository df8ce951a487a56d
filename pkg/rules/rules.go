// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rules evaluates the allow/disallow rules attached to libraries.
package rules

import (
	"encoding/json"
	"fmt"
	"regexp"

	"mmc.dev/x/packprofile/pkg/simpleplatform"
)

type Action string

const (
	Allow    Action = "allow"
	Disallow Action = "disallow"
)

type OSMatcher struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

type Rule struct {
	Action Action     `json:"action"`
	OS     *OSMatcher `json:"os,omitempty"`
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	type alias Rule
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Action != Allow && a.Action != Disallow {
		return fmt.Errorf("rule has unknown action %q", a.Action)
	}
	if a.OS != nil && a.OS.Version != "" {
		if _, err := regexp.Compile(a.OS.Version); err != nil {
			return fmt.Errorf("rule has invalid os version pattern %q: %w", a.OS.Version, err)
		}
	}
	*r = Rule(a)
	return nil
}

// applies reports whether the rule's condition matches the platform.
// A rule without conditions always applies.
func (r *Rule) applies(p *simpleplatform.NonGeneric) bool {
	if r.OS == nil {
		return true
	}
	if r.OS.Name != "" && r.OS.Name != p.LauncherOS() {
		return false
	}
	if r.OS.Arch != "" && r.OS.Arch != p.Architecture && !(r.OS.Arch == "x86" && p.Bits() == "32") {
		return false
	}
	// os version can't be evaluated without querying the host, a version pattern is treated as matching
	return true
}

type Rules []Rule

// Allowed walks the rules in order, the last applying rule decides.
// No rules at all means allowed; rules present but none applying means disallowed.
// The generic platform allows everything.
func (rs Rules) Allowed(platform simpleplatform.Platform) bool {
	if len(rs) == 0 || platform.IsGeneric() {
		return true
	}
	p, ok := platform.(*simpleplatform.NonGeneric)
	if !ok {
		return true
	}
	result := Disallow
	for i := range rs {
		if rs[i].applies(p) {
			result = rs[i].Action
		}
	}
	return result == Allow
}
