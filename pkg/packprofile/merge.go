// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"cmp"
	"errors"
	"slices"

	"mmc.dev/x/packprofile/pkg/launchprofile"
	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/utils/stringset"
	"mmc.dev/x/packprofile/pkg/versioncmp"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

// resolveStack sorts components into merge order, rebuilds every ledger and
// folds all loaded documents into a profile. It returns the required
// components that have nothing to contribute. Extra problems recorded through
// AddProblem don't survive this.
func (r *Resolver) resolveStack(components []*component) (*launchprofile.Profile, *ResolveError) {
	r.sortStack(components)

	var failures []*ComponentError
	for _, c := range components {
		c.ledger.Reset()
		if c.file != nil {
			c.ledger.Merge(c.file.Problems)
			continue
		}

		code, cause := CodeNotLoaded, errors.New("component is not loaded")
		if c.loadErr != nil {
			code, cause = CodeLoadFailed, c.loadErr
		}
		if c.removable() {
			c.ledger.Addf(problems.Warning, "%s", cause)
		} else {
			c.ledger.Addf(problems.Error, "%s", cause)
			failures = append(failures, &ComponentError{UID: c.uid, Code: code, Cause: cause})
		}
	}

	builder := launchprofile.NewBuilder()
	for _, c := range components {
		if c.file != nil {
			builder.Apply(c.file, c.ledger)
		}
	}

	analyze(components)

	for _, c := range components {
		builder.AddProblems(c.ledger.Problems()...)
	}
	profile := builder.Build()

	if len(failures) > 0 {
		return profile, &ResolveError{Failures: failures}
	}
	return profile, nil
}

func (r *Resolver) sortStack(components []*component) {
	slices.SortStableFunc(components, func(a, b *component) int {
		if c := cmp.Compare(a.order(), b.order()); c != 0 {
			return c
		}
		if r.tieBreak == TieBreakUID {
			return cmp.Compare(a.uid, b.uid)
		}
		return 0
	})
}

// analyze checks requires and conflicts across the whole stack
func analyze(components []*component) {
	byUID := map[string]*component{}
	required := stringset.New()
	for _, c := range components {
		byUID[c.uid] = c
	}

	for _, c := range components {
		if c.file == nil {
			continue
		}
		for _, req := range c.file.Requires {
			required.Add(req.UID)
			dep, ok := byUID[req.UID]
			if !ok {
				c.ledger.Addf(problems.Error, "missing dependency %s", req.UID)
				continue
			}
			checkConstraint(c, dep, req)
		}
	}

	reported := stringset.New()
	for _, c := range components {
		if c.file == nil {
			continue
		}
		for _, conflict := range c.file.Conflicts {
			other, ok := byUID[conflict.UID]
			if !ok || other == c || !matches(other, conflict) {
				continue
			}
			if !reported.AddNew(pairKey(c.uid, other.uid)) {
				continue
			}
			c.ledger.Addf(problems.Error, "conflicts with %s", other.uid)
			other.ledger.Addf(problems.Error, "conflicts with %s", c.uid)
		}
	}

	for _, c := range components {
		if c.file != nil && c.file.Volatile && !required.Contains(c.uid) {
			c.ledger.Add(problems.Warning, "unused volatile component")
		}
	}
}

func checkConstraint(requirer, dep *component, req versionfile.Require) {
	if req.Version == "" {
		return
	}
	version := dep.effectiveVersion()
	ok, err := versioncmp.Satisfies(version, req.Version)
	if err != nil {
		requirer.ledger.Addf(problems.Warning, "dependency %s: %s", req.UID, err)
		return
	}
	if !ok {
		requirer.ledger.Addf(problems.Warning, "dependency version mismatch: %s %s does not satisfy %s", req.UID, version, req.Version)
	}
}

// matches is true when a conflict applies to the component's current version
func matches(c *component, conflict versionfile.Require) bool {
	if conflict.Version == "" {
		return true
	}
	ok, err := versioncmp.Satisfies(c.effectiveVersion(), conflict.Version)
	return err == nil && ok
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
