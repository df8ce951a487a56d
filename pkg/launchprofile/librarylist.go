// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package launchprofile

import (
	"slices"

	"mmc.dev/x/packprofile/pkg/versionfile"
)

// libraryList keeps libraries unique by group:artifact[:classifier].
type libraryList struct {
	items []*versionfile.Library
	// prependAt is where the next prepended library of the current component goes,
	// so several prepends from one document keep their relative order
	prependAt int
}

func (ll *libraryList) beginComponent() {
	ll.prependAt = 0
}

func (ll *libraryList) indexOf(key string) int {
	return slices.IndexFunc(ll.items, func(l *versionfile.Library) bool {
		return l.Name.Key() == key
	})
}

// add inserts or replaces a library and returns the replaced entry, if any.
// A replacement takes over the earlier entry's slot unless it is prepended,
// then it moves to the front like any other prepended library.
func (ll *libraryList) add(l *versionfile.Library, honorInsert bool) *versionfile.Library {
	prepend := honorInsert && l.Insert == versionfile.InsertPrepend
	idx := ll.indexOf(l.Name.Key())

	if idx >= 0 {
		replaced := ll.items[idx]
		if !prepend {
			ll.items[idx] = l
			return replaced
		}
		ll.items = slices.Delete(ll.items, idx, idx+1)
		if idx < ll.prependAt {
			ll.prependAt--
		}
		ll.insertFront(l)
		return replaced
	}

	if prepend {
		ll.insertFront(l)
	} else {
		ll.items = append(ll.items, l)
	}
	return nil
}

func (ll *libraryList) insertFront(l *versionfile.Library) {
	ll.items = slices.Insert(ll.items, ll.prependAt, l)
	ll.prependAt++
}
