// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"slices"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/launchprofile"
)

type EventKind int

const (
	Reloaded EventKind = iota
	Resolved
	Mutated
)

func (k EventKind) String() string {
	switch k {
	case Reloaded:
		return "reloaded"
	case Resolved:
		return "resolved"
	}
	return "mutated"
}

// Event is sent after a new profile was published
type Event struct {
	Kind EventKind
	// Op names the mutation, empty for reloads and resolves
	Op      string
	Profile *launchprofile.Profile
}

// Subscribe registers fn for all future events. Observers run synchronously on
// the caller's goroutine, in subscription order.
func (r *Resolver) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := r.nextObserver
	r.nextObserver++
	r.observers[id] = fn
	return func() {
		delete(r.observers, id)
	}
}

func (r *Resolver) notify(e Event) {
	ids := lo.Keys(r.observers)
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := r.observers[id]; ok {
			fn(e)
		}
	}
}
