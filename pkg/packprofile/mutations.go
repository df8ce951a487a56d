// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/bytesource"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// commit resolves a changed copy of the stack, persists the change and only
// then publishes. Required components without a document don't stop a
// mutation, they show up as Error problems instead.
func (r *Resolver) commit(staged []*component, op string, persist func([]*component) error) error {
	profile, resolveErr := r.resolveStack(staged)
	if resolveErr != nil {
		r.logger.Debug("resolved with failures", "op", op, "err", resolveErr.Error())
	}
	if persist != nil {
		if err := persist(staged); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	r.publish(staged, profile, Mutated, op)
	r.logger.Debug("applied change", "op", op)
	return nil
}

// AddEmpty appends a new local component and writes its empty patch file
func (r *Resolver) AddEmpty(uid, name string) error {
	if r.IndexOf(uid) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, uid)
	}

	doc := versionfile.New(uid, name)
	order := r.FreeOrderNumber()
	doc.Order = &order
	data, err := versionfile.Serialize(doc)
	if err != nil {
		return err
	}

	c := newComponent(uid, OriginLocal)
	c.name = name
	loaded(c, doc, true)

	staged := append(r.staged(), c)
	return r.commit(staged, "add", func([]*component) error {
		return r.store.WritePatchFile(uid, data)
	})
}

// Remove drops a component and its patch file. Components requiring it are
// left alone and report the missing dependency.
func (r *Resolver) Remove(index int) error {
	c, err := r.at(index)
	if err != nil {
		return err
	}
	if !c.removable() {
		return fmt.Errorf("%w: %s", ErrNotRemovable, c.uid)
	}

	staged := slices.Delete(r.staged(), index, index+1)
	return r.commit(staged, "remove", func(staged []*component) error {
		if err := r.rewriteOrder(staged); err != nil {
			return err
		}
		return r.deleteFiles(c)
	})
}

func (r *Resolver) RemoveByUID(uid string) error {
	index := r.IndexOf(uid)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return r.Remove(index)
}

// Move swaps a component with its neighbour. The whole stack's current order
// is persisted as explicit order, order hints stay untouched.
func (r *Resolver) Move(index int, direction Direction) error {
	c, err := r.at(index)
	if err != nil {
		return err
	}
	target := index + 1
	if direction == Up {
		target = index - 1
	}
	neighbour, err := r.at(target)
	if err != nil {
		return err
	}
	if !c.moveable() || !neighbour.moveable() {
		return fmt.Errorf("%w: %s %s", ErrNotMoveable, c.uid, direction)
	}

	staged := r.staged()
	staged[index], staged[target] = staged[target], staged[index]
	for i, sc := range staged {
		o := i
		sc.explicitOrder = &o
	}
	return r.commit(staged, "move", func(staged []*component) error {
		return r.store.WriteOrder(uids(staged))
	})
}

// ResetOrder forgets every explicit order
func (r *Resolver) ResetOrder() error {
	staged := r.staged()
	for _, c := range staged {
		c.explicitOrder = nil
	}
	return r.commit(staged, "reset-order", func([]*component) error {
		return r.store.DeleteOrder()
	})
}

// Customize writes an overlay patch holding the component's current document.
// From then on the overlay is the component's document.
func (r *Resolver) Customize(index int) error {
	c, err := r.at(index)
	if err != nil {
		return err
	}
	switch {
	case !c.customizable():
		return fmt.Errorf("%w: %s", ErrNotCustomizable, c.uid)
	case c.custom:
		return fmt.Errorf("%w: %s is already customized", ErrNotCustomizable, c.uid)
	case c.file == nil:
		return fmt.Errorf("%w: %s has no document to start from", ErrNotCustomizable, c.uid)
	}

	data, err := versionfile.Serialize(c.file.Overlay())
	if err != nil {
		return err
	}
	// read back so the overlay looks exactly like it will after the next reload
	overlay, err := versionfile.Parse(data, c.uid+".json")
	if err != nil {
		return err
	}

	staged := r.staged()
	sc := staged[index]
	sc.upstream = c.file
	sc.file = overlay
	sc.custom = true
	return r.commit(staged, "customize", func([]*component) error {
		return r.store.WritePatchFile(c.uid, data)
	})
}

// RevertToBase deletes a component's overlay and goes back to the upstream
// document, which is fetched in Local mode when it isn't at hand.
func (r *Resolver) RevertToBase(ctx context.Context, index int) error {
	c, err := r.at(index)
	if err != nil {
		return err
	}
	if !c.revertible() {
		return fmt.Errorf("%w: %s", ErrNotRevertible, c.uid)
	}
	upstream, err := r.upstream(ctx, c)
	if err != nil {
		return err
	}

	staged := r.staged()
	loaded(staged[index], upstream, false)
	return r.commit(staged, "revert", func([]*component) error {
		return r.store.DeletePatchFile(c.uid)
	})
}

// RevertToVanilla reverts every customized component and removes the local ones
func (r *Resolver) RevertToVanilla(ctx context.Context) error {
	var (
		kept    []*component
		dropped []*component
		reverts []*component
	)
	for _, c := range r.staged() {
		switch {
		case !c.custom:
			kept = append(kept, c)
		case c.revertible():
			upstream, err := r.upstream(ctx, c)
			if err != nil {
				return err
			}
			loaded(c, upstream, false)
			kept = append(kept, c)
			reverts = append(reverts, c)
		case c.removable():
			dropped = append(dropped, c)
		default:
			kept = append(kept, c)
		}
	}

	return r.commit(kept, "revert-to-vanilla", func(staged []*component) error {
		var errs []error
		for _, c := range reverts {
			errs = append(errs, r.store.DeletePatchFile(c.uid))
		}
		for _, c := range dropped {
			errs = append(errs, r.deleteFiles(c))
		}
		if len(dropped) > 0 {
			errs = append(errs, r.rewriteOrder(staged))
		}
		return errors.Join(errs...)
	})
}

// SetComponentVersion pins a new version. The document is refetched by the
// next online resolve, an important pin is checked against requirers right away.
func (r *Resolver) SetComponentVersion(uid, version string, important bool) error {
	index := r.IndexOf(uid)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, uid)
	}

	staged := r.staged()
	sc := staged[index]
	sc.version = version
	sc.important = important
	if sc.state == Loaded || sc.state == LoadFailed {
		sc.setState(Stale)
	}
	return r.commit(staged, "set-version", nil)
}

func (r *Resolver) upstream(ctx context.Context, c *component) (*versionfile.VersionFile, error) {
	if c.upstream != nil {
		return c.upstream, nil
	}
	if c.version == "" {
		return nil, fmt.Errorf("%w: %s has no version to revert to", ErrNotRevertible, c.uid)
	}
	data, err := r.source.Fetch(ctx, bytesource.Ref{UID: c.uid, Version: c.version}, bytesource.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: upstream of %s: %w", ErrLoadFailed, c.uid, err)
	}
	f, err := versionfile.Parse(data, c.uid+".json")
	if err != nil {
		return nil, fmt.Errorf("%w: upstream of %s: %w", ErrLoadFailed, c.uid, err)
	}
	return f, nil
}

// deleteFiles removes what a removed component kept in the instance
func (r *Resolver) deleteFiles(c *component) error {
	var errs []error
	if c.custom {
		errs = append(errs, r.store.DeletePatchFile(c.uid))
	}
	if c.origin == OriginJarMod && c.file != nil {
		for _, jm := range c.file.JarMods {
			if jm.Hint == versionfile.HintLocal && jm.Filename != "" {
				errs = append(errs, r.store.DeleteJarMod(jm.Filename))
			}
		}
	}
	return errors.Join(errs...)
}

// rewriteOrder keeps a persisted order in line with the stack, without one there's nothing to do
func (r *Resolver) rewriteOrder(components []*component) error {
	if !lo.SomeBy(components, func(c *component) bool { return c.explicitOrder != nil }) {
		return nil
	}
	return r.store.WriteOrder(uids(components))
}

// loaded installs a document on a component that didn't come through Reload
func loaded(c *component, f *versionfile.VersionFile, custom bool) {
	c.file = f
	c.custom = custom
	if !custom {
		c.upstream = f
	}
	c.loadErr = nil
	if c.state != Loaded {
		c.setState(Loading)
		c.setState(Loaded)
	}
}

func uids(components []*component) []string {
	return lo.Map(components, func(c *component, _ int) string { return c.uid })
}
