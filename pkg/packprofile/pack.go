// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/launchprofile"
	"mmc.dev/x/packprofile/pkg/patchstore"
	"mmc.dev/x/packprofile/pkg/utils/stringset"
)

const jarModUIDPrefix = "org.multimc.jarmod."

// builtinUIDs are the base game and what it can't run without
var builtinUIDs = stringset.New("net.minecraft", "org.lwjgl", "org.lwjgl3")

// ComponentSpec seeds a component before its first load
type ComponentSpec struct {
	UID     string
	Version string
	// Name is shown until a document is loaded
	Name           string
	Origin         Origin
	OrderHint      int
	Important      bool
	DependencyOnly bool
}

// Append adds an unloaded component at the end of the stack
func (r *Resolver) Append(spec ComponentSpec) error {
	if r.IndexOf(spec.UID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, spec.UID)
	}
	r.components = append(r.components, specComponent(spec))
	return nil
}

func specComponent(spec ComponentSpec) *component {
	c := newComponent(spec.UID, spec.Origin)
	c.version = spec.Version
	c.name = spec.Name
	c.orderHint = spec.OrderHint
	c.important = spec.Important
	c.dependencyOnly = spec.DependencyOnly
	return c
}

// LoadPack replaces the stack with the components of the instance's pack file,
// any patch file the pack doesn't name and the persisted explicit order. All
// components start unloaded, so this is usually followed by Reload.
func (r *Resolver) LoadPack() error {
	pack, err := r.store.ReadPack()
	if err != nil {
		return fmt.Errorf("failed to read pack: %w", err)
	}
	patches, err := r.store.ListPatchFiles()
	if err != nil {
		return fmt.Errorf("failed to list patch files: %w", err)
	}
	order, err := r.store.ReadOrder()
	if err != nil {
		return fmt.Errorf("failed to read order: %w", err)
	}

	var components []*component
	seen := stringset.New()
	if pack != nil {
		for _, pc := range pack.Components {
			if !seen.AddNew(pc.UID) {
				return fmt.Errorf("%w: %s", ErrDuplicateComponent, pc.UID)
			}
			origin, err := packOrigin(pc, lo.Contains(patches, pc.UID))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", patchstore.ErrInvalidPack, pc.UID, err)
			}
			components = append(components, specComponent(ComponentSpec{
				UID:            pc.UID,
				Version:        pc.Version,
				Name:           pc.CachedName,
				Origin:         origin,
				Important:      pc.Important,
				DependencyOnly: pc.DependencyOnly,
			}))
		}
	}
	for _, uid := range patches {
		if seen.AddNew(uid) {
			r.logger.Debug("found patch file outside the pack", "uid", uid)
			components = append(components, specComponent(ComponentSpec{UID: uid, Origin: inferOrigin(uid, "", true)}))
		}
	}

	for i, uid := range order {
		if c, ok := lo.Find(components, func(c *component) bool { return c.uid == uid }); ok {
			o := i
			c.explicitOrder = &o
		}
	}

	r.components = components
	r.profile = launchprofile.Empty()
	return nil
}

func packOrigin(pc patchstore.PackComponent, hasPatch bool) (Origin, error) {
	if pc.Origin != "" {
		return ParseOrigin(pc.Origin)
	}
	return inferOrigin(pc.UID, pc.Version, hasPatch), nil
}

// inferOrigin covers pack files written without an origin
func inferOrigin(uid, version string, hasPatch bool) Origin {
	switch {
	case builtinUIDs.Contains(uid):
		return OriginBuiltin
	case strings.HasPrefix(uid, jarModUIDPrefix):
		return OriginJarMod
	case version == "" && hasPatch:
		return OriginLocal
	}
	return OriginLoader
}

// SavePack writes the stack to the instance's pack file
func (r *Resolver) SavePack() error {
	pack := &patchstore.Pack{
		FormatVersion: patchstore.PackFormatVersion,
		Components: lo.Map(r.components, func(c *component, _ int) patchstore.PackComponent {
			pc := patchstore.PackComponent{
				UID:            c.uid,
				Version:        c.version,
				Important:      c.important,
				DependencyOnly: c.dependencyOnly,
				Origin:         c.origin.String(),
			}
			if c.file != nil {
				pc.CachedName = c.file.Name
				pc.CachedVersion = c.file.Version
			}
			return pc
		}),
	}
	if err := r.store.WritePack(pack); err != nil {
		return fmt.Errorf("failed to write pack: %w", err)
	}
	return nil
}
