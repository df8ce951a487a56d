// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"fmt"
	"strings"

	"mmc.dev/x/packprofile/pkg/problems"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

// Origin is how a component entered the stack, it decides what the user may do with it
type Origin int

const (
	// OriginBuiltin is the base game and its fixed dependencies
	OriginBuiltin Origin = iota
	// OriginLoader is an upstream component added on top, like a mod loader
	OriginLoader
	// OriginLocal only exists as a patch file inside the instance
	OriginLocal
	// OriginJarMod is a patch wrapping jar mods installed into the instance
	OriginJarMod
)

func (o Origin) String() string {
	switch o {
	case OriginBuiltin:
		return "builtin"
	case OriginLoader:
		return "loader"
	case OriginLocal:
		return "local"
	case OriginJarMod:
		return "jarmod"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(s) {
	case "builtin":
		return OriginBuiltin, nil
	case "loader":
		return OriginLoader, nil
	case "local":
		return OriginLocal, nil
	case "jarmod":
		return OriginJarMod, nil
	}
	return 0, fmt.Errorf("unknown component origin %q", s)
}

func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

type State int

const (
	Unloaded State = iota
	Loading
	Loaded
	LoadFailed
	Stale
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load-failed"
	case Stale:
		return "stale"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var transitions = map[State][]State{
	Unloaded:   {Loading, Stale},
	Loading:    {Loaded, LoadFailed},
	Loaded:     {Stale, Loading},
	LoadFailed: {Loading, Stale},
	Stale:      {Loading},
}

// CanBecome reports whether the state machine allows going from s to next
func (s State) CanBecome(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// component is the resolver's own record, never handed out
type component struct {
	uid     string
	name    string
	version string

	orderHint     int
	explicitOrder *int

	// file is the effective document, the overlay when custom
	file *versionfile.VersionFile
	// upstream is the canonical document, kept around to revert an overlay without a fetch
	upstream *versionfile.VersionFile

	origin         Origin
	custom         bool
	important      bool
	dependencyOnly bool

	state   State
	loadErr error
	ledger  *problems.Ledger
}

func newComponent(uid string, origin Origin) *component {
	return &component{uid: uid, origin: origin, ledger: problems.NewLedger(uid)}
}

func (c *component) clone() *component {
	cp := *c
	if c.explicitOrder != nil {
		o := *c.explicitOrder
		cp.explicitOrder = &o
	}
	cp.ledger = c.ledger.Clone()
	return &cp
}

// setState moves along the state machine, anything else is a bug in the caller
func (c *component) setState(next State) {
	if c.state == next {
		return
	}
	if !c.state.CanBecome(next) {
		panic(fmt.Sprintf("component %s: invalid state transition %s -> %s", c.uid, c.state, next))
	}
	c.state = next
}

// customizable is the origin's flag, a Local component is born custom so it never branches again
func (c *component) customizable() bool {
	return c.origin != OriginJarMod
}

func (c *component) removable() bool {
	return c.origin != OriginBuiltin
}

func (c *component) moveable() bool {
	return c.origin != OriginBuiltin
}

func (c *component) revertible() bool {
	return c.custom && (c.origin == OriginBuiltin || c.origin == OriginLoader)
}

// order is the sort key of the merge pass
func (c *component) order() int {
	if c.explicitOrder != nil {
		return *c.explicitOrder
	}
	if c.file != nil {
		return c.file.OrderOr(c.orderHint)
	}
	return c.orderHint
}

func (c *component) displayName() string {
	if c.file != nil && c.file.Name != "" {
		return c.file.Name
	}
	if c.name != "" {
		return c.name
	}
	return c.uid
}

// effectiveVersion is what dependency checks compare against. A user pinned
// version that wasn't loaded yet counts when it was marked important.
func (c *component) effectiveVersion() string {
	if c.state == Stale && c.important && c.version != "" {
		return c.version
	}
	if c.file != nil && c.file.Version != "" {
		return c.file.Version
	}
	return c.version
}

// ComponentInfo is a copy of a component's state, safe to keep around
type ComponentInfo struct {
	UID           string             `json:"uid" yaml:"uid"`
	Name          string             `json:"name" yaml:"name"`
	Version       string             `json:"version,omitempty" yaml:"version,omitempty"`
	OrderHint     int                `json:"orderHint" yaml:"orderHint"`
	ExplicitOrder *int               `json:"explicitOrder,omitempty" yaml:"explicitOrder,omitempty"`
	Order         int                `json:"order" yaml:"order"`
	Origin        Origin             `json:"origin" yaml:"origin"`
	State         State              `json:"state" yaml:"state"`
	Custom        bool               `json:"custom,omitempty" yaml:"custom,omitempty"`
	Important     bool               `json:"important,omitempty" yaml:"important,omitempty"`
	HasDocument   bool               `json:"hasDocument" yaml:"hasDocument"`
	Customizable  bool               `json:"customizable" yaml:"customizable"`
	Removable     bool               `json:"removable" yaml:"removable"`
	Moveable      bool               `json:"moveable" yaml:"moveable"`
	Revertible    bool               `json:"revertible" yaml:"revertible"`
	Severity      problems.Severity  `json:"severity" yaml:"severity"`
	Problems      []problems.Problem `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func (c *component) info() ComponentInfo {
	var explicit *int
	if c.explicitOrder != nil {
		o := *c.explicitOrder
		explicit = &o
	}
	return ComponentInfo{
		UID:           c.uid,
		Name:          c.displayName(),
		Version:       c.effectiveVersion(),
		OrderHint:     c.orderHint,
		ExplicitOrder: explicit,
		Order:         c.order(),
		Origin:        c.origin,
		State:         c.state,
		Custom:        c.custom,
		Important:     c.important,
		HasDocument:   c.file != nil,
		Customizable:  c.customizable() && !c.custom && c.file != nil,
		Removable:     c.removable(),
		Moveable:      c.moveable(),
		Revertible:    c.revertible(),
		Severity:      c.ledger.Severity(),
		Problems:      c.ledger.Problems(),
	}
}
