// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package patchstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	PackFormatVersion  = 1
	OrderFormatVersion = 1
)

var (
	ErrInvalidPack  = errors.New("invalid component pack file")
	ErrInvalidOrder = errors.New("invalid order file")
)

// Pack is the persisted component list of an instance
type Pack struct {
	FormatVersion int             `json:"formatVersion"`
	Components    []PackComponent `json:"components"`
}

type PackComponent struct {
	UID            string `json:"uid"`
	Version        string `json:"version,omitempty"`
	CachedName     string `json:"cachedName,omitempty"`
	CachedVersion  string `json:"cachedVersion,omitempty"`
	Important      bool   `json:"important,omitempty"`
	DependencyOnly bool   `json:"dependencyOnly,omitempty"`
	// Origin is a hint for how the component entered the stack, see packprofile.Origin
	Origin string `json:"origin,omitempty"`
}

func ParsePack(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Join(ErrInvalidPack, err)
	}
	if p.FormatVersion != PackFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrInvalidPack, p.FormatVersion)
	}
	for i, c := range p.Components {
		if c.UID == "" {
			return nil, fmt.Errorf("%w: component %d has no uid", ErrInvalidPack, i)
		}
	}
	return &p, nil
}

func (p *Pack) Marshal() ([]byte, error) {
	out := *p
	out.FormatVersion = PackFormatVersion
	if out.Components == nil {
		out.Components = []PackComponent{}
	}
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type orderFile struct {
	Version int      `json:"version"`
	Order   []string `json:"order"`
}

func ParseOrder(data []byte) ([]string, error) {
	var o orderFile
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, errors.Join(ErrInvalidOrder, err)
	}
	if o.Version != OrderFormatVersion {
		return nil, fmt.Errorf("%w: invalid version %d", ErrInvalidOrder, o.Version)
	}
	return o.Order, nil
}

func MarshalOrder(order []string) ([]byte, error) {
	if order == nil {
		order = []string{}
	}
	data, err := json.MarshalIndent(orderFile{Version: OrderFormatVersion, Order: order}, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
