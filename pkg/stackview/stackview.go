// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package stackview renders a component stack for humans and machines
package stackview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/samber/lo"

	"mmc.dev/x/packprofile/pkg/packprofile"
	"mmc.dev/x/packprofile/pkg/problems"
)

type Row struct {
	Index    int                `json:"index" yaml:"index"`
	UID      string             `json:"uid" yaml:"uid"`
	Name     string             `json:"name" yaml:"name"`
	Version  string             `json:"version,omitempty" yaml:"version,omitempty"`
	Origin   string             `json:"origin" yaml:"origin"`
	State    string             `json:"state" yaml:"state"`
	Custom   bool               `json:"custom,omitempty" yaml:"custom,omitempty"`
	Severity problems.Severity  `json:"severity" yaml:"severity"`
	Problems []problems.Problem `json:"problems,omitempty" yaml:"problems,omitempty"`

	loaded bool
}

type View []*Row

func New(components []packprofile.ComponentInfo) View {
	return lo.Map(components, func(c packprofile.ComponentInfo, i int) *Row {
		return &Row{
			Index:    i,
			UID:      c.UID,
			Name:     c.Name,
			Version:  c.Version,
			Origin:   c.Origin.String(),
			State:    c.State.String(),
			Custom:   c.Custom,
			Severity: c.Severity,
			Problems: c.Problems,
			loaded:   c.HasDocument,
		}
	})
}

// Table lists the stack in merge order. Customized components are marked with
// a star, components without a document are dimmed.
func (v View) Table() string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(lo.Map(v, func(row *Row, _ int) []string {
			indicator := lo.Ternary(row.Custom, "*", "")

			name := fmt.Sprintf("%s (%s)", row.Name, row.UID)
			if !row.loaded {
				name = lipgloss.NewStyle().
					Faint(true).
					Italic(true).
					Render(name)
			}

			return []string{
				fmt.Sprint(row.Index),
				indicator,
				name,
				row.Version,
				row.Origin,
				severity(row.Severity),
			}
		})...).
		String()
}

func severity(s problems.Severity) string {
	switch s {
	case problems.Error:
		return color.RedString(s.String())
	case problems.Warning:
		return color.YellowString(s.String())
	}
	return color.GreenString("ok")
}

// Problems lists every problem of the stack, one per line
func (v View) Problems() string {
	var lines []string
	for _, row := range v {
		for _, p := range row.Problems {
			lines = append(lines, fmt.Sprintf("%s %s: %s", severity(p.Severity), row.UID, p.Description))
		}
	}
	return strings.Join(lines, "\n")
}

// CanLaunch mirrors the resolver's verdict on the rendered rows
func (v View) CanLaunch() bool {
	return !lo.SomeBy(v, func(row *Row) bool { return row.Severity >= problems.Error })
}
