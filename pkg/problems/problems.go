// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package problems

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type Severity int

const (
	None Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "none"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*s = None
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	default:
		return fmt.Errorf("unknown problem severity %q", string(text))
	}
	return nil
}

type Problem struct {
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
	// Source is the uid of the component the problem is attached to
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

func (p Problem) String() string {
	if p.Source == "" {
		return fmt.Sprintf("%s: %s", p.Severity, p.Description)
	}
	return fmt.Sprintf("%s: %s: %s", p.Severity, p.Source, p.Description)
}

// Max returns the highest severity among problems, None for an empty list
func Max(ps []Problem) Severity {
	return lo.Reduce(ps, func(acc Severity, p Problem, _ int) Severity {
		return max(acc, p.Severity)
	}, None)
}

// Ledger collects the problems of a single component. The zero value is ready to use.
type Ledger struct {
	source   string
	problems []Problem
}

func NewLedger(source string) *Ledger {
	return &Ledger{source: source}
}

func (l *Ledger) Add(severity Severity, description string) {
	l.problems = append(l.problems, Problem{
		Severity:    severity,
		Description: description,
		Source:      l.source,
	})
}

func (l *Ledger) Addf(severity Severity, format string, args ...any) {
	l.Add(severity, fmt.Sprintf(format, args...))
}

// Merge copies problems from another list, re-attributing them to this ledger's source
func (l *Ledger) Merge(ps []Problem) {
	for _, p := range ps {
		l.Add(p.Severity, p.Description)
	}
}

// Problems returns a copy
func (l *Ledger) Problems() []Problem {
	return slices.Clone(l.problems)
}

func (l *Ledger) Severity() Severity {
	return Max(l.problems)
}

func (l *Ledger) Reset() {
	l.problems = nil
}

func (l *Ledger) Len() int {
	return len(l.problems)
}

// Clone is used to snapshot a ledger before a mutation so it can be restored on failure
func (l *Ledger) Clone() *Ledger {
	return &Ledger{source: l.source, problems: slices.Clone(l.problems)}
}
