// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package versioncmp orders component and library versions and checks them
// against requirement constraints.
//
// Game and loader versions are frequently not semantic versions
// ("1.7.10", "14.23.5.2847", "20w14a", "1.16-pre3"), so ordering uses a
// segment-wise comparison. Constraints that are valid semver ranges are
// delegated to Masterminds/semver when the version parses as semver too.
package versioncmp

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var ErrInvalidConstraint = fmt.Errorf("invalid version constraint")

type segment struct {
	isNumber bool
	number   uint64
	text     string
}

func splitSegments(v string) []segment {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '_' || r == '+'
	})
	out := make([]segment, 0, len(fields))
	for _, f := range fields {
		if n, err := strconv.ParseUint(f, 10, 64); err == nil {
			out = append(out, segment{isNumber: true, number: n, text: f})
		} else {
			out = append(out, segment{text: f})
		}
	}
	return out
}

func compareSegments(a, b segment) int {
	switch {
	case a.isNumber && b.isNumber:
		return cmp.Compare(a.number, b.number)
	case a.isNumber:
		return 1
	case b.isNumber:
		return -1
	}
	return strings.Compare(a.text, b.text)
}

// Compare returns -1, 0 or 1. Missing trailing segments count as zero, so
// "1.0" and "1.0.0" are equal.
func Compare(a, b string) int {
	as, bs := splitSegments(a), splitSegments(b)
	zero := segment{isNumber: true}
	for i := 0; i < max(len(as), len(bs)); i++ {
		x, y := zero, zero
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if c := compareSegments(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func Equal(a, b string) bool {
	return Compare(a, b) == 0
}

var operators = []string{">=", "<=", "!=", "==", ">", "<", "="}

func isPlainVersion(c string) bool {
	if strings.ContainsAny(c, "<>=!~^*|, ") {
		return false
	}
	for _, s := range strings.Split(c, ".") {
		if s == "x" || s == "X" {
			return false
		}
	}
	return true
}

// Satisfies reports whether version matches constraint. An empty constraint
// matches everything, a bare version means equality.
func Satisfies(version, constraint string) (bool, error) {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return true, nil
	}
	if isPlainVersion(constraint) {
		return Equal(version, constraint), nil
	}

	if c, err := semver.NewConstraint(constraint); err == nil {
		if v, err := semver.NewVersion(version); err == nil {
			return c.Check(v), nil
		}
	}

	return satisfiesSimple(version, constraint)
}

// satisfiesSimple evaluates comma separated single operator comparisons with
// Compare, for versions semver can't represent.
func satisfiesSimple(version, constraint string) (bool, error) {
	for _, part := range strings.Split(constraint, ",") {
		part = strings.TrimSpace(part)
		op, operand, ok := splitOperator(part)
		if !ok || operand == "" {
			return false, fmt.Errorf("%w: %q", ErrInvalidConstraint, constraint)
		}
		c := Compare(version, operand)
		var match bool
		switch op {
		case ">=":
			match = c >= 0
		case "<=":
			match = c <= 0
		case ">":
			match = c > 0
		case "<":
			match = c < 0
		case "!=":
			match = c != 0
		default:
			match = c == 0
		}
		if !match {
			return false, nil
		}
	}
	return true, nil
}

func splitOperator(s string) (string, string, bool) {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op, strings.TrimSpace(strings.TrimPrefix(s, op)), true
		}
	}
	return "", "", false
}
