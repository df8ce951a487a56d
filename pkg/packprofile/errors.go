// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrLoadFailed         = errors.New("component failed to load")
	ErrResolve            = errors.New("failed to resolve components")
	ErrDuplicateComponent = errors.New("component already present")
	ErrNotRemovable       = errors.New("component can't be removed")
	ErrNotMoveable        = errors.New("component can't be moved")
	ErrNotFound           = errors.New("component not found")
	ErrNotCustomizable    = errors.New("component can't be customized")
	ErrNotRevertible      = errors.New("component can't be reverted")
	ErrOutOfBounds        = errors.New("component index out of bounds")
	ErrInvalidOptions     = errors.New("invalid resolver options")
)

const (
	CodeLoadFailed = "LOAD_FAILED"
	CodeNotLoaded  = "NOT_LOADED"
)

// ComponentError is the failure of one required component
type ComponentError struct {
	UID   string
	Code  string
	Cause error
}

func (c *ComponentError) Error() string {
	if c.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", c.UID, c.Code, c.Cause.Error())
	}
	return c.UID + ": " + c.Code
}

func (c *ComponentError) Unwrap() error {
	return c.Cause
}

var _ error = (*ComponentError)(nil)

// ResolveError aggregates the required components a reload or resolve couldn't do without.
// It matches ErrResolve and the causes of all failures via errors.Is.
type ResolveError struct {
	Failures []*ComponentError
}

func (r *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", ErrResolve, strings.Join(lo.Map(r.Failures, func(f *ComponentError, _ int) string {
		return f.Error()
	}), "; "))
}

func (r *ResolveError) Unwrap() []error {
	errs := []error{ErrResolve}
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errs
}

var _ error = (*ResolveError)(nil)

// UIDs lists the failed components
func (r *ResolveError) UIDs() []string {
	return lo.Map(r.Failures, func(f *ComponentError, _ int) string { return f.UID })
}
