// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package simpleplatform

import (
	"encoding"
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const GenericPlatformStr = "generic"

var ErrInvalidPlatform = errors.New("invalid platform")

// launcher OS names as they appear in library rules and natives maps
const (
	OSWindows = "windows"
	OSX       = "osx"
	OSLinux   = "linux"
	OSOther   = "other"
)

// Platform decides which libraries and natives of a version file apply
type Platform interface {
	encoding.TextMarshaler
	IsGeneric() bool
	String() string
	Equal(platform Platform) bool
}

// ParsePlatform accepts "generic" or "<go os>/<go arch>"
func ParsePlatform(platformStr string) (Platform, error) {
	if platformStr == GenericPlatformStr {
		return &Generic{}, nil
	}

	os, arch, ok := strings.Cut(platformStr, "/")
	if !ok || os == "" || arch == "" || strings.Contains(arch, "/") {
		return nil, fmt.Errorf("%w %q: expected os/arch or %q", ErrInvalidPlatform, platformStr, GenericPlatformStr)
	}
	return &NonGeneric{OS: os, Architecture: arch}, nil
}

// NonGeneric is a concrete os/arch pair in Go's naming, e.g. linux/amd64 or darwin/arm64
type NonGeneric struct {
	OS           string
	Architecture string
}

func (p *NonGeneric) Equal(platform Platform) bool {
	nonGeneric, ok := platform.(*NonGeneric)
	return ok && nonGeneric.OS == p.OS && nonGeneric.Architecture == p.Architecture
}

func (p *NonGeneric) IsGeneric() bool {
	return false
}

func (p *NonGeneric) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Architecture)
}

// LauncherOS maps the Go OS name onto the names used by version files
func (p *NonGeneric) LauncherOS() string {
	switch p.OS {
	case "windows":
		return OSWindows
	case "darwin":
		return OSX
	case "linux", "freebsd", "openbsd", "netbsd":
		return OSLinux
	}
	return OSOther
}

// Bits is substituted for ${arch} in native classifiers
func (p *NonGeneric) Bits() string {
	switch p.Architecture {
	case "386", "arm", "mips", "mipsle":
		return "32"
	}
	return "64"
}

func (p *NonGeneric) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *NonGeneric) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	nonGeneric, ok := parsed.(*NonGeneric)
	if !ok {
		return fmt.Errorf("%w: expected <os>/<arch>, got %q", ErrInvalidPlatform, text)
	}
	*p = *nonGeneric
	return nil
}

// Generic matches every rule, it is used when the full, platform independent library set is wanted
type Generic struct{}

func (p *Generic) Equal(platform Platform) bool {
	return platform.IsGeneric()
}

func (p *Generic) MarshalText() ([]byte, error) {
	return []byte(GenericPlatformStr), nil
}

func (p *Generic) IsGeneric() bool {
	return true
}

func (p *Generic) String() string {
	return GenericPlatformStr
}

var _ Platform = (*NonGeneric)(nil)
var _ Platform = (*Generic)(nil)

// CurrentPlatform is the platform packprofile runs on
func CurrentPlatform() *NonGeneric {
	return &NonGeneric{OS: runtime.GOOS, Architecture: runtime.GOARCH}
}
