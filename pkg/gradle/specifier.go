// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package gradle parses maven style artifact coordinates of the form
// group:artifact:version[:classifier][@extension].
package gradle

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultExtension = "jar"
	invalidString    = "INVALID"
)

var ErrInvalidSpecifier = fmt.Errorf("invalid artifact specifier")

var specifierRegex = regexp.MustCompile(`^([^:@]+):([^:@]+):([^:@]+)(?::([^:@]+))?(?:@([^:@]+))?$`)

type Specifier struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string

	// Extension is empty when the coordinate did not carry an explicit '@ext'
	Extension string

	valid bool
}

// Parse returns ErrInvalidSpecifier for anything that isn't a 3 to 4 part
// coordinate with an optional extension.
func Parse(raw string) (Specifier, error) {
	m := specifierRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Specifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, raw)
	}
	return Specifier{
		Group:      m[1],
		Artifact:   m[2],
		Version:    m[3],
		Classifier: m[4],
		Extension:  m[5],
		valid:      true,
	}, nil
}

// MustParse is like Parse but panics, meant for tests and constant tables
func MustParse(raw string) Specifier {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Specifier) Valid() bool {
	return s.valid
}

func (s Specifier) String() string {
	if !s.valid {
		return invalidString
	}
	var b strings.Builder
	b.WriteString(s.Group)
	b.WriteByte(':')
	b.WriteString(s.Artifact)
	b.WriteByte(':')
	b.WriteString(s.Version)
	if s.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(s.Classifier)
	}
	if s.Extension != "" {
		b.WriteByte('@')
		b.WriteString(s.Extension)
	}
	return b.String()
}

// ArtifactPrefix is group:artifact
func (s Specifier) ArtifactPrefix() string {
	return s.Group + ":" + s.Artifact
}

// Key identifies an artifact regardless of its version. Two specifiers with the
// same key describe the same library and only one of them may end up on a classpath.
func (s Specifier) Key() string {
	if s.Classifier == "" {
		return s.ArtifactPrefix()
	}
	return s.ArtifactPrefix() + ":" + s.Classifier
}

func (s Specifier) MatchName(other Specifier) bool {
	return s.Key() == other.Key()
}

// EffectiveExtension returns the explicit extension or "jar"
func (s Specifier) EffectiveExtension() string {
	if s.Extension == "" {
		return DefaultExtension
	}
	return s.Extension
}

// Filename is artifact-version[-classifier].ext
func (s Specifier) Filename() string {
	if !s.valid {
		return ""
	}
	name := s.Artifact + "-" + s.Version
	if s.Classifier != "" {
		name += "-" + s.Classifier
	}
	return name + "." + s.EffectiveExtension()
}

// ToPath returns the repository relative path of the artifact, always using forward slashes.
func (s Specifier) ToPath() string {
	if !s.valid {
		return ""
	}
	return strings.Join([]string{
		strings.ReplaceAll(s.Group, ".", "/"),
		s.Artifact,
		s.Version,
		s.Filename(),
	}, "/")
}

// WithVersion returns a copy pointing at a different version
func (s Specifier) WithVersion(version string) Specifier {
	s.Version = version
	return s
}

func (s Specifier) MarshalText() ([]byte, error) {
	if !s.valid {
		return nil, fmt.Errorf("%w: cannot serialize an invalid specifier", ErrInvalidSpecifier)
	}
	return []byte(s.String()), nil
}

func (s *Specifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
