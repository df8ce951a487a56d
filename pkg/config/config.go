// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/goccy/go-yaml"

	"mmc.dev/x/packprofile/pkg/simpleplatform"
	"mmc.dev/x/packprofile/pkg/utils"
)

var ErrInvalidConfig = fmt.Errorf("invalid packprofile config")

type Config struct {
	HomePath string `yaml:"-"`

	CachePath string `yaml:"-"`
	// dir holding version files fetched from the metadata server, <uid>/<version>.json
	MetaCachePath string `yaml:"-"`

	InstancePath string `yaml:"instance,omitempty"`

	MetaURL   string `yaml:"meta-url,omitempty"`
	Offline   bool   `yaml:"offline,omitempty"`
	NetrcPath string `yaml:"netrc-path,omitempty"`

	FetchConcurrency int `yaml:"fetch-concurrency,omitempty"`

	// TieBreak orders components sharing the same order value, stack-position or uid
	TieBreak string `yaml:"tie-break,omitempty"`

	// Platform evaluates library rules, defaults to the running os/arch
	Platform    simpleplatform.Platform `yaml:"-"`
	RawPlatform string                  `yaml:"platform,omitempty"`
}

func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(c.HomePath, c.MetaCachePath)
}

func Get() (*Config, error) {
	homePath, err := getHomePath()
	if err != nil {
		return nil, err
	}
	return GetWithCustomHome(homePath)
}

func GetWithCustomHome(homePath string) (*Config, error) {
	config := Config{}

	// packprofile-config.yaml is optional
	configFilePath := filepath.Join(homePath, ConfigFileName)
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if fileInfo.IsDir() {
			return nil, fmt.Errorf("%q is directory and not a file", configFilePath)
		}

		bytes, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, err
		}

		if err := yaml.UnmarshalWithOptions(bytes, &config, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidConfig, configFilePath, err)
		}
	}

	if instance, ok := os.LookupEnv(InstanceEnvVar); ok {
		config.InstancePath = instance
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	config.InstancePath = utils.ResolvePath(cwd, config.InstancePath)

	if metaURL, ok := os.LookupEnv(MetaURLEnvVar); ok {
		config.MetaURL = metaURL
	}
	if config.MetaURL == "" {
		config.MetaURL = DefaultMetaURL
	}

	offline, ok, err := utils.BoolEnvVar(OfflineEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.Offline = offline
	}

	concurrency, ok, err := utils.PositiveIntEnvVar(FetchConcurrencyEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.FetchConcurrency = concurrency
	}
	if config.FetchConcurrency < 0 {
		return nil, fmt.Errorf("%w: fetch-concurrency must not be negative", ErrInvalidConfig)
	}
	if config.FetchConcurrency == 0 {
		config.FetchConcurrency = DefaultFetchConcurrency
	}

	if netrcPath, ok := os.LookupEnv(NetrcEnvVar); ok {
		config.NetrcPath = netrcPath
	}

	switch config.TieBreak {
	case "":
		config.TieBreak = TieBreakStackPosition
	case TieBreakStackPosition, TieBreakUID:
	default:
		return nil, fmt.Errorf("%w: unknown tie-break %q", ErrInvalidConfig, config.TieBreak)
	}

	if config.RawPlatform == "" {
		config.Platform = simpleplatform.CurrentPlatform()
	} else {
		p, err := simpleplatform.ParsePlatform(config.RawPlatform)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		config.Platform = p
	}

	config.HomePath = homePath
	config.CachePath = filepath.Join(homePath, "cache")
	config.MetaCachePath = filepath.Join(config.CachePath, "meta")
	return &config, nil
}

func getHomePath() (string, error) {
	if v, ok := os.LookupEnv(HomeEnvVar); ok {
		return v, nil
	}

	return getAppUserDataDirectory("packprofile")
}

func getAppUserDataDirectory(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("APPDATA environment variable is not set")
		}
		return filepath.Join(dir, appName), nil
	default:
		dir, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		return filepath.Join(dir, "."+appName), nil
	}
}
