// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"

	"mmc.dev/x/packprofile/pkg/config"
)

// InitLogging installs a text handler on stderr, the level comes from PACKPROFILE_LOG_LEVEL
func InitLogging() error {
	logLevel, ok := os.LookupEnv(config.LogLevelEnvVar)
	if !ok {
		logLevel = "info"
	}
	logger, err := NewLogger(os.Stderr, logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func NewLogger(w io.Writer, logLevel string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
