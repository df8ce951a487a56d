// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

const (
	ConfigFileName = "packprofile-config.yaml"

	DefaultMetaURL          = "https://meta.multimc.org/v1"
	DefaultFetchConcurrency = 4

	TieBreakStackPosition = "stack-position"
	TieBreakUID           = "uid"
)
