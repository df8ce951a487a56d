// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

const envVarPrefix = "PACKPROFILE_"

const (
	// HomeEnvVar
	// PACKPROFILE_HOME is the directory holding packprofile-config.yaml and the metadata cache
	HomeEnvVar = envVarPrefix + "HOME"

	// InstanceEnvVar
	// PACKPROFILE_INSTANCE is the instance directory to operate on.
	// Relative paths are resolved against the working directory.
	InstanceEnvVar = envVarPrefix + "INSTANCE"

	// MetaURLEnvVar
	// PACKPROFILE_META_URL overrides the metadata server version files are fetched from
	MetaURLEnvVar = envVarPrefix + "META_URL"

	// OfflineEnvVar
	// PACKPROFILE_OFFLINE forbids any network access, online reloads fall back to local files
	OfflineEnvVar = envVarPrefix + "OFFLINE"

	// LogLevelEnvVar
	// PACKPROFILE_LOG_LEVEL sets the log level.
	// 	Default: info
	//  Possible values: debug info warn error
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// FetchConcurrencyEnvVar
	// PACKPROFILE_FETCH_CONCURRENCY limits the number of version files fetched in parallel
	FetchConcurrencyEnvVar = envVarPrefix + "FETCH_CONCURRENCY"

	// NetrcEnvVar
	// PACKPROFILE_NETRC points at a netrc file with credentials for the metadata server
	// 	default: $HOME/.netrc
	NetrcEnvVar = envVarPrefix + "NETRC"
)
