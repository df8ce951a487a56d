// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testdata

import _ "embed"

//go:embed minecraft-1.8.9.json
var Minecraft189 []byte

//go:embed forge-patch.json
var ForgePatch []byte

//go:embed legacy-patch.json
var LegacyPatch []byte

//go:embed unknown-process-arguments.json
var UnknownProcessArguments []byte

//go:embed missing-name.json
var MissingName []byte

//go:embed library-without-name.json
var LibraryWithoutName []byte

//go:embed wrong-type.json
var WrongType []byte

//go:embed not-an-object.json
var NotAnObject []byte

//go:embed future-format.json
var FutureFormat []byte

//go:embed malformed.json
var Malformed []byte
