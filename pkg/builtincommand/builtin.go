// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

import (
	"github.com/samber/lo"
)

type BuiltinCommand string

const (
	List          BuiltinCommand = "list"
	Snapshot      BuiltinCommand = "snapshot"
	Reload        BuiltinCommand = "reload"
	Add           BuiltinCommand = "add"
	Remove        BuiltinCommand = "remove"
	Move          BuiltinCommand = "move"
	Customize     BuiltinCommand = "customize"
	Revert        BuiltinCommand = "revert"
	SetVersion    BuiltinCommand = "set-version"
	ResetOrder    BuiltinCommand = "reset-order"
	InstallJarMod BuiltinCommand = "install-jarmod"
	Version       BuiltinCommand = "version"
)

var BuiltinCommands = []BuiltinCommand{List, Snapshot, Reload, Add, Remove, Move, Customize, Revert, SetVersion, ResetOrder, InstallJarMod, Version}

// mutating commands change the instance's files and run under the instance lock
var mutating = []BuiltinCommand{Reload, Add, Remove, Move, Customize, Revert, SetVersion, ResetOrder, InstallJarMod}

func IsBuiltinCommand(args []string) bool {
	if len(args) > 1 {
		elems := lo.Map(BuiltinCommands, func(item BuiltinCommand, _ int) string {
			return string(item)
		})
		return lo.Contains(elems, args[1])
	}
	return false
}

func (c BuiltinCommand) IsMutating() bool {
	return lo.Contains(mutating, c)
}
