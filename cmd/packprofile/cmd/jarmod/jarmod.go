// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package jarmod

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
)

func Cmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.InstallJarMod) + " <jar>...",
		Short: "copy jar files into the instance and add a jar mod component for each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				p, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				paths = append(paths, p)
			}

			inst, err := app.Open(conf)
			if err != nil {
				return err
			}
			return inst.Run(cmd.Context(), builtincommand.InstallJarMod, false, func(r *packprofile.Resolver) error {
				if err := r.InstallJarMods(paths); err != nil {
					cmd.SilenceUsage = true
					return err
				}
				cmd.Println(color.GreenString("installed %d jar mods", len(paths)))
				return nil
			})
		},
	}
}
