// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
	"mmc.dev/x/packprofile/pkg/utils"
)

func Cmd(conf *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Snapshot),
		Short: "show the merged launch profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.Open(conf)
			if err != nil {
				return err
			}

			return inst.Run(cmd.Context(), builtincommand.Snapshot, false, func(r *packprofile.Resolver) error {
				profile := r.Snapshot()
				if output != "table" {
					return utils.PrintStructured(cmd, output, profile.Summary())
				}

				if profile.MainClass != "" {
					cmd.Println("main class:", profile.MainClass)
				}
				cmd.Println(profile.LibraryTable(r.Platform()))
				if !profile.CanLaunch() {
					cmd.PrintErrln(color.RedString("instance can't be launched, see 'packprofile list'"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: json, yaml, table")
	return cmd
}
