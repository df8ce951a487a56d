// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package reload

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
	"mmc.dev/x/packprofile/pkg/stackview"
)

var ErrCantLaunch = fmt.Errorf("instance has errors")

func Cmd(conf *config.Config) *cobra.Command {
	var online bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.Reload),
		Short: "reload every component and refresh the cached names and versions in the pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.Open(conf)
			if err != nil {
				return err
			}

			return inst.Run(cmd.Context(), builtincommand.Reload, online, func(r *packprofile.Resolver) error {
				v := stackview.New(r.Components())
				if v.CanLaunch() {
					cmd.Println(color.GreenString("reloaded %d components", r.Len()))
					return nil
				}
				cmd.PrintErrln(v.Problems())
				cmd.SilenceUsage = true
				return ErrCantLaunch
			})
		},
	}

	cmd.Flags().BoolVar(&online, "online", false, "fetch version files from the metadata server even if cached")
	return cmd
}
