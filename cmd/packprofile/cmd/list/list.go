// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package list

import (
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
	"mmc.dev/x/packprofile/pkg/stackview"
	"mmc.dev/x/packprofile/pkg/utils"
)

func Cmd(conf *config.Config) *cobra.Command {
	var online, showProblems bool
	var output string

	cmd := &cobra.Command{
		Use:   string(builtincommand.List),
		Short: "list the components of the instance in merge order",
		Long: `list the components of the instance in merge order

	customized components are marked with a '*', components that failed to load are dimmed.
`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.Open(conf)
			if err != nil {
				return err
			}

			return inst.Run(cmd.Context(), builtincommand.List, online, func(r *packprofile.Resolver) error {
				v := stackview.New(r.Components())
				if output != "table" {
					return utils.PrintStructured(cmd, output, v)
				}

				cmd.Println(v.Table())
				if problems := v.Problems(); showProblems && problems != "" {
					cmd.Println(problems)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&online, "online", false, "refresh version files from the metadata server")
	cmd.Flags().BoolVarP(&showProblems, "problems", "p", true, "print the problems of every component")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: json, yaml, table")
	return cmd
}
