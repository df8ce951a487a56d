// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package edit holds the commands changing the component stack of an instance
package edit

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/packprofile"
)

var ErrInvalidDirection = fmt.Errorf("direction must be 'up' or 'down'")

// run opens the instance and applies change under the instance lock
func run(cmd *cobra.Command, conf *config.Config, command builtincommand.BuiltinCommand, change func(inst *app.Instance, r *packprofile.Resolver) error) error {
	inst, err := app.Open(conf)
	if err != nil {
		return err
	}
	return inst.Run(cmd.Context(), command, false, func(r *packprofile.Resolver) error {
		if err := change(inst, r); err != nil {
			cmd.SilenceUsage = true
			return err
		}
		return nil
	})
}

// withIndex is run for commands taking a uid or stack index as first argument
func withIndex(cmd *cobra.Command, conf *config.Config, command builtincommand.BuiltinCommand, arg string, change func(r *packprofile.Resolver, index int) error) error {
	return run(cmd, conf, command, func(inst *app.Instance, r *packprofile.Resolver) error {
		index, err := inst.ComponentIndex(arg)
		if err != nil {
			return err
		}
		return change(r, index)
	})
}

func AddCmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.Add) + " <uid> [name]",
		Short: "add an empty local component",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, name := args[0], args[0]
			if len(args) > 1 {
				name = args[1]
			}
			return run(cmd, conf, builtincommand.Add, func(_ *app.Instance, r *packprofile.Resolver) error {
				if err := r.AddEmpty(uid, name); err != nil {
					return err
				}
				cmd.Println(color.GreenString("added %s", uid))
				return nil
			})
		},
	}
}

func RemoveCmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     string(builtincommand.Remove) + " <uid|index>",
		Short:   "remove a component and its files",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIndex(cmd, conf, builtincommand.Remove, args[0], func(r *packprofile.Resolver, index int) error {
				if err := r.Remove(index); err != nil {
					return err
				}
				cmd.Println(color.GreenString("removed %s", args[0]))
				return nil
			})
		},
	}
}

func MoveCmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.Move) + " <uid|index> <up|down>",
		Short: "swap a component with its neighbour",
		Long: `swap a component with its neighbour

	moving persists the whole order of the stack, use 'reset-order' to go back to the order of the version files.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var direction packprofile.Direction
			switch args[1] {
			case packprofile.Up.String():
				direction = packprofile.Up
			case packprofile.Down.String():
				direction = packprofile.Down
			default:
				return ErrInvalidDirection
			}
			return withIndex(cmd, conf, builtincommand.Move, args[0], func(r *packprofile.Resolver, index int) error {
				return r.Move(index, direction)
			})
		},
	}
}

func ResetOrderCmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.ResetOrder),
		Short: "forget the order set by 'move'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, conf, builtincommand.ResetOrder, func(_ *app.Instance, r *packprofile.Resolver) error {
				return r.ResetOrder()
			})
		},
	}
}

func CustomizeCmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.Customize) + " <uid|index>",
		Short: "copy a component's version file into the instance for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIndex(cmd, conf, builtincommand.Customize, args[0], func(r *packprofile.Resolver, index int) error {
				if err := r.Customize(index); err != nil {
					return err
				}
				cmd.Println(color.GreenString("customized %s, edit it in the instance's patches directory", args[0]))
				return nil
			})
		},
	}
}

func RevertCmd(conf *config.Config) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.Revert) + " [uid|index]",
		Short: "drop the customization of a component",
		Long: `drop the customization of a component

	with --all every customized component is reverted and local components are removed.
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return run(cmd, conf, builtincommand.Revert, func(_ *app.Instance, r *packprofile.Resolver) error {
					return r.RevertToVanilla(cmd.Context())
				})
			}
			return withIndex(cmd, conf, builtincommand.Revert, args[0], func(r *packprofile.Resolver, index int) error {
				return r.RevertToBase(cmd.Context(), index)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "A", false, "revert the whole instance to vanilla")
	return cmd
}

func SetVersionCmd(conf *config.Config) *cobra.Command {
	var important, online bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.SetVersion) + " <uid> <version>",
		Short: "pin a component to another version",
		Long: `pin a component to another version

	the version file is fetched by the next online reload, or right away with --online.
	an important version is kept even if other components require something else.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, conf, builtincommand.SetVersion, func(inst *app.Instance, r *packprofile.Resolver) error {
				if err := r.SetComponentVersion(args[0], args[1], important); err != nil {
					return err
				}
				if !online {
					return nil
				}
				return r.Resolve(cmd.Context(), inst.Mode(true))
			})
		},
	}

	cmd.Flags().BoolVar(&important, "important", false, "keep this version even if others require a different one")
	cmd.Flags().BoolVar(&online, "online", false, "fetch the new version file right away")
	return cmd
}
