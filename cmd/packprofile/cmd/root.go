// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"mmc.dev/x/packprofile/cmd/packprofile/cmd/edit"
	"mmc.dev/x/packprofile/cmd/packprofile/cmd/jarmod"
	"mmc.dev/x/packprofile/cmd/packprofile/cmd/list"
	"mmc.dev/x/packprofile/cmd/packprofile/cmd/reload"
	"mmc.dev/x/packprofile/cmd/packprofile/cmd/snapshot"
	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/builtincommand"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/logging"
	"mmc.dev/x/packprofile/pkg/toolversion"
)

const (
	inspectGroupId = "inspect"
	editGroupId    = "edit"
	Name           = "packprofile"
)

func RootCmd(ctx context.Context, a *app.App) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   Name,
		Short: "inspect and edit the component stack of an instance",
	}

	defer a.SetOutputStreams(cmd)

	if len(a.OsArgs) == 0 {
		return nil, fmt.Errorf("App.OsArgs must contain at least one entry similar to os.Args")
	}

	cmd.SetArgs(a.OsArgs[1:])
	cmd.AddGroup(&cobra.Group{
		ID:    inspectGroupId,
		Title: "Inspect Commands",
	})
	cmd.AddGroup(&cobra.Group{
		ID:    editGroupId,
		Title: "Edit Commands",
	})

	if err := logging.InitLogging(); err != nil {
		return nil, err
	}

	conf, err := config.Get()
	if err != nil {
		return nil, err
	}
	if err := conf.EnsureDirs(); err != nil {
		return nil, err
	}

	cmd.PersistentFlags().StringVarP(&conf.InstancePath, "instance", "i", conf.InstancePath, "instance directory to operate on")

	cmd.AddCommand(
		setGroup(list.Cmd(conf), inspectGroupId),
		setGroup(snapshot.Cmd(conf), inspectGroupId),
		setGroup(reload.Cmd(conf), inspectGroupId),
		setGroup(edit.AddCmd(conf), editGroupId),
		setGroup(edit.RemoveCmd(conf), editGroupId),
		setGroup(edit.MoveCmd(conf), editGroupId),
		setGroup(edit.CustomizeCmd(conf), editGroupId),
		setGroup(edit.RevertCmd(conf), editGroupId),
		setGroup(edit.SetVersionCmd(conf), editGroupId),
		setGroup(edit.ResetOrderCmd(conf), editGroupId),
		setGroup(jarmod.Cmd(conf), editGroupId),
	)

	version, err := yaml.Marshal(toolversion.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(version)
	cmd.SetVersionTemplate("{{.Version}}")
	cmd.AddCommand(setGroup(&cobra.Command{
		Use:   string(builtincommand.Version),
		Short: "show the packprofile version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			c.Print(string(version))
		},
	}, inspectGroupId))

	return cmd, nil
}

func setGroup(cmd *cobra.Command, groupId string) *cobra.Command {
	cmd.GroupID = groupId
	return cmd
}
