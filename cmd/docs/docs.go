// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	cmd "mmc.dev/x/packprofile/cmd/packprofile/cmd"
	"mmc.dev/x/packprofile/pkg/app"
	"mmc.dev/x/packprofile/pkg/config"
	"mmc.dev/x/packprofile/pkg/utils"
)

var formats = []string{"md", "rst", "man"}

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	if err := docsCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func docsCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "docs <output dir>",
		Short: "generate the packprofile CLI reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if !lo.Contains(formats, format) {
				return fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(formats, ", "))
			}
			c.SilenceUsage = true

			dir := args[0]
			if err := utils.EnsureDirs(dir); err != nil {
				return err
			}
			root, cleanup, err := referenceRoot(c.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := generate(root, dir, format); err != nil {
				return err
			}
			c.Printf("%s reference written to %s\n", format, dir)
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "md", "output format: "+strings.Join(formats, ", "))
	return c
}

// referenceRoot builds the CLI against an empty home, so nothing of the
// local setup ends up in the reference
func referenceRoot(ctx context.Context) (*cobra.Command, func(), error) {
	home, deleteFn, err := utils.MkdirTemp("", "packprofile-docs")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = deleteFn() }

	if err := os.Setenv(config.HomeEnvVar, home); err != nil {
		cleanup()
		return nil, nil, err
	}
	root, err := cmd.RootCmd(ctx, &app.App{OsArgs: []string{cmd.Name}})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	root.DisableAutoGenTag = true
	if f := root.PersistentFlags().Lookup("instance"); f != nil {
		f.DefValue = "."
	}
	return root, cleanup, nil
}

func generate(root *cobra.Command, dir, format string) error {
	switch format {
	case "rst":
		if err := doc.GenReSTTreeCustom(root, dir, rstHeader, rstLink); err != nil {
			return err
		}
		return writeRSTIndex(dir)
	case "man":
		return doc.GenManTree(root, &doc.GenManHeader{Title: strings.ToUpper(cmd.Name), Section: "1"}, dir)
	default:
		return doc.GenMarkdownTreeCustom(root, dir, frontMatter, func(s string) string { return s })
	}
}

func title(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return strings.ReplaceAll(base, "_", " ")
}

func frontMatter(filename string) string {
	return fmt.Sprintf("---\nlayout: default\ntitle: %s\nparent: CLI reference\n---\n\n", title(filename))
}

func rstHeader(filename string) string {
	t := title(filename)
	return fmt.Sprintf("%s\n%s\n\n", t, strings.Repeat("=", len(t)))
}

func rstLink(name, ref string) string {
	return fmt.Sprintf(":ref:`%s <%s>`", name, ref)
}

func writeRSTIndex(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	pages := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		name := e.Name()
		return strings.TrimSuffix(name, ".rst"), filepath.Ext(name) == ".rst" && name != "index.rst"
	})
	slices.Sort(pages)

	var b strings.Builder
	b.WriteString(".. toctree::\n   :maxdepth: 2\n   :caption: CLI Reference:\n\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "   %s\n", p)
	}
	return utils.WriteFileAtomic(filepath.Join(dir, "index.rst"), []byte(b.String()))
}
