// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package packprofile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mmc.dev/x/packprofile/pkg/gradle"
	"mmc.dev/x/packprofile/pkg/versionfile"
)

const jarModGroup = "org.multimc.jarmods"

type jarModInstall struct {
	src      string
	filename string
	uid      string
	patch    []byte
}

// InstallJarMods copies each jar into the instance and adds one jar mod
// component per jar, ordered after everything present. Either all of them
// are installed or none.
func (r *Resolver) InstallJarMods(paths []string) error {
	staged := r.staged()
	order := freeOrderNumber(staged)

	var installs []jarModInstall
	for _, p := range paths {
		id := uuid.NewString()
		base := filepath.Base(p)
		uid := jarModUIDPrefix + id

		doc := versionfile.New(uid, strings.TrimSuffix(base, filepath.Ext(base))+" (jar mod)")
		o := order
		order++
		doc.Order = &o
		jar := versionfile.NewLibrary(gradle.MustParse(fmt.Sprintf("%s:%s:1", jarModGroup, id)))
		jar.Filename = id + ".jar"
		jar.DisplayName = base
		jar.Hint = versionfile.HintLocal
		doc.JarMods = []*versionfile.Library{jar}

		data, err := versionfile.Serialize(doc)
		if err != nil {
			return err
		}

		c := newComponent(uid, OriginJarMod)
		c.name = doc.Name
		loaded(c, doc, true)
		staged = append(staged, c)
		installs = append(installs, jarModInstall{src: p, filename: jar.Filename, uid: uid, patch: data})
	}

	return r.commit(staged, "install-jarmods", func([]*component) error {
		for i, in := range installs {
			if err := r.install(in); err != nil {
				r.undoInstalls(installs[:i+1])
				return fmt.Errorf("failed to install %s: %w", in.src, err)
			}
		}
		return nil
	})
}

func (r *Resolver) install(in jarModInstall) error {
	if err := r.store.ImportJarMod(in.src, in.filename); err != nil {
		return err
	}
	return r.store.WritePatchFile(in.uid, in.patch)
}

func (r *Resolver) undoInstalls(installs []jarModInstall) {
	for _, in := range installs {
		err := errors.Join(r.store.DeletePatchFile(in.uid), r.store.DeleteJarMod(in.filename))
		if err != nil {
			r.logger.Warn("failed to clean up jar mod", "uid", in.uid, "err", err.Error())
		}
	}
}
