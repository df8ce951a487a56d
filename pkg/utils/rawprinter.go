// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var ErrUnsupportedOutput = fmt.Errorf("output format not supported")

type RawPrinter interface {
	Println(i ...interface{})
	PrintErrln(i ...interface{})
}

var _ RawPrinter = (*cobra.Command)(nil)

// PrintStructured prints v as json or yaml
func PrintStructured(p RawPrinter, format string, v any) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "    ")
	case "yaml":
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, format)
	}
	if err != nil {
		return err
	}
	p.Println(string(data))
	return nil
}
