// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package toolversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	assert.Equal(t, "unknown", Get().Version)
	assert.Equal(t, "packprofile/unknown", UserAgent())

	Version = "1.2.3"
	assert.Equal(t, "1.2.3", Get().Version)
	assert.Equal(t, "packprofile/1.2.3", UserAgent())
}
