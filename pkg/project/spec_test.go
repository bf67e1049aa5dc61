// SPDX-License-Identifier: Apache-2.0
/*
Copyright (C) 2024 The Falco Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
    http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package project

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestLoad(t *testing.T) {
	root, spec, err := Load("testdata/build.yaml")
	assert.NilError(t, err)

	base, err := filepath.Abs("testdata")
	assert.NilError(t, err)
	assert.Equal(t, "demo", root.Name())
	assert.Equal(t, base, root.Dir())
	assert.Equal(t, 2, len(spec.BuildTypes))
	assert.DeepEqual(t, []string{"test", ":docs:lint"}, spec.BuildTypes[1].Tasks)

	core, err := root.FindProject(":core")
	assert.NilError(t, err)
	assert.Equal(t, filepath.Join(base, "core"), core.Dir())
	assert.DeepEqual(t, []string{"compile", "test"}, core.Tasks().Names())

	test := core.Tasks().FindByName("test")
	assert.Equal(t, "go test ./...", test.Command)
	assert.Equal(t, 10*time.Minute, test.Timeout)
	assert.DeepEqual(t, []string{"compile"}, test.Dependencies())

	docs, err := root.FindProject(":docs")
	assert.NilError(t, err)
	assert.Equal(t, filepath.Join(base, "documentation"), docs.Dir())

	v, ok := core.Property("testLevel")
	assert.Assert(t, ok)
	assert.Equal(t, "default", v)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		yaml    string
		err     error
		contain string
	}{
		"missing version": {
			yaml:    "name: demo\n",
			err:     ErrInvalidBuildSpec,
			contain: "version is a required field",
		},
		"unsupported version": {
			yaml: "version: 2.1.0\nname: demo\n",
			err:  ErrUnsupportedSpecVersion,
		},
		"unknown field": {
			yaml: "version: 1.0.0\nname: demo\nplugins: []\n",
			err:  ErrInvalidBuildSpec,
		},
		"invalid task name": {
			yaml:    "version: 1.0.0\nname: demo\ntasks:\n  - name: \"a:b\"\n",
			err:     ErrInvalidBuildSpec,
			contain: "task name must start with a letter",
		},
		"invalid timeout": {
			yaml:    "version: 1.0.0\nname: demo\ntasks:\n  - name: a\n    timeout: soon\n",
			err:     ErrInvalidBuildSpec,
			contain: "task timeout must be a valid duration",
		},
		"duplicate task": {
			yaml: "version: 1.0.0\nname: demo\ntasks:\n  - name: a\n  - name: a\n",
			err:  ErrInvalidBuildSpec,
		},
		"duplicate subproject": {
			yaml: "version: 1.0.0\nname: demo\nsubprojects:\n  - name: a\n  - name: a\n",
			err:  ErrInvalidBuildSpec,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(strings.NewReader(tt.yaml), "/tmp")
			assert.Assert(t, errors.Is(err, tt.err), "got %v", err)
			if tt.contain != "" {
				assert.ErrorContains(t, err, tt.contain)
			}
		})
	}
}
