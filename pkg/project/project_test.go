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
	"testing"

	"gotest.tools/assert"
)

func newTestBuild(t *testing.T) *Project {
	t.Helper()
	root := NewRootProject("demo")
	core, err := root.AddSubproject("core")
	assert.NilError(t, err)
	_, err = core.AddSubproject("api")
	assert.NilError(t, err)
	_, err = root.AddSubproject("docs")
	assert.NilError(t, err)
	return root
}

func TestProjectTree(t *testing.T) {
	root := newTestBuild(t)

	var paths []string
	for _, p := range root.AllProjects() {
		paths = append(paths, p.Path())
	}
	assert.DeepEqual(t, []string{":", ":core", ":core:api", ":docs"}, paths)

	api, err := root.FindProject(":core:api")
	assert.NilError(t, err)
	assert.Equal(t, "api", api.Name())
	assert.Equal(t, root, api.RootProject())
	assert.Assert(t, !api.IsRoot())

	_, err = root.FindProject(":missing")
	assert.Assert(t, errors.Is(err, ErrProjectNotFound))

	_, err = root.AddSubproject("core")
	assert.Assert(t, errors.Is(err, ErrDuplicateProject))
}

func TestProjectProperties(t *testing.T) {
	root := newTestBuild(t)
	root.DeclareProperty("level", "full")
	core, _ := root.FindProject(":core")
	api, _ := root.FindProject(":core:api")

	v, ok := api.Property("level")
	assert.Assert(t, ok)
	assert.Equal(t, "full", v)

	assert.NilError(t, core.SetProperty("level", "quick"))
	v, _ = api.Property("level")
	assert.Equal(t, "quick", v)
	v, _ = root.Property("level")
	assert.Equal(t, "full", v)

	err := core.SetProperty("missing", "x")
	assert.Assert(t, errors.Is(err, ErrUnknownProperty))

	api.SetExtraProperty("retries", "3")
	assert.DeepEqual(t, map[string]string{"level": "quick", "retries": "3"}, api.EffectiveProperties())
	assert.DeepEqual(t, []string{"level", "retries"}, api.PropertyNames())
	assert.Assert(t, !core.HasProperty("retries"))
}

func TestTaskRegistrationIsLazy(t *testing.T) {
	root := NewRootProject("demo")
	configured := 0
	tp, err := root.Tasks().Register("compile")
	assert.NilError(t, err)
	tp.Configure(func(t *Task) {
		configured++
		t.Group = "build"
	})

	assert.DeepEqual(t, []string{"compile"}, root.Tasks().Names())
	assert.Equal(t, 0, configured)
	assert.Assert(t, !tp.IsRealized())

	task := root.Tasks().FindByName("compile")
	assert.Assert(t, task != nil)
	assert.Equal(t, "build", task.Group)
	assert.Equal(t, ":compile", task.Path())
	root.Tasks().FindByName("compile")
	assert.Equal(t, 1, configured)

	tp.Configure(func(t *Task) { t.Description = "late" })
	assert.Equal(t, "late", task.Description)

	assert.Assert(t, root.Tasks().FindByName("missing") == nil)

	_, err = root.Tasks().Register("compile")
	assert.Assert(t, errors.Is(err, ErrDuplicateTask))
}

func register(t *testing.T, p *Project, name string, deps ...string) {
	t.Helper()
	tp, err := p.Tasks().Register(name)
	assert.NilError(t, err)
	tp.Configure(func(task *Task) {
		task.DependsOn(deps...)
	})
}

func paths(tasks []*Task) []string {
	var res []string
	for _, t := range tasks {
		res = append(res, t.Path())
	}
	return res
}

func TestGraphPopulate(t *testing.T) {
	tests := map[string]struct {
		requested []string
		want      []string
		err       error
	}{
		"plain name selects the task in every project": {
			requested: []string{"test"},
			want:      []string{":core:compile", ":core:test", ":core:api:compile", ":core:api:test"},
		},
		"absolute path selects a single task": {
			requested: []string{":core:api:test"},
			want:      []string{":core:api:compile", ":core:api:test"},
		},
		"absolute dependency on another project": {
			requested: []string{"site"},
			want:      []string{":core:compile", ":docs:site"},
		},
		"unknown task": {
			requested: []string{"deploy"},
			err:       ErrTaskNotFound,
		},
		"unknown dependency": {
			requested: []string{":docs:broken"},
			err:       ErrUnknownTask,
		},
		"cycle": {
			requested: []string{":docs:a"},
			err:       ErrCycle,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := newTestBuild(t)
			core, _ := root.FindProject(":core")
			api, _ := root.FindProject(":core:api")
			docs, _ := root.FindProject(":docs")
			register(t, core, "compile")
			register(t, core, "test", "compile")
			register(t, api, "compile")
			register(t, api, "test", "compile")
			register(t, docs, "site", ":core:compile")
			register(t, docs, "broken", "nope")
			register(t, docs, "a", "b")
			register(t, docs, "b", "a")

			err := root.Graph().Populate(tt.requested...)
			if tt.err != nil {
				assert.Assert(t, errors.Is(err, tt.err), "got %v", err)
				assert.Assert(t, !root.Graph().IsReady())
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, tt.want, paths(root.Graph().Tasks()))
			for _, p := range tt.want {
				assert.Assert(t, root.Graph().HasTask(p))
			}
		})
	}
}

func TestGraphWhenReady(t *testing.T) {
	root := newTestBuild(t)
	register(t, root, "build")
	hookErr := errors.New("boom")

	var calls []string
	root.Graph().WhenReady(func(g *TaskGraph) error {
		calls = append(calls, "first")
		assert.Equal(t, 1, len(g.Tasks()))
		return nil
	})
	core, _ := root.FindProject(":core")
	core.Graph().WhenReady(func(*TaskGraph) error {
		calls = append(calls, "second")
		return hookErr
	})

	err := root.Graph().Populate("build")
	assert.Assert(t, errors.Is(err, hookErr))
	assert.DeepEqual(t, []string{"first", "second"}, calls)

	err = root.Graph().Populate("build")
	assert.Assert(t, errors.Is(err, ErrGraphReady))
}
