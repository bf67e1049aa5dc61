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
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUnknownTask  = errors.New("unknown task dependency")
	ErrCycle        = errors.New("circular dependency between tasks")
	ErrGraphReady   = errors.New("task graph already populated")
)

// TaskGraph is the ordered set of tasks selected for a run.
type TaskGraph struct {
	root  *Project
	hooks []func(*TaskGraph) error
	order []*Task
	index map[string]*Task
	ready bool
}

func newTaskGraph(root *Project) *TaskGraph {
	return &TaskGraph{root: root, index: map[string]*Task{}}
}

// WhenReady registers a hook run once the graph is populated.
func (g *TaskGraph) WhenReady(hook func(*TaskGraph) error) {
	g.hooks = append(g.hooks, hook)
}

// Populate selects the requested tasks and their dependencies, then runs the ready hooks.
//
// A path like ":core:test" selects exactly that task, a plain name selects the task
// with that name in every project having it.
func (g *TaskGraph) Populate(requested ...string) error {
	if g.ready {
		return ErrGraphReady
	}
	var selected []*Task
	for _, name := range requested {
		tasks, err := g.selectTasks(name)
		if err != nil {
			return err
		}
		selected = append(selected, tasks...)
	}

	state := map[*Task]int{}
	var stack []*Task
	var visit func(t *Task) error
	visit = func(t *Task) error {
		switch state[t] {
		case visited:
			return nil
		case visiting:
			return cycleError(stack, t)
		}
		state[t] = visiting
		stack = append(stack, t)
		for _, dep := range t.Dependencies() {
			d, err := g.resolve(t.project, dep)
			if err != nil {
				return fmt.Errorf("%w %q of %s", ErrUnknownTask, dep, t)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[t] = visited
		g.order = append(g.order, t)
		g.index[t.Path()] = t
		return nil
	}
	for _, t := range selected {
		if err := visit(t); err != nil {
			g.order = nil
			g.index = map[string]*Task{}
			return err
		}
	}

	g.ready = true
	logger.WithField("tasks", len(g.order)).Debug("task graph ready")
	for _, hook := range g.hooks {
		if err := hook(g); err != nil {
			return err
		}
	}
	return nil
}

const (
	unvisited = iota
	visiting
	visited
)

func cycleError(stack []*Task, t *Task) error {
	var names []string
	start := 0
	for i, s := range stack {
		if s == t {
			start = i
			break
		}
	}
	for _, s := range stack[start:] {
		names = append(names, s.Path())
	}
	names = append(names, t.Path())
	return fmt.Errorf("%w: %s", ErrCycle, strings.Join(names, " -> "))
}

func (g *TaskGraph) selectTasks(name string) ([]*Task, error) {
	if strings.HasPrefix(name, PathSeparator) {
		t, err := g.findTask(name)
		if err != nil {
			return nil, err
		}
		return []*Task{t}, nil
	}
	var res []*Task
	for _, p := range g.root.AllProjects() {
		if t := p.tasks.FindByName(name); t != nil {
			res = append(res, t)
		}
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: '%s' in %s and its subprojects", ErrTaskNotFound, name, g.root)
	}
	return res, nil
}

// resolve finds a dependency either by absolute path or inside the given project.
func (g *TaskGraph) resolve(p *Project, name string) (*Task, error) {
	if strings.HasPrefix(name, PathSeparator) {
		return g.findTask(name)
	}
	if t := p.tasks.FindByName(name); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: '%s' in %s", ErrTaskNotFound, name, p)
}

func (g *TaskGraph) findTask(path string) (*Task, error) {
	i := strings.LastIndex(path, PathSeparator)
	projectPath, name := path[:i], path[i+1:]
	if projectPath == "" {
		projectPath = PathSeparator
	}
	p, err := g.root.FindProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrTaskNotFound, path)
	}
	t := p.tasks.FindByName(name)
	if t == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrTaskNotFound, path)
	}
	return t, nil
}

// Tasks returns the selected tasks, every task after its dependencies.
func (g *TaskGraph) Tasks() []*Task {
	return append([]*Task(nil), g.order...)
}

// HasTask reports whether the task with the given absolute path is part of the graph.
func (g *TaskGraph) HasTask(path string) bool {
	_, ok := g.index[path]
	return ok
}

// IsReady reports whether Populate completed.
func (g *TaskGraph) IsReady() bool { return g.ready }
