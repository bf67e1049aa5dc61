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

// Package project models a multi-project build: a root project, its subprojects,
// their lazily registered tasks and properties, and the task graph resolved for a run.
package project

import (
	"errors"
	"fmt"
	"strings"
)

// PathSeparator separates project and task names in paths, e.g. ":core:test".
const PathSeparator = ":"

var (
	ErrDuplicateProject = errors.New("project already exists")
	ErrProjectNotFound  = errors.New("project not found")
)

// Project is a node of the build's project tree.
type Project struct {
	name        string
	path        string
	dir         string
	parent      *Project
	subprojects []*Project
	tasks       *TaskContainer
	properties  map[string]string
	extra       map[string]string
	graph       *TaskGraph
}

// NewRootProject creates the root of a project tree.
func NewRootProject(name string) *Project {
	p := newProject(name, PathSeparator, nil)
	p.graph = newTaskGraph(p)
	return p
}

func newProject(name, path string, parent *Project) *Project {
	p := &Project{
		name:       name,
		path:       path,
		parent:     parent,
		properties: map[string]string{},
		extra:      map[string]string{},
	}
	p.tasks = newTaskContainer(p)
	return p
}

// AddSubproject creates a child project named name.
func (p *Project) AddSubproject(name string) (*Project, error) {
	if name == "" || strings.Contains(name, PathSeparator) {
		return nil, fmt.Errorf("invalid project name %q", name)
	}
	for _, s := range p.subprojects {
		if s.name == name {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProject, s.path)
		}
	}
	sub := newProject(name, joinPath(p.path, name), p)
	p.subprojects = append(p.subprojects, sub)
	return sub, nil
}

func joinPath(parent, name string) string {
	if parent == PathSeparator {
		return PathSeparator + name
	}
	return parent + PathSeparator + name
}

func (p *Project) Name() string { return p.name }

// Path returns the absolute project path, ":" for the root project.
func (p *Project) Path() string { return p.path }

// Dir returns the directory the project's commands run in.
func (p *Project) Dir() string { return p.dir }

func (p *Project) SetDir(dir string) { p.dir = dir }

func (p *Project) Parent() *Project { return p.parent }

func (p *Project) IsRoot() bool { return p.parent == nil }

// RootProject walks up to the root of the tree.
func (p *Project) RootProject() *Project {
	root := p
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Subprojects returns every project below p, depth-first in declaration order.
func (p *Project) Subprojects() []*Project {
	var res []*Project
	for _, s := range p.subprojects {
		res = append(res, s)
		res = append(res, s.Subprojects()...)
	}
	return res
}

// AllProjects returns p followed by all of its subprojects.
func (p *Project) AllProjects() []*Project {
	return append([]*Project{p}, p.Subprojects()...)
}

// FindProject looks up a project by absolute path.
func (p *Project) FindProject(path string) (*Project, error) {
	cur := p.RootProject()
	for _, name := range strings.Split(path, PathSeparator) {
		if name == "" {
			continue
		}
		var next *Project
		for _, s := range cur.subprojects {
			if s.name == name {
				next = s
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, path)
		}
		cur = next
	}
	return cur, nil
}

// Tasks returns the project's task container.
func (p *Project) Tasks() *TaskContainer { return p.tasks }

// Graph returns the task graph shared by the whole build.
func (p *Project) Graph() *TaskGraph { return p.RootProject().graph }

func (p *Project) String() string {
	if p.IsRoot() {
		return fmt.Sprintf("root project '%s'", p.name)
	}
	return fmt.Sprintf("project '%s'", p.path)
}
