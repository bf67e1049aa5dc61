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

package buildtype

import (
	"errors"
	"fmt"
	"strings"

	"github.com/falcosecurity/buildtypes/pkg/project"
	logger "github.com/sirupsen/logrus"
)

// TaskGroup is the group of the tasks registered for build types.
const TaskGroup = "Build Type"

var (
	ErrNotRootProject           = errors.New("build types can only be applied to the root project")
	ErrMultipleActiveBuildTypes = errors.New("you can only have one active build type at a time")
)

// Apply wires the build types of c into the project tree rooted at p.
//
// Every subproject gets a task named after each build type. Realizing that task
// activates the build type and applies its project properties to the subproject.
// Once the task graph is ready at most one build type may be active.
func Apply(p *project.Project, c *Container) error {
	if !p.IsRoot() {
		return fmt.Errorf("%w: %s", ErrNotRootProject, p)
	}
	err := c.All(func(bt *BuildType) error {
		bt.active = false
		subs := p.Subprojects()
		// check every subproject first, nothing is registered for a rejected build type
		for _, sub := range subs {
			if sub.Tasks().Has(bt.Name) {
				return fmt.Errorf("%w: %s%s%s", project.ErrDuplicateTask, sub.Path(), project.PathSeparator, bt.Name)
			}
		}
		for _, sub := range subs {
			if err := registerTask(sub, bt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Graph().WhenReady(func(*project.TaskGraph) error {
		return CheckSingleActive(c)
	})
	return nil
}

func registerTask(sub *project.Project, bt *BuildType) error {
	tp, err := sub.Tasks().Register(bt.Name)
	if err != nil {
		return err
	}
	tp.Configure(func(t *project.Task) {
		t.Group = TaskGroup
		t.Description = fmt.Sprintf("Run %s build type", bt.Name)
		t.DependsOnFunc(func() []string {
			var deps []string
			for _, name := range bt.TaskNames() {
				if strings.HasPrefix(name, project.PathSeparator) || sub.Tasks().Has(name) {
					deps = append(deps, name)
				}
			}
			return deps
		})

		// realizing the task means it is going to run
		bt.active = true
		bt.finalized = true
		for _, name := range bt.propertyNames() {
			setOrCreateProperty(sub, name, bt.properties[name])
		}
		logger.WithFields(logger.Fields{
			"buildtype": bt.Name,
			"project":   sub.Path(),
		}).Debug("build type activated")
	})
	return nil
}

func setOrCreateProperty(p *project.Project, name, value string) {
	if p.HasProperty(name) {
		// cannot fail, the property exists
		_ = p.SetProperty(name, value)
		return
	}
	p.SetExtraProperty(name, value)
}

// CheckSingleActive fails when more than one build type of c is active.
func CheckSingleActive(c *Container) error {
	active := c.ActiveBuildTypes()
	if len(active) <= 1 {
		return nil
	}
	names := make([]string, 0, len(active))
	for _, bt := range active {
		names = append(names, bt.Name)
	}
	return fmt.Errorf("%w. Active: [%s]", ErrMultipleActiveBuildTypes, strings.Join(names, ", "))
}

// CreateFromSpecs adds the build types declared in a build description.
func CreateFromSpecs(c *Container, specs []project.BuildTypeSpec) error {
	for _, s := range specs {
		s := s
		_, err := c.Create(s.Name, func(bt *BuildType) {
			bt.Tasks(s.Tasks...)
			for k, v := range s.Properties {
				bt.properties[k] = v
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
