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
	"time"

	logger "github.com/sirupsen/logrus"
)

var ErrDuplicateTask = errors.New("task already registered")

// Task is a unit of work of a project.
type Task struct {
	Name        string
	Group       string
	Description string
	// Command is run with a shell, tasks without one only aggregate their dependencies.
	Command string
	Timeout time.Duration

	project   *Project
	dependsOn []func() []string
}

// Project returns the project owning the task.
func (t *Task) Project() *Project { return t.project }

// Path returns the absolute task path, e.g. ":core:test".
func (t *Task) Path() string {
	return joinPath(t.project.path, t.Name)
}

// DependsOn adds task names or absolute task paths the task depends on.
func (t *Task) DependsOn(names ...string) {
	deps := append([]string(nil), names...)
	t.dependsOn = append(t.dependsOn, func() []string { return deps })
}

// DependsOnFunc adds dependencies computed when the task graph is built.
func (t *Task) DependsOnFunc(provider func() []string) {
	t.dependsOn = append(t.dependsOn, provider)
}

// Dependencies evaluates every declared dependency in declaration order.
func (t *Task) Dependencies() []string {
	var res []string
	for _, provider := range t.dependsOn {
		res = append(res, provider()...)
	}
	return res
}

func (t *Task) String() string {
	return fmt.Sprintf("task '%s'", t.Path())
}

// TaskProvider is a registered task that is created only when first needed.
type TaskProvider struct {
	name    string
	project *Project
	actions []func(*Task)
	task    *Task
}

func (tp *TaskProvider) Name() string { return tp.name }

// Configure queues an action run when the task is realized.
// If the task is already realized the action runs immediately.
func (tp *TaskProvider) Configure(action func(*Task)) {
	if tp.task != nil {
		action(tp.task)
		return
	}
	tp.actions = append(tp.actions, action)
}

// IsRealized reports whether the task has been created.
func (tp *TaskProvider) IsRealized() bool { return tp.task != nil }

// Get realizes the task, running the queued configuration actions once.
func (tp *TaskProvider) Get() *Task {
	if tp.task != nil {
		return tp.task
	}
	tp.task = &Task{Name: tp.name, project: tp.project}
	actions := tp.actions
	tp.actions = nil
	for _, action := range actions {
		action(tp.task)
	}
	logger.WithFields(logger.Fields{
		"task":    tp.task.Path(),
		"actions": len(actions),
	}).Debug("task realized")
	return tp.task
}

// TaskContainer holds the tasks registered on a project.
type TaskContainer struct {
	project   *Project
	order     []string
	providers map[string]*TaskProvider
}

func newTaskContainer(p *Project) *TaskContainer {
	return &TaskContainer{
		project:   p,
		providers: map[string]*TaskProvider{},
	}
}

// Register adds a lazily created task.
func (tc *TaskContainer) Register(name string) (*TaskProvider, error) {
	if name == "" {
		return nil, fmt.Errorf("task name on %s must not be empty", tc.project)
	}
	if _, ok := tc.providers[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, joinPath(tc.project.path, name))
	}
	tp := &TaskProvider{name: name, project: tc.project}
	tc.providers[name] = tp
	tc.order = append(tc.order, name)
	return tp, nil
}

// Named returns the provider registered as name without realizing it.
func (tc *TaskContainer) Named(name string) (*TaskProvider, bool) {
	tp, ok := tc.providers[name]
	return tp, ok
}

// Has reports whether name is registered.
func (tc *TaskContainer) Has(name string) bool {
	_, ok := tc.providers[name]
	return ok
}

// FindByName realizes and returns the task, or nil when there is no such task.
func (tc *TaskContainer) FindByName(name string) *Task {
	tp, ok := tc.providers[name]
	if !ok {
		return nil
	}
	return tp.Get()
}

// Names returns the registered task names in registration order.
func (tc *TaskContainer) Names() []string {
	return append([]string(nil), tc.order...)
}
