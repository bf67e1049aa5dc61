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

	"github.com/falcosecurity/buildtypes/validate"
)

var (
	ErrDuplicateBuildType = errors.New("build type already exists")
	ErrInvalidName        = errors.New("invalid build type name")
	ErrFinalized          = errors.New("project properties already applied")
)

// Container is the ordered collection of the build types of a build.
type Container struct {
	order   []*BuildType
	byName  map[string]*BuildType
	actions []func(*BuildType) error
}

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{byName: map[string]*BuildType{}}
}

// Create adds a build type and runs the All actions on it.
//
// The build type is not kept when one of the actions fails.
func (c *Container) Create(name string, configure ...func(*BuildType)) (*BuildType, error) {
	if !validate.IsTaskName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, ok := c.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBuildType, name)
	}
	bt := newBuildType(name)
	for _, cfg := range configure {
		cfg(bt)
	}
	for _, action := range c.actions {
		if err := action(bt); err != nil {
			return nil, fmt.Errorf("error configuring build type %s: %w", name, err)
		}
	}
	c.order = append(c.order, bt)
	c.byName[name] = bt
	return bt, nil
}

// All runs action on every build type, including the ones created later.
func (c *Container) All(action func(*BuildType) error) error {
	c.actions = append(c.actions, action)
	for _, bt := range c.order {
		if err := action(bt); err != nil {
			return fmt.Errorf("error configuring build type %s: %w", bt.Name, err)
		}
	}
	return nil
}

// Get returns the build type called name.
func (c *Container) Get(name string) (*BuildType, bool) {
	bt, ok := c.byName[name]
	return bt, ok
}

// List returns the build types in creation order.
func (c *Container) List() []*BuildType {
	return append([]*BuildType(nil), c.order...)
}

// Names returns the build type names in creation order.
func (c *Container) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, bt := range c.order {
		names = append(names, bt.Name)
	}
	return names
}

// ActiveBuildTypes returns the build types selected for the current build.
func (c *Container) ActiveBuildTypes() []*BuildType {
	var res []*BuildType
	for _, bt := range c.order {
		if bt.active {
			res = append(res, bt)
		}
	}
	return res
}
