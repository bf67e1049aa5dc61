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

// Package buildtype implements build types: named, mutually exclusive build
// configurations that select which tasks run and which project properties apply.
package buildtype

import (
	"fmt"
	"sort"
	"strings"
)

// BuildType is a named build configuration.
type BuildType struct {
	Name string

	taskNames  []string
	properties map[string]string
	finalized  bool
	active     bool
}

func newBuildType(name string) *BuildType {
	return &BuildType{Name: name, properties: map[string]string{}}
}

// Tasks appends task names to run when the build type is active.
// Names starting with ":" are absolute task paths.
func (bt *BuildType) Tasks(names ...string) {
	bt.taskNames = append(bt.taskNames, names...)
}

// TaskNames returns the configured task names.
func (bt *BuildType) TaskNames() []string {
	return append([]string(nil), bt.taskNames...)
}

// SetProjectProperty records a property applied to projects running this build type.
//
// It fails with ErrFinalized once the build type has been activated.
func (bt *BuildType) SetProjectProperty(name, value string) error {
	if bt.finalized {
		return fmt.Errorf("%w: %s", ErrFinalized, bt.Name)
	}
	bt.properties[name] = value
	return nil
}

// ProjectProperties returns a copy of the configured project properties.
func (bt *BuildType) ProjectProperties() map[string]string {
	res := make(map[string]string, len(bt.properties))
	for k, v := range bt.properties {
		res[k] = v
	}
	return res
}

func (bt *BuildType) propertyNames() []string {
	names := make([]string, 0, len(bt.properties))
	for k := range bt.properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Active reports whether the build type was selected for the current build.
func (bt *BuildType) Active() bool { return bt.active }

func (bt *BuildType) String() string {
	return fmt.Sprintf("%s(tasks=[%s])", bt.Name, strings.Join(bt.taskNames, ", "))
}
