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

package cmd

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/falcosecurity/buildtypes/pkg/buildtype"
	"github.com/falcosecurity/buildtypes/pkg/project"
	"github.com/falcosecurity/buildtypes/pkg/output"
	"github.com/falcosecurity/buildtypes/validate"
	"github.com/spf13/pflag"
)

// RootOptions represent the flags locating the build description.
type RootOptions struct {
	BuildFile string `validate:"required" default:"build.yaml" name:"build file"`
}

// NewRootOptions creates an instance of RootOptions.
func NewRootOptions() (*RootOptions, error) {
	rootOpts := &RootOptions{}
	if err := defaults.Set(rootOpts); err != nil {
		return nil, fmt.Errorf("error setting buildtypes options defaults: %w", err)
	}
	return rootOpts, nil
}

// AddFlags registers the root flags.
func (ro *RootOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&ro.BuildFile, "build-file", "f", ro.BuildFile, "build description file")
}

// Validate validates the RootOptions fields.
func (ro *RootOptions) Validate() []error {
	return validate.Errors(validate.V.Struct(ro))
}

// Log emits a log line containing the receiving RootOptions for debugging purposes.
//
// Call it only after validation.
func (ro *RootOptions) Log(printer *output.Printer) {
	printer.Logger.Debug("running with options",
		printer.Logger.Args("build-file", ro.BuildFile))
}

// Load reads the build description and applies its build types to the project tree.
func (ro *RootOptions) Load() (*project.Project, *buildtype.Container, error) {
	root, spec, err := project.Load(ro.BuildFile)
	if err != nil {
		return nil, nil, err
	}
	container := buildtype.NewContainer()
	if err := buildtype.Apply(root, container); err != nil {
		return nil, nil, err
	}
	if err := buildtype.CreateFromSpecs(container, spec.BuildTypes); err != nil {
		return nil, nil, err
	}
	return root, container, nil
}
