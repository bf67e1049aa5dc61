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
	"strings"

	"github.com/falcosecurity/buildtypes/pkg/executor"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the `buildtypes run` command.
func NewRunCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <task>...",
		Short: "Resolve the requested tasks and build types and run them.",
		Long: `Resolve the requested tasks and build types and run them.

A plain task name selects the task in every project having it, a path like :core:test
selects a single task. Requesting a build type runs the tasks it is configured with in
every subproject; at most one build type can be requested at a time.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeTaskNames(rootOpts),
		RunE: func(c *cobra.Command, args []string) error {
			root, container, err := rootOpts.Load()
			if err != nil {
				return err
			}
			if err := root.Graph().Populate(args...); err != nil {
				return err
			}
			for _, bt := range container.ActiveBuildTypes() {
				configOpts.Printer.Logger.Info("build type active",
					configOpts.Printer.Logger.Args("name", bt.Name, "tasks", strings.Join(bt.TaskNames(), ",")))
			}

			tasks := root.Graph().Tasks()
			for i, t := range tasks {
				configOpts.Printer.Logger.Info("planned task",
					configOpts.Printer.Logger.Args("step", i+1, "task", t.Path(), "command", t.Command))
			}

			var processor executor.Processor = executor.NewLocalProcessor(configOpts.Timeout, configOpts.Env, c.OutOrStdout())
			if configOpts.DryRun {
				processor = executor.NewNopProcessor()
			}
			configOpts.Printer.Logger.Info("running tasks",
				configOpts.Printer.Logger.Args("processor", processor.String(), "tasks", len(tasks)))
			return processor.Start(c.Context(), tasks)
		},
	}
	return runCmd
}

// completeTaskNames suggests the task names of the build, build types included.
func completeTaskNames(rootOpts *RootOptions) func(c *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(c *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		root, _, err := rootOpts.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		seen := map[string]bool{}
		var names []string
		for _, p := range root.AllProjects() {
			for _, name := range p.Tasks().Names() {
				if !seen[name] && strings.HasPrefix(name, toComplete) {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
