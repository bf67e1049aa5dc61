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

	"github.com/spf13/cobra"
)

// NewTasksCmd creates the `buildtypes tasks` command.
func NewTasksCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *cobra.Command {
	var group string
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of every project.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			root, _, err := rootOpts.Load()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, p := range root.AllProjects() {
				for _, name := range p.Tasks().Names() {
					tp, _ := p.Tasks().Named(name)
					// realizing a build type task activates it, only the listing is affected
					t := tp.Get()
					if group != "" && !strings.EqualFold(group, t.Group) {
						continue
					}
					rows = append(rows, []string{t.Path(), t.Group, t.Description, strings.Join(t.Dependencies(), ", ")})
				}
			}
			configOpts.Printer.Table([]string{"Task", "Group", "Description", "Depends On"}, rows)
			return nil
		},
	}
	tasksCmd.Flags().StringVar(&group, "group", "", "show only the tasks of this group")
	return tasksCmd
}
