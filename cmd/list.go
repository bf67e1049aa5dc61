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
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// NewListCmd creates the `buildtypes list` command.
func NewListCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the build types declared by the build.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			_, container, err := rootOpts.Load()
			if err != nil {
				return err
			}
			var rows [][]string
			for _, bt := range container.List() {
				props := bt.ProjectProperties()
				keys := make([]string, 0, len(props))
				for k := range props {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([]string, 0, len(keys))
				for _, k := range keys {
					pairs = append(pairs, k+"="+props[k])
				}
				rows = append(rows, []string{bt.Name, strings.Join(bt.TaskNames(), ", "), strings.Join(pairs, ", ")})
			}
			configOpts.Printer.Table([]string{"Build Type", "Tasks", "Project Properties"}, rows)
			return nil
		},
	}
	return listCmd
}
