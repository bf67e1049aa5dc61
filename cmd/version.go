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
	"encoding/json"
	"time"

	"github.com/falcosecurity/buildtypes/pkg/version"
	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"git_tag,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// NewVersionCmd creates the `buildtypes version` command.
func NewVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:               "version",
		Short:             "Print the buildtypes version information.",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(c *cobra.Command, args []string) error {
			info := versionInfo{
				Version:   version.String(),
				GitTag:    version.GitTag(),
				GitCommit: version.GitCommit(),
			}
			if t := version.Time(); t != nil {
				info.BuildTime = t.UTC().Format(time.RFC3339)
			}
			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
	return versionCmd
}
