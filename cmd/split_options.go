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
	"github.com/falcosecurity/buildtypes/validate"
	"github.com/spf13/pflag"
)

// SplitOptions represent the configuration flags for the buildtypes split subcommand.
type SplitOptions struct {
	Buckets     int    `validate:"min=1" default:"1" name:"buckets"`
	Index       int    `validate:"min=0,ltefield=Buckets" name:"index"`
	Dir         string `default:"." name:"dir"`
	Suffix      string `default:"_test.go" name:"suffix"`
	Format      string `validate:"oneof=table text yaml json" default:"table" name:"format"`
	OutputDir   string `name:"output dir"`
	Input       string `name:"input"`
	Exec        string `name:"exec"`
	Parallelism int    `validate:"min=0" name:"parallelism"`
}

// NewSplitOptions creates an instance of SplitOptions.
func NewSplitOptions() (*SplitOptions, error) {
	o := &SplitOptions{}
	if err := defaults.Set(o); err != nil {
		return nil, fmt.Errorf("error setting buildtypes split options defaults: %w", err)
	}
	return o, nil
}

// AddFlags registers the split flags.
func (so *SplitOptions) AddFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&so.Buckets, "buckets", "n", so.Buckets, "number of buckets to split the files into")
	flags.IntVarP(&so.Index, "index", "i", so.Index, "only output the bucket at this 1-based index, 0 means all of them")
	flags.StringVarP(&so.Dir, "dir", "d", so.Dir, "directory to collect the files from when none is given as argument")
	flags.StringVarP(&so.Suffix, "suffix", "s", so.Suffix, "suffix of the collected files")
	flags.StringVarP(&so.Format, "format", "o", so.Format, "output format (table, text, yaml, json)")
	flags.StringVar(&so.OutputDir, "output-dir", so.OutputDir, "write each bucket to a file in this directory")
	flags.StringVar(&so.Input, "input", so.Input, "read the files from a bucket file written with --output-dir")
	flags.StringVar(&so.Exec, "exec", so.Exec, "command to run once per bucket, the bucket files are appended as arguments")
	flags.IntVarP(&so.Parallelism, "parallelism", "p", so.Parallelism, "maximum number of bucket commands running at the same time, 0 means all")
}

// Validate validates the SplitOptions fields.
func (so *SplitOptions) Validate() []error {
	return validate.Errors(validate.V.Struct(so))
}
