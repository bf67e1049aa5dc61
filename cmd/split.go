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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/falcosecurity/buildtypes/pkg/bucket"
	"github.com/falcosecurity/buildtypes/pkg/executor"
	"github.com/falcosecurity/buildtypes/pkg/filesystem"
	"github.com/falcosecurity/buildtypes/pkg/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type bucketOutput struct {
	Index int      `json:"index" yaml:"index"`
	Files []string `json:"files" yaml:"files"`
}

// NewSplitCmd creates the `buildtypes split` command.
func NewSplitCmd(configOpts *ConfigOptions) *cobra.Command {
	splitOpts, err := NewSplitOptions()
	if err != nil {
		configOpts.Printer.Logger.Error("error initializing split options",
			configOpts.Printer.Logger.Args("err", err.Error()))
		os.Exit(1)
	}
	splitCmd := &cobra.Command{
		Use:   "split [file]...",
		Short: "Split test files into balanced buckets for parallel execution.",
		Long: `Split test files into balanced buckets for parallel execution.

Files are taken from the arguments, from a bucket file given with --input, or
collected from --dir by --suffix and sorted.
Buckets keep the order of the files and their sizes differ by at most one, the
earliest buckets getting the remainder.`,
		RunE: func(c *cobra.Command, args []string) error {
			configErr := false
			for _, err := range splitOpts.Validate() {
				configOpts.Printer.Logger.Error("error validating split options",
					configOpts.Printer.Logger.Args("err", err.Error()))
				configErr = true
			}
			if configErr {
				return errValidation
			}

			var err error
			files := args
			switch {
			case splitOpts.Input != "" && len(args) > 0:
				return errors.New("files can not be given both as arguments and with --input")
			case splitOpts.Input != "":
				files, err = readBucketFile(splitOpts.Input)
				if err != nil {
					return err
				}
			case len(files) == 0:
				files, err = collectFiles(splitOpts.Dir, splitOpts.Suffix)
				if err != nil {
					return fmt.Errorf("error collecting files: %w", err)
				}
			}
			buckets, err := bucket.Split(files, splitOpts.Buckets)
			if err != nil {
				return err
			}
			configOpts.Printer.Logger.Debug("files split",
				configOpts.Printer.Logger.Args("files", len(files), "buckets", len(buckets)))

			if splitOpts.OutputDir != "" {
				fsName := filesystem.LocalFilesystemStr
				msg := "bucket files written"
				if configOpts.DryRun {
					fsName = filesystem.NopFilesystemStr
					msg = "dry run, bucket files not written"
				}
				fs, err := filesystem.Factory(fsName, map[string]string{"basepath": splitOpts.OutputDir})
				if err != nil {
					return err
				}
				names, err := filesystem.NewBucketStorage(fs, ".").Write(buckets)
				if err != nil {
					return err
				}
				configOpts.Printer.Logger.Info(msg,
					configOpts.Printer.Logger.Args("dir", splitOpts.OutputDir, "files", strings.Join(names, ",")))
			}

			if err := printBuckets(c, configOpts.Printer, splitOpts, buckets); err != nil {
				return err
			}

			if splitOpts.Exec == "" {
				return nil
			}
			selected := buckets
			if splitOpts.Index > 0 {
				selected = make([][]string, len(buckets))
				selected[splitOpts.Index-1] = buckets[splitOpts.Index-1]
			}
			if configOpts.DryRun {
				configOpts.Printer.Logger.Info("dry run, bucket commands not executed",
					configOpts.Printer.Logger.Args("command", splitOpts.Exec))
				return nil
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			processor := executor.NewLocalProcessor(configOpts.Timeout, configOpts.Env, c.OutOrStdout())
			return processor.RunBuckets(c.Context(), splitOpts.Exec, wd, selected, splitOpts.Parallelism)
		},
	}
	splitOpts.AddFlags(splitCmd.Flags())
	return splitCmd
}

// collectFiles lists the files below dir ending with suffix.
//
// Names are relative to the working directory, or absolute when dir is.
func collectFiles(dir, suffix string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	fs, err := filesystem.Factory(filesystem.LocalFilesystemStr, map[string]string{"basepath": absDir})
	if err != nil {
		return nil, err
	}
	files, err := fs.List(".", suffix)
	if err != nil {
		return nil, err
	}
	for i, f := range files {
		name := filepath.Join(absDir, filepath.FromSlash(f))
		if !filepath.IsAbs(dir) {
			if rel, err := filepath.Rel(wd, name); err == nil {
				name = rel
			}
		}
		files[i] = filepath.ToSlash(name)
	}
	return files, nil
}

// readBucketFile returns the files of a bucket file written with --output-dir.
func readBucketFile(name string) ([]string, error) {
	absName, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	fs := filesystem.NewLocal(map[string]string{"basepath": filepath.Dir(absName)})
	files, err := filesystem.NewBucketStorage(fs, ".").Read(filepath.Base(absName))
	if err != nil {
		return nil, fmt.Errorf("error reading bucket file: %w", err)
	}
	return files, nil
}

func printBuckets(c *cobra.Command, printer *output.Printer, splitOpts *SplitOptions, buckets [][]string) error {
	var out []bucketOutput
	for i, b := range buckets {
		if splitOpts.Index > 0 && splitOpts.Index != i+1 {
			continue
		}
		files := b
		if files == nil {
			files = []string{}
		}
		out = append(out, bucketOutput{Index: i + 1, Files: files})
	}

	w := c.OutOrStdout()
	switch splitOpts.Format {
	case "text":
		for _, b := range out {
			for _, f := range b.Files {
				fmt.Fprintln(w, f)
			}
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "table":
		rows := make([][]string, 0, len(out))
		for _, b := range out {
			rows = append(rows, []string{strconv.Itoa(b.Index), strconv.Itoa(len(b.Files)), strings.Join(b.Files, " ")})
		}
		printer.Table([]string{"Bucket", "Items", "Files"}, rows)
	default:
		return errors.New("unknown format " + splitOpts.Format)
	}
	return nil
}
