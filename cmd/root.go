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
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var errValidation = errors.New("exiting for validation errors")

// RootCmd wraps the main cobra.Command.
type RootCmd struct {
	c          *cobra.Command
	v          *viper.Viper
	configOpts *ConfigOptions
}

// flags that are not merged from env or config file
var skipMerge = map[string]bool{
	"config": true,
	"help":   true,
	"env":    true,
}

// persistentValidateFunc merges config file and env values into the flags, then validates the options.
func persistentValidateFunc(rootCommand *RootCmd, configOpts *ConfigOptions, rootOpts *RootOptions) func(c *cobra.Command, args []string) error {
	return func(c *cobra.Command, args []string) error {
		configOpts.Init(rootCommand.v)

		// Merge environment variables or config file values into the flags not set explicitly
		var mergeErr error
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if skipMerge[f.Name] || f.Changed || !rootCommand.v.IsSet(f.Name) {
				return
			}
			value := rootCommand.v.GetString(f.Name)
			if value == "" {
				return
			}
			if err := c.Flags().Set(f.Name, value); err != nil && mergeErr == nil {
				mergeErr = err
			}
		})
		if err := configOpts.mergeEnv(rootCommand.v); err != nil && mergeErr == nil {
			mergeErr = err
		}
		// log level may have changed
		configOpts.initPrinter()
		if mergeErr != nil {
			configOpts.Printer.Logger.Error("error merging configuration",
				configOpts.Printer.Logger.Args("err", mergeErr.Error()))
			return errValidation
		}

		validationErr := false
		for _, err := range configOpts.Validate() {
			configOpts.Printer.Logger.Error("error validating config options",
				configOpts.Printer.Logger.Args("err", err.Error()))
			validationErr = true
		}
		for _, err := range rootOpts.Validate() {
			configOpts.Printer.Logger.Error("error validating build options",
				configOpts.Printer.Logger.Args("err", err.Error()))
			validationErr = true
		}
		if validationErr {
			return errValidation
		}
		rootOpts.Log(configOpts.Printer)
		return nil
	}
}

// NewRootCmd instantiates the root command.
func NewRootCmd() *RootCmd {
	configOpts, err := NewConfigOptions()
	if err != nil {
		// configOpts will never be nil here
		if configOpts != nil {
			configOpts.Printer.Logger.Error("error setting buildtypes config options defaults",
				configOpts.Printer.Logger.Args("err", err.Error()))
		}
		os.Exit(1)
	}
	rootOpts, err := NewRootOptions()
	if err != nil {
		configOpts.Printer.Logger.Error("error initializing root options",
			configOpts.Printer.Logger.Args("err", err.Error()))
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:                   "buildtypes",
		Short:                 "A command line tool to run build types and split tests into buckets.",
		Long:                  "A command line tool to run build types, named and mutually exclusive build configurations, and to split test files into balanced buckets for parallel execution.",
		DisableFlagsInUseLine: true,
		DisableAutoGenTag:     true,
		SilenceUsage:          true,
		Args:                  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return c.Help()
		},
	}
	ret := &RootCmd{
		c:          rootCmd,
		v:          viper.New(),
		configOpts: configOpts,
	}
	rootCmd.PersistentPreRunE = persistentValidateFunc(ret, configOpts, rootOpts)

	flags := rootCmd.PersistentFlags()
	configOpts.AddFlags(flags)
	rootOpts.AddFlags(flags)

	// Commands
	rootCmd.AddCommand(NewListCmd(configOpts, rootOpts))
	rootCmd.AddCommand(NewTasksCmd(configOpts, rootOpts))
	rootCmd.AddCommand(NewRunCmd(configOpts, rootOpts))
	rootCmd.AddCommand(NewSplitCmd(configOpts))
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewCompletionCmd())

	ret.SetOutput(os.Stdout)
	return ret
}

// Command returns the underlying cobra.Command.
func (r *RootCmd) Command() *cobra.Command {
	return r.c
}

// SetArgs proxies the arguments to the underlying cobra.Command.
func (r *RootCmd) SetArgs(args []string) {
	r.c.SetArgs(args)
}

// SetOutput sets the main command output writer.
func (r *RootCmd) SetOutput(w io.Writer) {
	r.c.SetOut(w)
	r.c.SetErr(w)
	r.configOpts.SetOutput(w)
}

// Execute proxies the cobra.Command execution, cancelling it on SIGINT or SIGTERM.
func (r *RootCmd) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.c.ExecuteContext(ctx)
}

// Start creates the root command and executes it.
func Start() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
