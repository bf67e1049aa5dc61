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
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/falcosecurity/buildtypes/pkg/output"
	"github.com/falcosecurity/buildtypes/validate"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigOptions represent the persistent configuration flags of buildtypes.
type ConfigOptions struct {
	configFile string
	LogLevel   string            `validate:"loglevel" default:"info" name:"log level"`
	Timeout    time.Duration     `validate:"min=0" name:"timeout"`
	DryRun     bool              `name:"dry run"`
	Env        map[string]string `validate:"dive,keys,required,endkeys" name:"env"`

	// Printer used by all commands to output messages.
	Printer *output.Printer
	// writer is used to write the output of the printer.
	writer io.Writer
}

func (co *ConfigOptions) initPrinter() {
	co.Printer = output.NewPrinter(co.LogLevel, pterm.LogFormatterColorful, co.writer)
}

func (co *ConfigOptions) SetOutput(writer io.Writer) {
	co.writer = writer
	co.initPrinter()
}

// NewConfigOptions creates an instance of ConfigOptions.
func NewConfigOptions() (*ConfigOptions, error) {
	o := &ConfigOptions{
		writer: os.Stdout,
		Env:    map[string]string{},
	}
	if err := defaults.Set(o); err != nil {
		// Return ConfigOptions anyway because we need the logger
		o.initPrinter()
		return o, err
	}
	o.initPrinter()
	return o, nil
}

// Validate validates the ConfigOptions fields.
func (co *ConfigOptions) Validate() []error {
	return validate.Errors(validate.V.Struct(co))
}

// AddFlags registers the common flags.
func (co *ConfigOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&co.configFile, "config", "c", co.configFile, "config file path (default $HOME/.buildtypes.yaml if exists)")
	flags.StringVarP(&co.LogLevel, "loglevel", "l", co.LogLevel, "set level for logs ("+strings.Join(validate.LogLevels, ", ")+")")
	flags.DurationVar(&co.Timeout, "timeout", co.Timeout, "timeout for each task or bucket command, 0 means no timeout")
	flags.BoolVar(&co.DryRun, "dryrun", co.DryRun, "do not actually perform the action")
	flags.StringToStringVar(&co.Env, "env", co.Env, "env variables passed to every command")
}

// Init reads in config file and ENV variables if set.
func (co *ConfigOptions) Init(v *viper.Viper) {
	if co.configFile != "" {
		v.SetConfigFile(co.configFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			co.Printer.Logger.Error("error getting the home directory",
				co.Printer.Logger.Args("err", err.Error()))
			// fallback to the working directory only
		} else {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".buildtypes")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("buildtypes")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// If a config file is found, read it in.
	if err := v.ReadInConfig(); err == nil {
		co.Printer.Logger.Info("using config file",
			co.Printer.Logger.Args("file", v.ConfigFileUsed()))
	} else {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, ignore ...
			co.Printer.Logger.Debug("running without a configuration file")
		} else {
			co.Printer.Logger.Warn("error reading config file",
				co.Printer.Logger.Args("err", err.Error()))
		}
	}
}

// mergeEnv adds the env map of the config file, flags win on conflicts.
func (co *ConfigOptions) mergeEnv(v *viper.Viper) error {
	if !v.IsSet("env") {
		return nil
	}
	fromConfig := map[string]string{}
	err := v.UnmarshalKey("env", &fromConfig, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return err
	}
	for k, val := range fromConfig {
		if _, ok := co.Env[k]; !ok {
			co.Env[k] = val
		}
	}
	return nil
}
