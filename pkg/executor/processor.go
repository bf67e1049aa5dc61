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

// Package executor runs the tasks of a resolved task graph and fans test buckets
// out to parallel commands.
package executor

import (
	"context"

	"github.com/falcosecurity/buildtypes/pkg/project"
	logger "github.com/sirupsen/logrus"
)

// Processor runs an ordered list of tasks.
type Processor interface {
	Start(ctx context.Context, tasks []*project.Task) error
	String() string
}

// NopProcessor only logs the tasks it would run.
type NopProcessor struct {
}

func NewNopProcessor() *NopProcessor {
	return &NopProcessor{}
}

func (p *NopProcessor) String() string {
	return "no-op"
}

func (p *NopProcessor) Start(ctx context.Context, tasks []*project.Task) error {
	for _, t := range tasks {
		logger.WithFields(logger.Fields{
			"task":    t.Path(),
			"command": t.Command,
		}).Debug("dry run, task skipped")
	}
	return nil
}
