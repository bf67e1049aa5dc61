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

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/falcosecurity/buildtypes/pkg/project"
	logger "github.com/sirupsen/logrus"
)

const (
	LocalProcessorName = "local"
	// PropertyEnvPrefix prefixes the environment variables carrying project properties.
	PropertyEnvPrefix = "BUILDTYPES_PROP_"
)

var ErrTaskFailed = errors.New("task failed")

const waitDelay = 500 * time.Millisecond

// LocalProcessor runs task commands with the local shell.
type LocalProcessor struct {
	timeout time.Duration
	envMap  map[string]string
	out     io.Writer
	mu      sync.Mutex
}

// NewLocalProcessor creates a processor; timeout applies to tasks that do not set their own.
func NewLocalProcessor(timeout time.Duration, envMap map[string]string, out io.Writer) *LocalProcessor {
	if out == nil {
		out = os.Stdout
	}
	return &LocalProcessor{
		timeout: timeout,
		envMap:  envMap,
		out:     out,
	}
}

func (lp *LocalProcessor) String() string {
	return LocalProcessorName
}

// Start runs the tasks one after the other and stops at the first failure.
func (lp *LocalProcessor) Start(ctx context.Context, tasks []*project.Task) error {
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		log := logger.WithField("task", t.Path())
		if t.Command == "" {
			log.Debug("nothing to run")
			continue
		}
		log.Info("running task")
		start := time.Now()
		if err := lp.runTask(ctx, t); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTaskFailed, t.Path(), err)
		}
		log.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("task completed")
	}
	return nil
}

func (lp *LocalProcessor) runTask(ctx context.Context, t *project.Task) error {
	timeout := t.Timeout
	if timeout == 0 {
		timeout = lp.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	env := PropertiesEnv(t.Project().EffectiveProperties())
	return lp.run(ctx, t.Path(), t.Command, nil, t.Project().Dir(), env)
}

// run executes command with sh, prefixing every output line with label.
func (lp *LocalProcessor) run(ctx context.Context, label, command string, args []string, dir string, env []string) error {
	shArgs := append([]string{"-c", command, label}, args...)
	cmd := exec.CommandContext(ctx, "/bin/sh", shArgs...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	// Append requested env variables to the command env
	for key, val := range lp.envMap {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, val))
	}
	cmd.Env = append(cmd.Env, env...)
	// children left behind by a killed shell must not keep the output open
	cmd.WaitDelay = waitDelay

	// stderr shares the writer so that we catch it in order
	w := &lineWriter{label: label, out: lp.out, mu: &lp.mu}
	cmd.Stdout = w
	cmd.Stderr = w
	err := cmd.Run()
	w.Flush()
	return err
}

// lineWriter writes every complete line prefixed with the label, whatever its length.
type lineWriter struct {
	label string
	out   io.Writer
	mu    *sync.Mutex
	buf   []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.writeLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush writes the last line when the output does not end with a newline.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.writeLine(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) writeLine(line []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "[%s] %s\n", w.label, line)
}

// PropertiesEnv converts project properties to sorted environment variables.
func PropertiesEnv(props map[string]string) []string {
	env := make([]string, 0, len(props))
	for k, v := range props {
		env = append(env, fmt.Sprintf("%s%s=%s", PropertyEnvPrefix, envName(k), v))
	}
	sort.Strings(env)
	return env
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return '_'
		}
		return unicode.ToUpper(r)
	}, name)
}
