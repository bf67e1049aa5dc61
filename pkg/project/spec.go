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

package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/falcosecurity/buildtypes/validate"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the range of build description versions this tool reads.
var SupportedVersions = ">=1.0.0 <2.0.0"

var (
	ErrInvalidBuildSpec       = errors.New("invalid build description")
	ErrUnsupportedSpecVersion = errors.New("unsupported build description version")
)

// BuildSpec is the on-disk description of a build.
type BuildSpec struct {
	Version     string `yaml:"version" validate:"required,semver" name:"version"`
	ProjectSpec `yaml:",inline"`
	BuildTypes  []BuildTypeSpec `yaml:"buildTypes" validate:"dive" name:"build types"`
}

// ProjectSpec describes a project and, recursively, its subprojects.
type ProjectSpec struct {
	Name        string            `yaml:"name" validate:"required,projectname" name:"project name"`
	Dir         string            `yaml:"dir" name:"project dir"`
	Properties  map[string]string `yaml:"properties" validate:"dive,keys,propertyname,endkeys" name:"properties"`
	Tasks       []TaskSpec        `yaml:"tasks" validate:"dive" name:"tasks"`
	Subprojects []ProjectSpec     `yaml:"subprojects" validate:"dive" name:"subprojects"`
}

// TaskSpec describes a task.
type TaskSpec struct {
	Name        string   `yaml:"name" validate:"required,taskname" name:"task name"`
	Group       string   `yaml:"group" name:"task group"`
	Description string   `yaml:"description" name:"task description"`
	Command     string   `yaml:"command" name:"task command"`
	DependsOn   []string `yaml:"dependsOn" validate:"dive,required" name:"task dependencies"`
	Timeout     string   `yaml:"timeout" validate:"omitempty,duration" name:"task timeout"`
}

// BuildTypeSpec describes a build type declared by the build.
type BuildTypeSpec struct {
	Name       string            `yaml:"name" validate:"required,buildtypename" name:"build type name"`
	Tasks      []string          `yaml:"tasks" validate:"dive,required" name:"build type tasks"`
	Properties map[string]string `yaml:"properties" validate:"dive,keys,propertyname,endkeys" name:"build type properties"`
}

// Load reads the build description at path and creates the project tree it describes.
func Load(path string) (*Project, *BuildSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading build description: %w", err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("file", path).Debug("loading build description")
	return Parse(bytes.NewReader(data), abs)
}

// Parse decodes a build description, validates it and creates the project tree.
// Project directories are resolved against baseDir.
func Parse(r io.Reader, baseDir string) (*Project, *BuildSpec, error) {
	spec := &BuildSpec{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBuildSpec, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	root := NewRootProject(spec.Name)
	if err := populate(root, spec.ProjectSpec, baseDir); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBuildSpec, err)
	}
	return root, spec, nil
}

// Validate checks the description fields and its version.
func (s *BuildSpec) Validate() error {
	if err := validate.V.Struct(s); err != nil {
		var msgs []string
		for _, e := range validate.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("%w: %s", ErrInvalidBuildSpec, strings.Join(msgs, "; "))
	}
	v, err := semver.ParseTolerant(s.Version)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedSpecVersion, err)
	}
	if !semver.MustParseRange(SupportedVersions)(v) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedSpecVersion, s.Version, SupportedVersions)
	}
	return nil
}

func populate(p *Project, spec ProjectSpec, dir string) error {
	if spec.Dir != "" {
		if filepath.IsAbs(spec.Dir) {
			dir = spec.Dir
		} else {
			dir = filepath.Join(dir, spec.Dir)
		}
	}
	p.SetDir(dir)
	for k, v := range spec.Properties {
		p.DeclareProperty(k, v)
	}
	for _, ts := range spec.Tasks {
		if err := registerTask(p, ts); err != nil {
			return err
		}
	}
	for _, ss := range spec.Subprojects {
		sub, err := p.AddSubproject(ss.Name)
		if err != nil {
			return err
		}
		subDir := dir
		if ss.Dir == "" {
			subDir = filepath.Join(dir, ss.Name)
		}
		if err := populate(sub, ss, subDir); err != nil {
			return err
		}
	}
	return nil
}

func registerTask(p *Project, ts TaskSpec) error {
	var timeout time.Duration
	if ts.Timeout != "" {
		d, err := time.ParseDuration(ts.Timeout)
		if err != nil {
			return fmt.Errorf("task %s: %w", ts.Name, err)
		}
		timeout = d
	}
	tp, err := p.Tasks().Register(ts.Name)
	if err != nil {
		return err
	}
	tp.Configure(func(t *Task) {
		t.Group = ts.Group
		t.Description = ts.Description
		t.Command = ts.Command
		t.Timeout = timeout
		if len(ts.DependsOn) > 0 {
			t.DependsOn(ts.DependsOn...)
		}
	})
	return nil
}
