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

package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"
)

const LocalFilesystemStr = "local"

// Local is a filesystem rooted at a base directory, names never escape it.
type Local struct {
	basePath string
}

func NewLocal(options map[string]string) *Local {
	basePath, ok := options["basepath"]
	if !ok || basePath == "" {
		basePath, _ = os.Getwd()
	}
	return &Local{
		basePath: basePath,
	}
}

func (f *Local) BasePath() string {
	return f.basePath
}

func (f *Local) Open(name string) (io.ReadCloser, error) {
	p := path.Join(f.basePath, stripPath(name))
	return os.Open(p)
}

func (f *Local) Exists(name string) bool {
	p := path.Join(f.basePath, stripPath(name))
	s, err := os.Stat(p)
	if err != nil {
		return false
	}

	// let's say that it does not exists if it's empty
	if s.Size() == 0 {
		return false
	}

	return true
}

func (f *Local) Size(name string) (int64, error) {
	p := path.Join(f.basePath, stripPath(name))
	s, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return s.Size(), nil
}

func (f *Local) Create(name string) (io.WriteCloser, error) {
	p := path.Join(f.basePath, stripPath(name))
	if err := os.MkdirAll(path.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return os.Create(p)
}

// List walks dir and returns the matching files relative to the base path.
func (f *Local) List(dir string, suffix string) ([]string, error) {
	root := path.Join(f.basePath, stripPath(dir))
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(f.basePath, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	logger.WithFields(logger.Fields{
		"dir":    root,
		"suffix": suffix,
		"files":  len(files),
	}).Debug("files collected")
	return files, nil
}

func stripPath(p string) string {
	newPath := path.Clean(p)
	trimmed := strings.TrimPrefix(newPath, "../")

	for trimmed != newPath {
		newPath = trimmed
		trimmed = strings.TrimPrefix(newPath, "../")
	}

	if newPath == "." || newPath == ".." {
		newPath = ""
	}

	if len(newPath) > 0 && string(newPath[0]) == "/" {
		return newPath[1:]
	}

	return newPath
}
