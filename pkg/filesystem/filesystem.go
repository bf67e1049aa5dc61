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
	"fmt"
	"io"
)

// Filesystem is where test files are collected from and bucket lists are written to.
type Filesystem interface {
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
	Exists(name string) bool
	Size(name string) (int64, error)
	// List returns the files below dir whose name ends with suffix, sorted.
	List(dir string, suffix string) ([]string, error)
}

// Factory returns the filesystem called name.
func Factory(name string, options map[string]string) (Filesystem, error) {
	switch name {
	case LocalFilesystemStr:
		return NewLocal(options), nil
	case NopFilesystemStr:
		return NewNop(), nil
	}
	return nil, fmt.Errorf("filesystem not implemented: %s", name)
}
