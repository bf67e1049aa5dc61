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

import "io"

const NopFilesystemStr = "nop"

func NewNop() *Nop {
	return &Nop{}
}

func (f *Nop) Open(name string) (io.ReadCloser, error) {
	return DiscardCloser{}, nil
}

func (f *Nop) Create(name string) (io.WriteCloser, error) {
	return DiscardCloser{}, nil
}

func (f *Nop) Exists(name string) bool {
	return false
}

func (f *Nop) Size(name string) (int64, error) {
	return 0, nil
}

func (f *Nop) List(dir string, suffix string) ([]string, error) {
	return nil, nil
}

type DiscardCloser struct {
}

func (ds DiscardCloser) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func (ds DiscardCloser) Read(p []byte) (n int, err error) {
	return 0, io.EOF
}

func (DiscardCloser) Close() error { return nil }

type Nop struct {
}
