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
	"bufio"
	"fmt"
	"path"
)

// BucketStorage writes and reads bucket lists, one item per line.
type BucketStorage struct {
	filesystem Filesystem
	dir        string
}

func NewBucketStorage(fs Filesystem, dir string) *BucketStorage {
	return &BucketStorage{filesystem: fs, dir: dir}
}

// BucketFileName returns the file name of the bucket at index (zero based) out of total.
func BucketFileName(index, total int) string {
	return fmt.Sprintf("bucket-%d-of-%d.txt", index+1, total)
}

// Write stores every bucket in its own file and returns the written names.
func (bs *BucketStorage) Write(buckets [][]string) ([]string, error) {
	names := make([]string, 0, len(buckets))
	for i, b := range buckets {
		name := path.Join(bs.dir, BucketFileName(i, len(buckets)))
		if err := bs.writeBucket(name, b); err != nil {
			return nil, fmt.Errorf("error writing bucket %s: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (bs *BucketStorage) writeBucket(name string, items []string) error {
	w, err := bs.filesystem.Create(name)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := fmt.Fprintln(bw, item); err != nil {
			w.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Read returns the items of the bucket file called name.
func (bs *BucketStorage) Read(name string) ([]string, error) {
	r, err := bs.filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var items []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			items = append(items, line)
		}
	}
	return items, scanner.Err()
}
