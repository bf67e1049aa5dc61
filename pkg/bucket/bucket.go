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

// Package bucket splits ordered work items into balanced, contiguous buckets.
package bucket

import (
	"errors"
	"fmt"
)

// ErrInvalidBucketCount is returned when the requested number of buckets is not positive.
var ErrInvalidBucketCount = errors.New("number of buckets must be positive")

// Sizes returns the length of each of the given number of buckets for n items.
//
// Lengths differ by at most one and the remainder goes to the earliest buckets.
func Sizes(n, buckets int) ([]int, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, buckets)
	}
	if n < 0 {
		n = 0
	}
	size := n / buckets
	rem := n % buckets
	sizes := make([]int, buckets)
	for i := range sizes {
		sizes[i] = size
		if i < rem {
			sizes[i]++
		}
	}
	return sizes, nil
}

// Split distributes items into exactly the given number of buckets.
//
// Buckets are contiguous and keep the original order, so flattening them gives back items.
// When there are more buckets than items the trailing buckets are empty.
func Split[T any](items []T, buckets int) ([][]T, error) {
	sizes, err := Sizes(len(items), buckets)
	if err != nil {
		return nil, err
	}
	res := make([][]T, 0, buckets)
	start := 0
	for _, size := range sizes {
		b := make([]T, size)
		copy(b, items[start:start+size])
		res = append(res, b)
		start += size
	}
	return res, nil
}

// Flatten concatenates buckets in order.
func Flatten[T any](buckets [][]T) []T {
	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	res := make([]T, 0, total)
	for _, b := range buckets {
		res = append(res, b...)
	}
	return res
}
