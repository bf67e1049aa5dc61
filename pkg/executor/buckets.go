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
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrBucketFailed = errors.New("bucket failed")

// RunBuckets runs command once per bucket, the bucket items appended as arguments.
//
// At most parallelism commands run at the same time, zero means one per bucket.
// The first failure cancels the remaining commands.
func (lp *LocalProcessor) RunBuckets(ctx context.Context, command, dir string, buckets [][]string, parallelism int) error {
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, b := range buckets {
		i, b := i, b
		if len(b) == 0 {
			logger.WithField("bucket", i+1).Debug("empty bucket skipped")
			continue
		}
		g.Go(func() error {
			label := fmt.Sprintf("bucket %d/%d", i+1, len(buckets))
			env := []string{
				fmt.Sprintf("BUILDTYPES_BUCKET_INDEX=%d", i+1),
				fmt.Sprintf("BUILDTYPES_BUCKET_TOTAL=%d", len(buckets)),
			}
			runCtx := ctx
			if lp.timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(ctx, lp.timeout)
				defer cancel()
			}
			logger.WithFields(logger.Fields{
				"bucket": i + 1,
				"items":  len(b),
			}).Info("running bucket")
			if err := lp.run(runCtx, label, command+` "$@"`, b, dir, env); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrBucketFailed, label, err)
			}
			return nil
		})
	}
	return g.Wait()
}
