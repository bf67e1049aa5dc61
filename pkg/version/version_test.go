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

package version

import (
	"testing"

	"gotest.tools/assert"
)

func TestString(t *testing.T) {
	defer func(tag, commits, commit string) {
		gitTag, commitsFromGitTag, gitCommit = tag, commits, commit
	}(gitTag, commitsFromGitTag, gitCommit)

	gitTag, commitsFromGitTag, gitCommit = "", "", ""
	assert.Equal(t, String(), "dev")
	assert.Assert(t, Semver() == nil)

	gitTag, commitsFromGitTag, gitCommit = "v1.2.3", "4", "abcdef"
	assert.Equal(t, String(), "v1.2.3-4+abcdef")
	assert.Equal(t, Semver().String(), "1.2.3")
}

func TestTime(t *testing.T) {
	defer func(bt string) { buildTime = bt }(buildTime)

	buildTime = ""
	assert.Assert(t, Time() == nil)
	buildTime = "notanumber"
	assert.Assert(t, Time() == nil)
	buildTime = "1700000000"
	assert.Equal(t, Time().Unix(), int64(1700000000))
}
