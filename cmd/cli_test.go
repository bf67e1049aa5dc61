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

package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acarl005/stripansi"
	"gotest.tools/assert"
)

const buildFile = "testdata/build.yaml"

type expect struct {
	err         string
	outContains []string // Check if the output contains specific strings
	outExcludes []string // Check if the output does not contain specific strings
}

type testCase struct {
	descr    string
	env      map[string]string
	args     []string
	noDryRun bool
	expect   expect
}

var tests = []testCase{
	{
		descr: "help",
		args:  []string{"help"},
		expect: expect{
			outContains: []string{"Available Commands", "split", "run", "list", "--build-file"},
		},
	},
	{
		descr: "help-flag",
		args:  []string{"-h"},
		expect: expect{
			outContains: []string{"Usage", "--loglevel"},
		},
	},
	{
		descr: "empty",
		args:  []string{},
		expect: expect{
			outContains: []string{"Usage"},
		},
	},
	{
		descr: "invalid/argument",
		args:  []string{"abc"},
		expect: expect{
			err: `unknown command "abc" for "buildtypes"`,
		},
	},
	{
		descr: "invalid/config/loglevel",
		args:  []string{"list", "-f", buildFile, "--loglevel", "loud"},
		expect: expect{
			outContains: []string{"log level must be a valid log level"},
			err:         "exiting for validation errors",
		},
	},
	{
		descr: "invalid/build-file",
		args:  []string{"list", "-f", "testdata/missing.yaml"},
		expect: expect{
			err: "no such file or directory",
		},
	},
	{
		descr: "list",
		args:  []string{"list", "-f", buildFile},
		expect: expect{
			outContains: []string{"BUILD TYPE", "quickCheck", "fullCheck", "test, :docs:lint", "testLevel=quick"},
		},
	},
	{
		descr: "tasks",
		args:  []string{"tasks", "-f", buildFile},
		expect: expect{
			outContains: []string{":core:compile", ":core:test", ":docs:lint", ":core:quickCheck", "Run fullCheck build type"},
		},
	},
	{
		descr: "tasks/group",
		args:  []string{"tasks", "-f", buildFile, "--group", "build type"},
		expect: expect{
			outContains: []string{":core:quickCheck"},
			outExcludes: []string{":core:compile"},
		},
	},
	{
		descr: "run/dryrun",
		args:  []string{"run", "-f", buildFile, "quickCheck"},
		expect: expect{
			outContains: []string{"build type active", "quickCheck", ":core:compile", ":core:test"},
			outExcludes: []string{"[:core:test]"},
		},
	},
	{
		descr:    "run/build-type",
		args:     []string{"run", "-f", buildFile, "quickCheck"},
		noDryRun: true,
		expect: expect{
			outContains: []string{"[:core:compile] compile", "[:core:test] test quick"},
		},
	},
	{
		descr:    "run/task",
		args:     []string{"run", "-f", buildFile, ":core:test"},
		noDryRun: true,
		expect: expect{
			outContains: []string{"[:core:test] test default"},
			outExcludes: []string{"build type active"},
		},
	},
	{
		descr: "run/multiple-build-types",
		args:  []string{"run", "-f", buildFile, "quickCheck", "fullCheck"},
		expect: expect{
			err: "you can only have one active build type at a time. Active: [quickCheck, fullCheck]",
		},
	},
	{
		descr: "run/unknown-task",
		args:  []string{"run", "-f", buildFile, "deploy"},
		expect: expect{
			err: "task not found: 'deploy' in root project 'demo' and its subprojects",
		},
	},
	{
		descr: "run/merge-from-env",
		env: map[string]string{
			"BUILDTYPES_BUILD_FILE": buildFile,
		},
		args: []string{"run", "lint"},
		expect: expect{
			outContains: []string{":docs:lint"},
		},
	},
	{
		descr: "run/from-config-file",
		args:  []string{"run", "-c", "testdata/configs/1.yaml", "fullCheck"},
		expect: expect{
			outContains: []string{"using config file", "running with options", ":docs:lint"},
		},
	},
	{
		descr: "split/args/text",
		args:  []string{"split", "--buckets", "2", "--format", "text", "a", "b", "c", "d", "e"},
		expect: expect{
			outContains: []string{"a\nb\nc\nd\ne\n"},
		},
	},
	{
		descr: "split/args/index",
		args:  []string{"split", "-n", "2", "-i", "2", "-o", "text", "a", "b", "c", "d", "e"},
		expect: expect{
			outContains: []string{"d\ne\n"},
			outExcludes: []string{"c\n"},
		},
	},
	{
		descr: "split/args/json",
		args:  []string{"split", "-n", "3", "-o", "json", "a", "b"},
		expect: expect{
			outContains: []string{`"index": 1`, `"index": 3`, `"files": []`},
		},
	},
	{
		descr: "split/dir/yaml",
		args:  []string{"split", "-n", "2", "-o", "yaml", "--dir", "testdata/files", "--suffix", ".txt"},
		expect: expect{
			outContains: []string{
				"- index: 1",
				"- index: 2",
				"testdata/files/nested/four.txt",
				"testdata/files/two.txt",
			},
			outExcludes: []string{"README.md"},
		},
	},
	{
		descr: "split/dir/parent",
		args:  []string{"split", "-n", "1", "-o", "text", "--dir", "../cmd/testdata/files", "--suffix", ".txt"},
		expect: expect{
			outContains: []string{"testdata/files/nested/four.txt\ntestdata/files/one.txt\n"},
			outExcludes: []string{"cmd/testdata"},
		},
	},
	{
		descr: "split/input",
		args:  []string{"split", "-n", "2", "-o", "text", "--input", "testdata/buckets/bucket-1-of-2.txt"},
		expect: expect{
			outContains: []string{"a_test.go\nb_test.go\n"},
		},
	},
	{
		descr: "invalid/split/input-and-args",
		args:  []string{"split", "--input", "testdata/buckets/bucket-1-of-2.txt", "c_test.go"},
		expect: expect{
			err: "files can not be given both as arguments and with --input",
		},
	},
	{
		descr: "invalid/split/input-missing",
		args:  []string{"split", "--input", "testdata/buckets/missing.txt"},
		expect: expect{
			err: "error reading bucket file",
		},
	},
	{
		descr: "split/table",
		args:  []string{"split", "-n", "2", "a", "b", "c"},
		expect: expect{
			outContains: []string{"BUCKET", "a b", "c"},
		},
	},
	{
		descr: "split/exec/dryrun",
		args:  []string{"split", "-n", "2", "-o", "text", "--exec", "echo", "a", "b"},
		expect: expect{
			outContains: []string{"dry run, bucket commands not executed"},
		},
	},
	{
		descr:    "split/exec",
		args:     []string{"split", "-n", "2", "-o", "text", "--exec", "echo $BUILDTYPES_BUCKET_INDEX", "a", "b"},
		noDryRun: true,
		expect: expect{
			outContains: []string{"] 1 a", "] 2 b"},
		},
	},
	{
		descr: "invalid/split/buckets",
		args:  []string{"split", "-n", "0", "a"},
		expect: expect{
			outContains: []string{"buckets must be 1 or greater"},
			err:         "exiting for validation errors",
		},
	},
	{
		descr: "invalid/split/format",
		args:  []string{"split", "-o", "xml", "a"},
		expect: expect{
			outContains: []string{"format must be one of"},
			err:         "exiting for validation errors",
		},
	},
	{
		descr: "version",
		args:  []string{"version"},
		expect: expect{
			outContains: []string{`"version": "dev"`},
		},
	},
	{
		descr: "complete/run/tasks",
		args:  []string{"__complete", "run", "-f", buildFile, "qu"},
		expect: expect{
			outContains: []string{"quickCheck"},
			outExcludes: []string{"fullCheck"},
		},
	},
	{
		descr: "completion/empty",
		args:  []string{"completion"},
		expect: expect{
			outContains: []string{"Generates completion scripts for the following shells: bash, zsh, fish, powershell."},
		},
	},
	{
		descr: "completion/bash",
		args:  []string{"completion", "bash"},
		expect: expect{
			outContains: []string{"bash completion V2 for buildtypes"},
		},
	},
	{
		descr: "completion/invalid-shell",
		args:  []string{"completion", "tcsh"},
		expect: expect{
			err: `invalid argument "tcsh"`,
		},
	},
}

func run(t *testing.T, test testCase) {
	// Setup
	c := NewRootCmd()
	b := bytes.NewBufferString("")
	c.SetOutput(b)
	if !test.noDryRun && (len(test.args) == 0 || (test.args[0] != "__complete" && test.args[0] != "__completeNoDesc" && test.args[0] != "help" && test.args[0] != "completion")) {
		test.args = append(test.args, "--dryrun")
	}
	c.SetArgs(test.args)
	for k, v := range test.env {
		t.Setenv(k, v)
	}
	// Test
	err := c.Execute()
	if err != nil {
		if test.expect.err == "" {
			t.Fatalf("error executing CLI: %v", err)
		} else {
			assert.ErrorContains(t, err, test.expect.err)
		}
	} else if test.expect.err != "" {
		t.Fatalf("expected error %q, got none", test.expect.err)
	}
	out, err := io.ReadAll(b)
	if err != nil {
		t.Fatalf("error reading CLI output: %v", err)
	}
	res := stripansi.Strip(string(out))
	for _, s := range test.expect.outContains {
		assert.Assert(t, strings.Contains(res, s), "output does not contain %q:\n%s", s, res)
	}
	for _, s := range test.expect.outExcludes {
		assert.Assert(t, !strings.Contains(res, s), "output contains %q:\n%s", s, res)
	}
}

func TestCLI(t *testing.T) {
	for _, test := range tests {
		test := test
		t.Run(test.descr, func(t *testing.T) {
			run(t, test)
		})
	}
}

func TestSplitOutputDir(t *testing.T) {
	dir := t.TempDir()
	c := NewRootCmd()
	c.SetOutput(bytes.NewBufferString(""))
	c.SetArgs([]string{"split", "-n", "3", "--output-dir", dir, "-o", "text", "a", "b", "c", "d"})
	assert.NilError(t, c.Execute())

	for name, want := range map[string]string{
		"bucket-1-of-3.txt": "a\nb\n",
		"bucket-2-of-3.txt": "c\n",
		"bucket-3-of-3.txt": "d\n",
	} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		assert.NilError(t, err)
		assert.Equal(t, string(got), want)
	}
}

func TestSplitOutputDirDryRun(t *testing.T) {
	dir := t.TempDir()
	c := NewRootCmd()
	b := bytes.NewBufferString("")
	c.SetOutput(b)
	c.SetArgs([]string{"split", "-n", "2", "--output-dir", dir, "--dryrun", "a", "b"})
	assert.NilError(t, c.Execute())

	entries, err := os.ReadDir(dir)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 0)
	out := stripansi.Strip(b.String())
	assert.Assert(t, strings.Contains(out, "dry run, bucket files not written"), out)
	assert.Assert(t, strings.Contains(out, "bucket-2-of-2.txt"), out)
}

func TestSplitAbsoluteDir(t *testing.T) {
	dir, err := filepath.Abs("testdata/files")
	assert.NilError(t, err)

	c := NewRootCmd()
	b := bytes.NewBufferString("")
	c.SetOutput(b)
	c.SetArgs([]string{"split", "-n", "1", "-o", "text", "--dir", dir, "--suffix", ".txt"})
	assert.NilError(t, c.Execute())

	var want []string
	for _, name := range []string{"nested/four.txt", "one.txt", "three.txt", "two.txt"} {
		want = append(want, filepath.ToSlash(filepath.Join(dir, name)))
	}
	assert.Assert(t, strings.Contains(b.String(), strings.Join(want, "\n")+"\n"), b.String())
}
