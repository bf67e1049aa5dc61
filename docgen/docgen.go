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

package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/falcosecurity/buildtypes/cmd"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra/doc"
)

const outputDir = "docs"
const websiteTemplate = `---
title: %s
weight: %d
---

`

var (
	targetWebsite    bool
	websitePrepender = func(num int) func(filename string) string {
		total := num
		return func(filename string) string {
			num = num - 1
			title := strings.TrimPrefix(strings.TrimSuffix(strings.ReplaceAll(filename, "_", " "), ".md"), fmt.Sprintf("%s/", outputDir))
			return fmt.Sprintf(websiteTemplate, title, total-num)
		}
	}
	websiteLinker = func(filename string) string {
		if filename == "buildtypes.md" {
			return "_index.md"
		}
		return filename
	}
)

// docgen
func main() {
	flag.BoolVar(&targetWebsite, "website", targetWebsite, "")
	flag.Parse()

	root := cmd.NewRootCmd().Command()
	num := len(root.Commands()) + 1

	prepender := func(num int) func(filename string) string {
		return func(filename string) string {
			return ""
		}
	}
	if targetWebsite {
		prepender = websitePrepender
	}

	linker := func(filename string) string {
		return filename
	}
	if targetWebsite {
		linker = websiteLinker
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		logger.WithError(err).Fatal("creating output directory")
	}
	if err := doc.GenMarkdownTreeCustom(root, outputDir, prepender(num), linker); err != nil {
		logger.WithError(err).Fatal("markdown generation")
	}

	if targetWebsite {
		if err := os.Rename(path.Join(outputDir, "buildtypes.md"), path.Join(outputDir, "_index.md")); err != nil {
			logger.WithError(err).Fatal("renaming main docs page")
		}
	}
}
