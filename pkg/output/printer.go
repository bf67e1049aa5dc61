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

// Package output provides the printer used by the commands to report progress and results.
package output

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
	logger "github.com/sirupsen/logrus"
)

// Printer writes log lines and tables to the same writer.
type Printer struct {
	Logger *pterm.Logger
	writer io.Writer
}

// NewPrinter creates a printer logging at level, also aligning the level of the library logger.
func NewPrinter(level string, formatter pterm.LogFormatter, writer io.Writer) *Printer {
	if writer == nil {
		writer = os.Stdout
	}
	l := pterm.DefaultLogger.
		WithLevel(ToPtermLogLevel(level)).
		WithFormatter(formatter).
		WithWriter(writer).
		WithTime(false)

	logger.SetOutput(writer)
	if lvl, err := logger.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return &Printer{Logger: l, writer: writer}
}

// ToPtermLogLevel maps a level name to the pterm level, info when unknown.
func ToPtermLogLevel(level string) pterm.LogLevel {
	switch level {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "fatal":
		return pterm.LogLevelFatal
	default:
		return pterm.LogLevelInfo
	}
}

// Writer returns the writer the printer writes to.
func (p *Printer) Writer() io.Writer {
	return p.writer
}

// Table renders rows under header.
func (p *Printer) Table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(p.writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(rows)
	table.Render() // Send output
}
