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

package validate

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	projectNameRegex  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	taskNameRegex     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	propertyNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()

		switch field.Kind() {
		case reflect.String:
			return re.MatchString(field.String())
		}

		panic(fmt.Sprintf("Bad field type %T", field.Interface()))
	}
}

var (
	isProjectName  = matchString(projectNameRegex)
	isTaskName     = matchString(taskNameRegex)
	isPropertyName = matchString(propertyNameRegex)
)

// IsTaskName reports whether name can be used as a task or build type name.
func IsTaskName(name string) bool {
	return taskNameRegex.MatchString(name)
}
