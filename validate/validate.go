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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// V is the validator single instance.
//
// It is a singleton so to cache the structs info.
var V *validator.Validate

// T is the universal translator for validatiors.
var T ut.Translator

func init() {
	V = validator.New()

	// Register a function to get the field name from "name" tags.
	V.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("name"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	V.RegisterValidation("loglevel", isLogLevel)
	V.RegisterValidation("semver", isSemVer)
	V.RegisterValidation("duration", isDuration)
	V.RegisterValidation("projectname", isProjectName)
	V.RegisterValidation("taskname", isTaskName)
	V.RegisterValidation("buildtypename", isTaskName)
	V.RegisterValidation("propertyname", isPropertyName)

	eng := en.New()
	uni := ut.New(eng, eng)
	T, _ = uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(V, T)

	register := func(tag, text string) {
		V.RegisterTranslation(
			tag,
			T,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(fe.Tag(), fe.Field(), fmt.Sprintf("%v", fe.Value()))

				return t
			},
		)
	}

	register("loglevel", fmt.Sprintf("{0} must be a valid log level (%s)", strings.Join(LogLevels, ", ")))
	register("semver", "{0} must be a semver-ish string")
	register("duration", "{0} must be a valid duration like 30s or 10m")
	register("projectname", "{0} must contain only letters, digits, dots, dashes and underscores ({1})")
	register("taskname", "{0} must start with a letter and contain only letters, digits, dashes and underscores ({1})")
	register("buildtypename", "{0} must start with a letter and contain only letters, digits, dashes and underscores ({1})")
	register("propertyname", "{0} contains an invalid property name ({1})")
}

// Errors translates the validation errors contained in err, one error per failed field.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []error{err}
	}
	var errArr []error
	for _, e := range errs {
		// Translate each error one at a time
		errArr = append(errArr, errors.New(e.Translate(T)))
	}
	return errArr
}
