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

package project

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownProperty = errors.New("unknown property")

// DeclareProperty adds a property to the project with its initial value.
func (p *Project) DeclareProperty(name, value string) {
	p.properties[name] = value
}

// HasProperty reports whether name is a declared or extra property of the project
// or of one of its ancestors.
func (p *Project) HasProperty(name string) bool {
	_, ok := p.Property(name)
	return ok
}

// Property resolves name on the project first, then on its ancestors.
func (p *Project) Property(name string) (string, bool) {
	for cur := p; cur != nil; cur = cur.parent {
		if v, ok := cur.extra[name]; ok {
			return v, true
		}
		if v, ok := cur.properties[name]; ok {
			return v, true
		}
	}
	return "", false
}

// SetProperty changes an existing property.
//
// Properties inherited from an ancestor are shadowed on this project, the ancestor keeps its value.
func (p *Project) SetProperty(name, value string) error {
	if _, ok := p.properties[name]; ok {
		p.properties[name] = value
		return nil
	}
	if _, ok := p.extra[name]; ok {
		p.extra[name] = value
		return nil
	}
	if !p.HasProperty(name) {
		return fmt.Errorf("%w %q on %s", ErrUnknownProperty, name, p)
	}
	p.extra[name] = value
	return nil
}

// SetExtraProperty creates or replaces an extra property on the project.
func (p *Project) SetExtraProperty(name, value string) {
	p.extra[name] = value
}

// ExtraProperties returns a copy of the project's own extra properties.
func (p *Project) ExtraProperties() map[string]string {
	res := make(map[string]string, len(p.extra))
	for k, v := range p.extra {
		res[k] = v
	}
	return res
}

// EffectiveProperties merges every property visible from the project.
func (p *Project) EffectiveProperties() map[string]string {
	var chain []*Project
	for cur := p; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	res := map[string]string{}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].properties {
			res[k] = v
		}
		for k, v := range chain[i].extra {
			res[k] = v
		}
	}
	return res
}

// PropertyNames returns the sorted names of the effective properties.
func (p *Project) PropertyNames() []string {
	props := p.EffectiveProperties()
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
