/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/wso2/contact-merge-service/internal/system/constants"
)

// Params holds the parameters of a property, e.g. TYPE=work,voice.
type Params map[string][]string

// Property is one line of a contact record.
type Property struct {
	Group  string
	Name   string
	Params Params
	// Value is the raw property value. Compound properties such as N, ADR and
	// ORG keep their components separated by unescaped semicolons.
	Value string
}

// Record is an in-memory contact. Properties are kept in order.
type Record struct {
	Version    string
	Properties []*Property
}

// NewProperty creates a property with an upper-cased name.
func NewProperty(name, value string) *Property {
	return &Property{Name: strings.ToUpper(strings.TrimSpace(name)), Value: value}
}

// WithParam adds a parameter value and returns the property.
func (p *Property) WithParam(key string, values ...string) *Property {
	if p.Params == nil {
		p.Params = Params{}
	}
	key = strings.ToUpper(key)
	p.Params[key] = append(p.Params[key], values...)
	return p
}

// Is reports whether the property has the given name, ignoring case.
func (p *Property) Is(name string) bool {
	return strings.EqualFold(p.Name, name)
}

// Components splits the value on unescaped semicolons.
func (p *Property) Components() []string {
	var (
		components []string
		current    strings.Builder
		escaped    bool
	)
	for _, r := range p.Value {
		switch {
		case escaped:
			current.WriteRune('\\')
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			components = append(components, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	return append(components, current.String())
}

// Canonical renders the property in a stable textual form used to decide
// whether two properties carry identical content. Parameter names and values
// are sorted, so parameter order never makes two properties distinct.
func (p *Property) Canonical() (string, error) {
	name := strings.ToUpper(strings.TrimSpace(p.Name))
	if name == "" {
		return "", errors.New("property has no name")
	}
	if !utf8.ValidString(p.Value) {
		return "", errors.Errorf("property %s has a value that is not valid UTF-8", name)
	}

	var b strings.Builder
	if p.Group != "" {
		b.WriteString(strings.ToLower(p.Group))
		b.WriteByte('.')
	}
	b.WriteString(name)

	keys := make([]string, 0, len(p.Params))
	for k := range p.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values := append([]string(nil), p.Params[k]...)
		for i, v := range values {
			if !utf8.ValidString(v) {
				return "", errors.Errorf("property %s has a parameter %s that is not valid UTF-8", name, k)
			}
			values[i] = strings.ToLower(v)
		}
		sort.Strings(values)
		b.WriteByte(';')
		b.WriteString(strings.ToUpper(k))
		b.WriteByte('=')
		b.WriteString(strings.Join(values, ","))
	}
	b.WriteByte(':')
	b.WriteString(p.Value)
	return b.String(), nil
}

// Clone returns a deep copy of the property.
func (p *Property) Clone() *Property {
	clone := &Property{Group: p.Group, Name: p.Name, Value: p.Value}
	if p.Params != nil {
		clone.Params = make(Params, len(p.Params))
		for k, v := range p.Params {
			clone.Params[k] = append([]string(nil), v...)
		}
	}
	return clone
}

// IsNameProperty reports whether the property is N or FN. A merged record
// keeps exactly one of each, taken from the base record.
func (p *Property) IsNameProperty() bool {
	return p.Is(constants.PropertyName) || p.Is(constants.PropertyFormattedName)
}

// Get returns the first property with the given name, or nil.
func (r *Record) Get(name string) *Property {
	for _, p := range r.Properties {
		if p.Is(name) {
			return p
		}
	}
	return nil
}

// All returns every property with the given name in record order.
func (r *Record) All(name string) []*Property {
	var props []*Property
	for _, p := range r.Properties {
		if p.Is(name) {
			props = append(props, p)
		}
	}
	return props
}

// Values returns the values of every property with the given name.
func (r *Record) Values(name string) []string {
	var values []string
	for _, p := range r.All(name) {
		values = append(values, p.Value)
	}
	return values
}

// FormattedName returns the trimmed FN value, or "" when absent.
func (r *Record) FormattedName() string {
	if fn := r.Get(constants.PropertyFormattedName); fn != nil {
		return strings.TrimSpace(fn.Value)
	}
	return ""
}

// IsNamed reports whether the record has a non-empty FN.
func (r *Record) IsNamed() bool {
	return r.FormattedName() != ""
}

// Add appends a property.
func (r *Record) Add(p *Property) {
	r.Properties = append(r.Properties, p)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := &Record{Version: r.Version, Properties: make([]*Property, 0, len(r.Properties))}
	for _, p := range r.Properties {
		clone.Properties = append(clone.Properties, p.Clone())
	}
	return clone
}
