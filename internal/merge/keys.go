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

package merge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

var propertyNamePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// KeyExtractor derives the grouping key of a record from a list of property names.
type KeyExtractor struct {
	fields   []string
	warnings []string
}

// NewKeyExtractor resolves the configured key fields. Unusable names are
// dropped with a warning; when nothing usable remains the extractor falls
// back to the full name.
func NewKeyExtractor(fields []string) *KeyExtractor {

	logger := log.GetLogger()
	ke := &KeyExtractor{}
	seen := make(map[string]bool)
	for _, raw := range fields {
		name := strings.ToUpper(strings.TrimSpace(raw))
		if alias, ok := constants.KeyFieldAliases[name]; ok {
			name = alias
		}
		if name == "" {
			continue
		}
		if !propertyNamePattern.MatchString(name) {
			warning := fmt.Sprintf("Ignoring invalid key field: %q", raw)
			logger.Warn(warning)
			ke.warnings = append(ke.warnings, warning)
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		ke.fields = append(ke.fields, name)
	}

	if len(ke.fields) == 0 {
		warning := fmt.Sprintf("No valid key fields configured, falling back to %s", constants.PropertyFormattedName)
		logger.Warn(warning, log.Any("configured_fields", fields))
		ke.warnings = append(ke.warnings, warning)
		ke.fields = append([]string(nil), constants.DefaultKeyFields...)
	}
	return ke
}

// Fields returns the resolved vCard property names used for the key.
func (ke *KeyExtractor) Fields() []string {
	return append([]string(nil), ke.fields...)
}

// Warnings returns the configuration warnings raised while resolving fields.
func (ke *KeyExtractor) Warnings() []string {
	return append([]string(nil), ke.warnings...)
}

// Key computes the normalized grouping key of a record.
func (ke *KeyExtractor) Key(record *model.Record) string {
	parts := make([]string, 0, len(ke.fields))
	for _, field := range ke.fields {
		parts = append(parts, subKey(record, field))
	}
	return strings.ToLower(strings.Join(parts, constants.KeyFieldDelimiter))
}

func subKey(record *model.Record, field string) string {
	switch field {
	case constants.PropertyFormattedName:
		return strings.ToLower(record.FormattedName())
	case constants.PropertyEmail:
		return strings.Join(normalizedEmails(record), constants.KeyValueDelimiter)
	case constants.PropertyTelephone:
		return strings.Join(normalizedPhones(record), constants.KeyValueDelimiter)
	default:
		if p := record.Get(field); p != nil {
			return strings.TrimSpace(p.Value)
		}
		return ""
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizePhone keeps only the digits of a telephone number.
func NormalizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizedEmails returns the distinct normalized emails of a record, sorted.
func normalizedEmails(record *model.Record) []string {
	return normalizedSet(record.Values(constants.PropertyEmail), NormalizeEmail)
}

// normalizedPhones returns the distinct digit-only telephones of a record, sorted.
func normalizedPhones(record *model.Record) []string {
	return normalizedSet(record.Values(constants.PropertyTelephone), NormalizePhone)
}

func normalizedSet(values []string, normalize func(string) string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}
