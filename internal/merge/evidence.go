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
	"sort"

	"github.com/wso2/contact-merge-service/internal/contact/model"
)

// HasCorroboratingEvidence reports whether at least one normalized email or
// telephone is carried by two or more distinct members. A value repeated on
// a single record does not count.
func HasCorroboratingEvidence(members []*model.Record) bool {
	return len(SharedIdentifiers(members)) > 0
}

// SharedIdentifiers returns the normalized emails and telephones that appear
// on more than one distinct member, sorted.
func SharedIdentifiers(members []*model.Record) []string {
	if len(members) < 2 {
		return nil
	}

	// Each record contributes a value at most once, since the normalized
	// sets are already deduplicated per record.
	emailCounts := make(map[string]int)
	phoneCounts := make(map[string]int)
	for _, member := range members {
		for _, email := range normalizedEmails(member) {
			emailCounts[email]++
		}
		for _, phone := range normalizedPhones(member) {
			phoneCounts[phone]++
		}
	}

	var shared []string
	for email, count := range emailCounts {
		if count > 1 {
			shared = append(shared, email)
		}
	}
	for phone, count := range phoneCounts {
		if count > 1 {
			shared = append(shared, phone)
		}
	}
	sort.Strings(shared)
	return shared
}
