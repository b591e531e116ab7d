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

import "github.com/wso2/contact-merge-service/internal/contact/model"

// Group is a set of records that share a grouping key.
type Group struct {
	Key     string
	Members []*model.Record
}

// GroupRecords partitions records by key. Groups are returned in the order
// their key was first seen; members keep their input order.
func GroupRecords(records []*model.Record, extractor *KeyExtractor) []*Group {
	index := make(map[string]*Group)
	var groups []*Group
	for _, record := range records {
		key := extractor.Key(record)
		group, ok := index[key]
		if !ok {
			group = &Group{Key: key}
			index[key] = group
			groups = append(groups, group)
		}
		group.Members = append(group.Members, record)
	}
	return groups
}
