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
	"fmt"

	"github.com/wso2/contact-merge-service/internal/system/constants"
)

// MergeLogEntry records the decision taken for one group of records.
type MergeLogEntry struct {
	Key         string `json:"key" bson:"key"`
	Size        int    `json:"size" bson:"size"`
	Action      string `json:"action" bson:"action"`
	AddedFields int    `json:"added_fields" bson:"added_fields"`
	Reason      string `json:"reason,omitempty" bson:"reason,omitempty"`
}

// String renders the entry as one line of audit text.
func (e MergeLogEntry) String() string {
	if e.Action == constants.MergeActionSkipped {
		return fmt.Sprintf("Group %q (%d records): skipped as unsafe, %s", e.Key, e.Size, e.Reason)
	}
	return fmt.Sprintf("Group %q (%d records): merged, %d new fields added", e.Key, e.Size, e.AddedFields)
}
