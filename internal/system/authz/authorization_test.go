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

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePermission(t *testing.T) {
	tests := []struct {
		scopes   string
		required string
		expected bool
	}{
		{"merge_runs:view merge_runs:create", "merge_runs:create", true},
		{"merge_runs:view", "merge_runs:create", false},
		{"", "merge_runs:view", false},
		{"  merge_runs:delete  ", "merge_runs:delete", true},
		{"merge_runs:viewer", "merge_runs:view", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidatePermission(tt.scopes, tt.required), "scopes %q", tt.scopes)
	}
}
