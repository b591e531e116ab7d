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
	"slices"
	"strings"

	"github.com/wso2/contact-merge-service/internal/system/log"
)

// ValidatePermission checks whether the space separated scope string grants
// the required scope.
func ValidatePermission(scopeStr string, requiredScope string) bool {

	logger := log.GetLogger()
	if strings.TrimSpace(scopeStr) == "" {
		logger.Debug("No scopes provided", log.String("required", requiredScope))
		return false
	}

	grantedScopes := strings.Fields(scopeStr)
	if !slices.Contains(grantedScopes, requiredScope) {
		logger.Debug("Required scope not granted",
			log.String("required", requiredScope), log.Any("granted", grantedScopes))
		return false
	}
	return true
}
