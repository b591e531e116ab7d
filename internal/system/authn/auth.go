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

package authn

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wso2/contact-merge-service/internal/system/config"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// ValidateAuthenticationAndReturnClaims verifies an HS256 bearer token against
// the configured secret and audience and checks it was issued for orgHandle.
func ValidateAuthenticationAndReturnClaims(token, orgHandle string, authConfig config.AuthConfig) (map[string]interface{}, error) {

	logger := log.GetLogger()
	if authConfig.JWTSecret == "" {
		logger.Warn("Authentication is enabled but no JWT secret is configured.")
		return nil, unauthorizedError()
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(authConfig.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(authConfig.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logger.Debug("Token validation failed.", log.Error(err))
		return nil, unauthorizedError()
	}

	if !validateOrgHandle(orgHandle, claims) {
		return nil, unauthorizedError()
	}
	return claims, nil
}

// validateOrgHandle ensures the token was issued for the tenant in the request path.
func validateOrgHandle(orgHandle string, claims jwt.MapClaims) bool {

	orgHandleInClaim, ok := claims["org_handle"].(string)
	if !ok || orgHandleInClaim != orgHandle {
		log.GetLogger().Debug("Token does not have the expected org_handle claim.",
			log.String("expected", orgHandle))
		return false
	}
	return true
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
