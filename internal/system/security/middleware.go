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

package security

import (
	"net/http"
	"strings"

	"github.com/wso2/contact-merge-service/internal/system/authn"
	"github.com/wso2/contact-merge-service/internal/system/authz"
	"github.com/wso2/contact-merge-service/internal/system/config"
	systemContext "github.com/wso2/contact-merge-service/internal/system/context"
	"github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// AuthnAndAuthz authenticates the bearer token of the request and checks it
// grants scope. The returned request carries the token claims in its context.
// When authentication is disabled the request is returned unchanged.
func AuthnAndAuthz(r *http.Request, scope string) (*http.Request, error) {

	authConfig := config.DefaultConfig().Auth
	if config.IsRuntimeInitialized() {
		authConfig = config.GetRuntime().Config.Auth
	}
	if !authConfig.Enabled {
		return r, nil
	}

	logger := log.GetLogger()
	tenant := systemContext.GetTenant(r.Context())
	traceID := systemContext.GetTraceID(r.Context())

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.NewClientErrorWithTraceID(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized, traceID)
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims, err := authn.ValidateAuthenticationAndReturnClaims(token, tenant, authConfig)
	if err != nil {
		logger.Audit(log.AuditEvent{
			InitiatorID:   "anonymous",
			InitiatorType: log.InitiatorTypeUser,
			TargetID:      tenant,
			TargetType:    log.TargetTypeMergeRun,
			ActionID:      log.ActionAuthenticationFailure,
			TraceID:       traceID,
		})
		return nil, err
	}

	scopeStr, _ := claims["scope"].(string)
	if !authz.ValidatePermission(scopeStr, scope) {
		return nil, errors.NewClientErrorWithTraceID(errors.ErrorMessage{
			Code:        errors.FORBIDDEN.Code,
			Message:     errors.FORBIDDEN.Message,
			Description: "Do not have permission to perform this operation",
		}, http.StatusForbidden, traceID)
	}

	ctx := systemContext.WithClaims(r.Context(), claims)
	subject, initiatorType := systemContext.GetInitiator(ctx)
	logger.Audit(log.AuditEvent{
		InitiatorID:   subject,
		InitiatorType: initiatorType,
		TargetID:      tenant,
		TargetType:    log.TargetTypeMergeRun,
		ActionID:      log.ActionAuthenticationSuccess,
		TraceID:       traceID,
	})
	return r.WithContext(ctx), nil
}

// CORS adds the configured cross-origin headers and answers preflight requests.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Trace-Id")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Trace-Id")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
