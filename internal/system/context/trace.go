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

package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// GetOrGenerateTraceID extracts the trace ID from the context or generates a new one
func GetOrGenerateTraceID(ctx context.Context) string {
	if traceID := GetTraceID(ctx); traceID != "" {
		return traceID
	}
	return GenerateTraceID()
}

// GenerateTraceID generates a new UUID-based trace ID
func GenerateTraceID() string {
	return uuid.New().String()
}

// GetTraceID extracts the trace ID from the context, returns empty string if not found
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(constants.TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, constants.TraceIDContextKey, traceID)
}

// WithTenant adds the tenant handle to the context.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, constants.TenantContextKey, tenant)
}

// GetTenant returns the tenant handle, or the default tenant when none is set.
func GetTenant(ctx context.Context) string {
	if tenant, ok := ctx.Value(constants.TenantContextKey).(string); ok && tenant != "" {
		return tenant
	}
	return constants.DefaultTenant
}

// WithClaims adds validated token claims to the context.
func WithClaims(ctx context.Context, claims map[string]interface{}) context.Context {
	return context.WithValue(ctx, constants.ClaimsContextKey, claims)
}

// GetInitiator returns the subject of the authenticated token, or "system"
// for unauthenticated calls.
func GetInitiator(ctx context.Context) (id string, initiatorType string) {
	if claims, ok := ctx.Value(constants.ClaimsContextKey).(map[string]interface{}); ok {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub, log.InitiatorTypeUser
		}
	}
	return log.InitiatorTypeSystem, log.InitiatorTypeSystem
}
