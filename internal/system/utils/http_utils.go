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

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wso2/contact-merge-service/internal/system/constants"
	systemContext "github.com/wso2/contact-merge-service/internal/system/context"
	customerrors "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error
func HandleError(w http.ResponseWriter, err error) {

	w.Header().Set("Content-Type", "application/json")

	var clientError *customerrors.ClientError
	if errors.As(err, &clientError) {
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(clientError.ErrorMessage)
		return
	}

	var serverError *customerrors.ServerError
	if errors.As(err, &serverError) {
		log.GetLogger().Error(err.Error(), log.String("traceId", serverError.TraceID))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(customerrors.ErrorMessage{
			Code:        serverError.Code,
			Message:     serverError.Message,
			Description: "Internal server error",
			TraceID:     serverError.TraceID,
		})
		return
	}

	log.GetLogger().Error("Unhandled error", log.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Internal server error",
	})
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ExtractTenantIdFromPath returns the tenant resolved by the tenant dispatcher.
func ExtractTenantIdFromPath(r *http.Request) string {
	return systemContext.GetTenant(r.Context())
}

// RewriteToDefaultTenant redirects `/api/v1/...` to `/t/carbon.super/api/v1/...`.
func RewriteToDefaultTenant(apiBasePath string, mux *http.ServeMux, defaultTenant string) {
	mux.HandleFunc(apiBasePath+"/", func(w http.ResponseWriter, r *http.Request) {
		newPath := "/t/" + defaultTenant + r.URL.Path
		if r.URL.RawQuery != "" {
			newPath += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, newPath, http.StatusTemporaryRedirect)
	})
}

// MountTenantDispatcher routes `/t/{tenant}/api/v1/...` to handlerFunc with the
// tenant and a trace ID in the request context and the prefix stripped.
func MountTenantDispatcher(mux *http.ServeMux, apiBasePath string, handlerFunc http.HandlerFunc) {
	mux.HandleFunc("/t/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")

		// Split: /t/{tenant}/api/v1/...
		parts := strings.SplitN(strings.TrimPrefix(path, "/t/"), "/", 2)
		if len(parts) != 2 || parts[0] == "" {
			http.Error(w, "Invalid tenant path format", http.StatusBadRequest)
			return
		}

		tenantID := parts[0]
		remainingPath := "/" + parts[1]
		if !strings.HasPrefix(remainingPath, apiBasePath) {
			http.Error(w, "Path must start with "+apiBasePath, http.StatusNotFound)
			return
		}

		traceID := r.Header.Get(constants.TraceIDHeader)
		if traceID == "" {
			traceID = systemContext.GenerateTraceID()
		}
		w.Header().Set(constants.TraceIDHeader, traceID)

		ctx := systemContext.WithTenant(r.Context(), tenantID)
		ctx = systemContext.WithTraceID(ctx, traceID)
		r = r.WithContext(ctx)
		r.URL.Path = strings.TrimPrefix(remainingPath, apiBasePath)

		handlerFunc(w, r)
	})
}
