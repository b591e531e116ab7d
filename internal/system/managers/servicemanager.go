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

package managers

import (
	"net/http"
	"strings"

	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/services"
	"github.com/wso2/contact-merge-service/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux             *http.ServeMux
	mergeRunService *services.MergeRunService
	healthService   *services.HealthService
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux:             mux,
		mergeRunService: services.NewMergeRunService(),
		healthService:   services.NewHealthService(),
	}
}

// NewServiceManagerWithServices creates a ServiceManager over the given services.
func NewServiceManagerWithServices(mux *http.ServeMux, mergeRuns *services.MergeRunService,
	health *services.HealthService) ServiceManagerInterface {

	return &ServiceManager{mux: mux, mergeRunService: mergeRuns, healthService: health}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	utils.RewriteToDefaultTenant(apiBasePath, sm.mux, constants.DefaultTenant)

	sm.mux.HandleFunc("/health", sm.healthService.Route)
	sm.mux.HandleFunc("/ready", sm.healthService.Route)

	// Single tenant dispatcher for all services
	utils.MountTenantDispatcher(sm.mux, apiBasePath, func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")

		switch {
		case path == "/merge-runs" || strings.HasPrefix(path, "/merge-runs/"):
			sm.mergeRunService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return nil
}
