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

package service

import (
	"fmt"

	"github.com/wso2/contact-merge-service/internal/merge_runs/store"
	"github.com/wso2/contact-merge-service/internal/system/config"
)

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness() error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	store store.MergeRunStoreInterface
}

// GetHealthCheckService returns a service that checks the installed merge run store.
func GetHealthCheckService() HealthCheckServiceInterface {
	return &HealthCheckService{store: store.GetMergeRunStore()}
}

// NewHealthCheckService creates a service over the given store.
func NewHealthCheckService(s store.MergeRunStoreInterface) HealthCheckServiceInterface {
	return &HealthCheckService{store: s}
}

// CheckReadiness reports whether the service is configured and its datastore reachable.
func (h *HealthCheckService) CheckReadiness() error {

	if !config.IsRuntimeInitialized() {
		return fmt.Errorf("runtime configuration is not initialized")
	}
	if err := h.store.Ping(); err != nil {
		return fmt.Errorf("datastore connectivity check failed: %w", err)
	}
	return nil
}
