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

package provider

import (
	"github.com/wso2/contact-merge-service/internal/health_check/service"
	"github.com/wso2/contact-merge-service/internal/merge_runs/store"
)

// HealthCheckProviderInterface supplies the readiness checks of the service.
type HealthCheckProviderInterface interface {
	GetHealthCheckService() service.HealthCheckServiceInterface
}

// HealthCheckProvider checks a fixed store, or the installed merge run
// store when none was given.
type HealthCheckProvider struct {
	store store.MergeRunStoreInterface
}

func NewHealthCheckProvider() HealthCheckProviderInterface {
	return &HealthCheckProvider{}
}

// NewHealthCheckProviderWithStore creates a provider whose readiness checks ping s.
func NewHealthCheckProviderWithStore(s store.MergeRunStoreInterface) HealthCheckProviderInterface {
	return &HealthCheckProvider{store: s}
}

func (p *HealthCheckProvider) GetHealthCheckService() service.HealthCheckServiceInterface {
	if p.store != nil {
		return service.NewHealthCheckService(p.store)
	}
	return service.GetHealthCheckService()
}
