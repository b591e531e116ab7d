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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/contact-merge-service/internal/merge_runs/handler"
)

const mergeRunsPath = "/merge-runs"

// MergeRunService handles routing for merge run endpoints.
type MergeRunService struct {
	handler *handler.MergeRunHandler
}

// NewMergeRunService creates a new MergeRunService instance.
func NewMergeRunService() *MergeRunService {
	return &MergeRunService{
		handler: handler.NewMergeRunHandler(),
	}
}

// NewMergeRunServiceWithHandler creates a MergeRunService over the given handler.
func NewMergeRunServiceWithHandler(h *handler.MergeRunHandler) *MergeRunService {
	return &MergeRunService{handler: h}
}

// Route dispatches /merge-runs requests.
func (s *MergeRunService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	if path == mergeRunsPath {
		switch method {
		case http.MethodPost:
			s.handler.CreateMergeRun(w, r)
		case http.MethodGet:
			s.handler.ListMergeRuns(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /merge-runs/{runId}[/output]
	segments := strings.Split(strings.TrimPrefix(path, mergeRunsPath+"/"), "/")
	runId := segments[0]
	switch {
	case runId == "" || !strings.HasPrefix(path, mergeRunsPath+"/"):
		http.NotFound(w, r)
	case len(segments) == 1 && method == http.MethodGet:
		s.handler.GetMergeRun(w, r, runId)
	case len(segments) == 1 && method == http.MethodDelete:
		s.handler.DeleteMergeRun(w, r, runId)
	case len(segments) == 2 && segments[1] == "output" && method == http.MethodGet:
		s.handler.ExportMergeRun(w, r, runId)
	case len(segments) <= 2:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}
