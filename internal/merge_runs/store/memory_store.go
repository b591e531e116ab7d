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

package store

import (
	"sort"
	"sync"

	contactModel "github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

// MemoryStore keeps merge runs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]map[string]*model.MergeRun
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]map[string]*model.MergeRun)}
}

func (s *MemoryStore) AddMergeRun(run *model.MergeRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantRuns, ok := s.runs[run.TenantId]
	if !ok {
		tenantRuns = make(map[string]*model.MergeRun)
		s.runs[run.TenantId] = tenantRuns
	}
	tenantRuns[run.RunId] = cloneRun(run)
	return nil
}

func (s *MemoryStore) GetMergeRun(tenantId, runId string) (*model.MergeRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[tenantId][runId]
	if !ok {
		return nil, nil
	}
	return cloneRun(run), nil
}

func (s *MemoryStore) ListMergeRuns(tenantId string, limit int,
	after *pagination.RunCursor) ([]model.MergeRunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]model.MergeRunSummary, 0, len(s.runs[tenantId]))
	for _, run := range s.runs[tenantId] {
		if after != nil && !after.After(run.CreatedAt, run.RunId) {
			continue
		}
		summaries = append(summaries, run.Summary())
	}
	sortSummaries(summaries)
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (s *MemoryStore) DeleteMergeRun(tenantId, runId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[tenantId][runId]; !ok {
		return false, nil
	}
	delete(s.runs[tenantId], runId)
	return true, nil
}

func (s *MemoryStore) DeleteMergeRunsBefore(cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for tenantId, tenantRuns := range s.runs {
		for runId, run := range tenantRuns {
			if run.CreatedAt < cutoff {
				delete(tenantRuns, runId)
				removed++
			}
		}
		if len(tenantRuns) == 0 {
			delete(s.runs, tenantId)
		}
	}
	return removed, nil
}

func (s *MemoryStore) Ping() error {
	return nil
}

// sortSummaries orders runs newest first.
func sortSummaries(summaries []model.MergeRunSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt != summaries[j].CreatedAt {
			return summaries[i].CreatedAt > summaries[j].CreatedAt
		}
		return summaries[i].RunId < summaries[j].RunId
	})
}

func cloneRun(run *model.MergeRun) *model.MergeRun {
	clone := *run
	clone.KeyFields = append([]string(nil), run.KeyFields...)
	clone.Warnings = append([]string(nil), run.Warnings...)
	clone.Log = append([]contactModel.MergeLogEntry(nil), run.Log...)
	return &clone
}
