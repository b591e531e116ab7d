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
	"errors"
	"fmt"
	"sync"

	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/database/mongodb"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

// MergeRunStoreInterface persists merge runs per tenant.
type MergeRunStoreInterface interface {
	AddMergeRun(run *model.MergeRun) error
	// GetMergeRun returns nil without an error when the run does not exist.
	GetMergeRun(tenantId, runId string) (*model.MergeRun, error)
	// ListMergeRuns returns runs newest first, starting after the cursor when
	// one is given. A limit of zero or less returns every remaining run.
	ListMergeRuns(tenantId string, limit int, after *pagination.RunCursor) ([]model.MergeRunSummary, error)
	// DeleteMergeRun reports whether a run was removed.
	DeleteMergeRun(tenantId, runId string) (bool, error)
	// DeleteMergeRunsBefore removes the runs of every tenant created before
	// cutoff (unix milliseconds) and returns how many were removed.
	DeleteMergeRunsBefore(cutoff int64) (int64, error)
	Ping() error
}

var (
	current   MergeRunStoreInterface
	currentMu sync.RWMutex
)

// NewMergeRunStore creates the store for the configured datastore type.
func NewMergeRunStore(cfg config.Config) (MergeRunStoreInterface, error) {

	switch cfg.Datastore.Type {
	case constants.DatastoreMemory, "":
		return NewMemoryStore(), nil
	case constants.DatastorePostgres:
		return NewPostgresStore(), nil
	case constants.DatastoreMongoDB:
		db, err := mongodb.Connect(cfg.MongoDB)
		if err != nil {
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.MONGO_OPERATION.Code,
				Message:     errors2.MONGO_OPERATION.Message,
				Description: "Failed to connect to MongoDB.",
			}, err)
		}
		return NewMongoStore(db.Database.Collection(cfg.MongoDB.Collection)), nil
	default:
		errorMsg := fmt.Sprintf("Datastore type %q is not supported.", cfg.Datastore.Type)
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNKNOWN_DATASTORE.Code,
			Message:     errors2.UNKNOWN_DATASTORE.Message,
			Description: errorMsg,
		}, errors.New(errorMsg))
	}
}

// SetMergeRunStore installs the store used by the merge run service.
func SetMergeRunStore(s MergeRunStoreInterface) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = s
}

// GetMergeRunStore returns the installed store. An in-memory store is
// installed on first use when none was configured.
func GetMergeRunStore() MergeRunStoreInterface {

	currentMu.RLock()
	s := current
	currentMu.RUnlock()
	if s != nil {
		return s
	}

	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		log.GetLogger().Warn("No merge run store configured, using in-memory store")
		current = NewMemoryStore()
	}
	return current
}
