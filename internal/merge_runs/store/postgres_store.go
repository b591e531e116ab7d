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
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	contactModel "github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/system/database/lock"
	"github.com/wso2/contact-merge-service/internal/system/database/provider"
	"github.com/wso2/contact-merge-service/internal/system/database/scripts"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

const (
	dbType           = "postgres"
	retentionLockKey = "merge-run-retention"
)

// PostgresStore persists merge runs in the merge_runs table.
type PostgresStore struct {
	provider provider.DBProviderInterface
	lock     lock.DistributedLock
}

// NewPostgresStore creates a PostgresStore using the shared database provider.
func NewPostgresStore() *PostgresStore {
	return &PostgresStore{provider: provider.NewDBProvider(), lock: lock.NewPostgresLock()}
}

// AddMergeRun inserts a new merge run.
func (s *PostgresStore) AddMergeRun(run *model.MergeRun) error {

	logger := log.GetLogger()
	dbClient, err := s.provider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for inserting merge run: %s", run.RunId)
		logger.Debug(errorMsg, log.Error(err))
		return newServerError(errors2.ADD_MERGE_RUN, errorMsg, err)
	}

	mergeLog := run.Log
	if mergeLog == nil {
		mergeLog = []contactModel.MergeLogEntry{}
	}
	logJSON, err := json.Marshal(mergeLog)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to marshal merge log for run: %s", run.RunId)
		logger.Debug(errorMsg, log.Error(err))
		return newServerError(errors2.ADD_MERGE_RUN, errorMsg, err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for inserting merge run: %s", run.RunId)
		logger.Debug(errorMsg, log.Error(err))
		return newServerError(errors2.ADD_MERGE_RUN, errorMsg, err)
	}
	_, err = tx.Exec(scripts.InsertMergeRun[dbType],
		run.RunId, run.TenantId, pq.Array(nonNil(run.KeyFields)), run.RequireEvidence, run.MergeDisabled,
		run.Loaded, run.Malformed, run.OutputCount, run.MergedCount, run.SkippedProperties,
		pq.Array(nonNil(run.Warnings)), string(logJSON), run.Output, run.CreatedAt)
	if err != nil {
		if errRollback := tx.Rollback(); errRollback != nil {
			errorMsg := fmt.Sprintf("Failed to rollback inserting merge run: %s", run.RunId)
			logger.Debug(errorMsg, log.Error(errRollback))
			return newServerError(errors2.ADD_MERGE_RUN, errorMsg, errRollback)
		}
		errorMsg := fmt.Sprintf("Failed to execute query for inserting merge run: %s", run.RunId)
		logger.Debug(errorMsg, log.Error(err))
		return newServerError(errors2.ADD_MERGE_RUN, errorMsg, err)
	}
	if err := tx.Commit(); err != nil {
		errorMsg := fmt.Sprintf("Failed to commit merge run: %s", run.RunId)
		logger.Debug(errorMsg, log.Error(err))
		return newServerError(errors2.ADD_MERGE_RUN, errorMsg, err)
	}
	logger.Debug("Inserted merge run", log.String("runId", run.RunId), log.String("tenant", run.TenantId))
	return nil
}

// GetMergeRun fetches a merge run of the tenant.
func (s *PostgresStore) GetMergeRun(tenantId, runId string) (*model.MergeRun, error) {

	logger := log.GetLogger()
	dbClient, err := s.provider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching merge run: %s", runId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, newServerError(errors2.GET_MERGE_RUN, errorMsg, err)
	}

	results, err := dbClient.ExecuteQuery(scripts.GetMergeRun[dbType], tenantId, runId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for fetching merge run: %s", runId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, newServerError(errors2.GET_MERGE_RUN, errorMsg, err)
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("Merge run not found for id: %s", runId))
		return nil, nil
	}

	row := results[0]
	run := &model.MergeRun{
		RunId:             asString(row["run_id"]),
		TenantId:          asString(row["tenant_id"]),
		KeyFields:         asStringArray(row["key_fields"]),
		RequireEvidence:   asBool(row["require_evidence"]),
		MergeDisabled:     asBool(row["merge_disabled"]),
		Loaded:            int(asInt64(row["loaded"])),
		Malformed:         int(asInt64(row["malformed"])),
		OutputCount:       int(asInt64(row["output_count"])),
		MergedCount:       int(asInt64(row["merged_count"])),
		SkippedProperties: int(asInt64(row["skipped_properties"])),
		Warnings:          asStringArray(row["warnings"]),
		Output:            asString(row["output"]),
		CreatedAt:         asInt64(row["created_at"]),
	}
	if raw := asString(row["merge_log"]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &run.Log); err != nil {
			errorMsg := fmt.Sprintf("Failed to decode merge log of run: %s", runId)
			logger.Debug(errorMsg, log.Error(err))
			return nil, newServerError(errors2.GET_MERGE_RUN, errorMsg, err)
		}
		if len(run.Log) == 0 {
			run.Log = nil
		}
	}
	return run, nil
}

// ListMergeRuns returns the summaries of every run of the tenant, newest first.
func (s *PostgresStore) ListMergeRuns(tenantId string, limit int,
	after *pagination.RunCursor) ([]model.MergeRunSummary, error) {

	logger := log.GetLogger()
	dbClient, err := s.provider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for fetching merge runs."
		logger.Debug(errorMsg, log.Error(err))
		return nil, newServerError(errors2.GET_MERGE_RUNS, errorMsg, err)
	}

	var afterCreatedAt, afterRunId, pageLimit interface{}
	afterRunId = ""
	if after != nil {
		afterCreatedAt, afterRunId = after.CreatedAt, after.RunId
	}
	if limit > 0 {
		pageLimit = limit
	}
	results, err := dbClient.ExecuteQuery(scripts.ListMergeRuns[dbType], tenantId, afterCreatedAt, afterRunId, pageLimit)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for fetching merge runs of tenant: %s", tenantId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, newServerError(errors2.GET_MERGE_RUNS, errorMsg, err)
	}

	summaries := make([]model.MergeRunSummary, 0, len(results))
	for _, row := range results {
		summaries = append(summaries, model.MergeRunSummary{
			RunId:       asString(row["run_id"]),
			KeyFields:   asStringArray(row["key_fields"]),
			Loaded:      int(asInt64(row["loaded"])),
			Malformed:   int(asInt64(row["malformed"])),
			OutputCount: int(asInt64(row["output_count"])),
			MergedCount: int(asInt64(row["merged_count"])),
			CreatedAt:   asInt64(row["created_at"]),
		})
	}
	return summaries, nil
}

// DeleteMergeRun removes a run of the tenant.
func (s *PostgresStore) DeleteMergeRun(tenantId, runId string) (bool, error) {

	logger := log.GetLogger()
	dbClient, err := s.provider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for deleting merge run: %s", runId)
		logger.Debug(errorMsg, log.Error(err))
		return false, newServerError(errors2.DELETE_MERGE_RUN, errorMsg, err)
	}

	affected, err := dbClient.ExecuteStatement(scripts.DeleteMergeRun[dbType], tenantId, runId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for deleting merge run: %s", runId)
		logger.Debug(errorMsg, log.Error(err))
		return false, newServerError(errors2.DELETE_MERGE_RUN, errorMsg, err)
	}
	return affected > 0, nil
}

// DeleteMergeRunsBefore purges expired runs. Only one instance purges at a
// time; the others return zero.
func (s *PostgresStore) DeleteMergeRunsBefore(cutoff int64) (int64, error) {

	var removed int64
	_, err := s.lock.RunExclusive(retentionLockKey, func(tx *sql.Tx) error {
		res, err := tx.Exec(scripts.DeleteMergeRunsBefore[dbType], cutoff)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		errorMsg := "Failed to delete expired merge runs."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, newServerError(errors2.DELETE_MERGE_RUN, errorMsg, err)
	}
	return removed, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping() error {

	dbClient, err := s.provider.GetDBClient()
	if err != nil {
		return newServerError(errors2.DB_CLIENT_INIT, "Failed to get db client.", err)
	}
	if err := dbClient.Ping(); err != nil {
		return newServerError(errors2.DB_CLIENT_INIT, "Failed to ping database.", err)
	}
	return nil
}

func newServerError(msg errors2.ErrorMessage, description string, cause error) error {
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        msg.Code,
		Message:     msg.Message,
		Description: description,
	}, cause)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func asString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asInt64(raw interface{}) int64 {
	switch v := raw.(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func asBool(raw interface{}) bool {
	b, _ := raw.(bool)
	return b
}

func asStringArray(raw interface{}) []string {
	if raw == nil {
		return nil
	}
	var arr pq.StringArray
	if err := arr.Scan(raw); err != nil {
		log.GetLogger().Debug("Failed to parse text array column", log.Error(err))
		return nil
	}
	if len(arr) == 0 {
		return nil
	}
	return []string(arr)
}
