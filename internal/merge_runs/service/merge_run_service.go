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
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wso2/contact-merge-service/internal/contact/codec"
	"github.com/wso2/contact-merge-service/internal/merge"
	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/store"
	"github.com/wso2/contact-merge-service/internal/system/cache"
	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	systemContext "github.com/wso2/contact-merge-service/internal/system/context"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

// MergeRunServiceInterface defines the merge run operations.
type MergeRunServiceInterface interface {
	CreateMergeRun(ctx context.Context, tenantId string, request model.MergeRunRequest) (*model.MergeRun, error)
	GetMergeRun(tenantId, runId string) (*model.MergeRun, error)
	ListMergeRuns(tenantId string, limit int, cursor string) (*model.MergeRunPage, error)
	ExportMergeRun(ctx context.Context, tenantId, runId, format string) ([]byte, string, error)
	DeleteMergeRun(ctx context.Context, tenantId, runId string) error
}

// MergeRunService runs the merge pipeline over submitted vCards and keeps
// the outcome in the configured store.
type MergeRunService struct {
	store  store.MergeRunStoreInterface
	cache  *cache.Cache
	config config.Config
	now    func() time.Time
}

var (
	defaultService     *MergeRunService
	defaultServiceOnce sync.Once
)

// GetMergeRunService returns the shared service built from the runtime
// configuration and the installed store.
func GetMergeRunService() MergeRunServiceInterface {
	defaultServiceOnce.Do(func() {
		cfg := config.DefaultConfig()
		if config.IsRuntimeInitialized() {
			cfg = config.GetRuntime().Config
		}
		defaultService = NewMergeRunService(store.GetMergeRunStore(), cfg)
	})
	return defaultService
}

// NewMergeRunService creates a service over the given store.
func NewMergeRunService(s store.MergeRunStoreInterface, cfg config.Config) *MergeRunService {
	cfg.ApplyDefaults()
	return &MergeRunService{
		store:  s,
		cache:  cache.NewCache(time.Duration(cfg.Cache.TTLSeconds) * time.Second),
		config: cfg,
		now:    time.Now,
	}
}

// CreateMergeRun decodes the payload, merges the contacts and persists the run.
func (s *MergeRunService) CreateMergeRun(ctx context.Context, tenantId string,
	request model.MergeRunRequest) (*model.MergeRun, error) {

	logger := log.GetLogger()
	traceID := systemContext.GetOrGenerateTraceID(ctx)

	if strings.TrimSpace(request.VCards) == "" {
		return nil, errors2.NewClientErrorWithTraceID(errors2.EMPTY_VCARD_PAYLOAD, http.StatusBadRequest, traceID)
	}
	if len(request.VCards) > constants.MaxPayloadBytes {
		return nil, errors2.NewClientErrorWithTraceID(errors2.PAYLOAD_TOO_LARGE, http.StatusRequestEntityTooLarge, traceID)
	}

	decoded, err := codec.DecodeString(request.VCards)
	if err != nil {
		return nil, errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "The vCard payload could not be read.",
		}, http.StatusBadRequest, traceID)
	}
	if len(decoded.Records) == 0 {
		return nil, errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.NO_VALID_VCARDS.Code,
			Message:     errors2.NO_VALID_VCARDS.Message,
			Description: fmt.Sprintf("None of the submitted vCards has a usable full name (%d malformed).", decoded.Malformed),
		}, http.StatusBadRequest, traceID)
	}

	opts := s.resolveOptions(request)
	emitLog := s.config.Merge.EmitLog
	if request.EmitLog != nil {
		emitLog = *request.EmitLog
	}

	result := merge.Run(decoded.Records, opts)
	output, err := codec.EncodeString(result.Records)
	if err != nil {
		logger.Debug("Failed to encode merged contacts", log.String("traceId", traceID), log.Error(err))
		return nil, errors2.NewServerErrorWithTraceID(errors2.ENCODE_OUTPUT, err, traceID)
	}

	keyFields := result.KeyFields
	if keyFields == nil {
		keyFields = opts.KeyFields
	}
	run := &model.MergeRun{
		RunId:             uuid.New().String(),
		TenantId:          tenantId,
		KeyFields:         keyFields,
		RequireEvidence:   opts.RequireEvidence,
		MergeDisabled:     opts.MergeDisabled,
		Loaded:            len(decoded.Records),
		Malformed:         decoded.Malformed,
		OutputCount:       len(result.Records),
		MergedCount:       result.MergedCount,
		SkippedProperties: result.SkippedProperties,
		Warnings:          result.Warnings,
		Output:            output,
		CreatedAt:         s.now().UTC().UnixMilli(),
	}
	if emitLog {
		run.Log = result.Log
	}

	if err := s.store.AddMergeRun(run); err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey(tenantId, run.RunId), run)

	initiator, initiatorType := systemContext.GetInitiator(ctx)
	logger.Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: initiatorType,
		TargetID:      run.RunId,
		TargetType:    log.TargetTypeMergeRun,
		ActionID:      log.ActionCreateMergeRun,
		TraceID:       traceID,
		Data: map[string]interface{}{
			"tenant":       tenantId,
			"loaded":       run.Loaded,
			"malformed":    run.Malformed,
			"merged_count": run.MergedCount,
		},
	})
	logger.Info("Merge run created",
		log.String("runId", run.RunId),
		log.String("tenant", tenantId),
		log.Int("loaded", run.Loaded),
		log.Int("unique", run.OutputCount),
		log.Int("merged", run.MergedCount))
	return run, nil
}

// GetMergeRun returns a run of the tenant.
func (s *MergeRunService) GetMergeRun(tenantId, runId string) (*model.MergeRun, error) {

	if strings.TrimSpace(runId) == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Merge run id is required.",
		}, http.StatusBadRequest)
	}

	key := cacheKey(tenantId, runId)
	if cached, ok := s.cache.Get(key); ok {
		if run, ok := cached.(*model.MergeRun); ok {
			return run, nil
		}
	}

	run, err := s.store.GetMergeRun(tenantId, runId)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MERGE_RUN_NOT_FOUND.Code,
			Message:     errors2.MERGE_RUN_NOT_FOUND.Message,
			Description: fmt.Sprintf("Merge run %s not found.", runId),
		}, http.StatusNotFound)
	}
	s.cache.Set(key, run)
	return run, nil
}

// ListMergeRuns returns one page of run summaries of the tenant, newest first.
func (s *MergeRunService) ListMergeRuns(tenantId string, limit int, cursor string) (*model.MergeRunPage, error) {

	after, err := pagination.DecodeRunCursor(cursor)
	if err != nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: fmt.Sprintf("Invalid cursor: %s.", err.Error()),
		}, http.StatusBadRequest)
	}
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	// One extra row tells whether another page follows.
	summaries, err := s.store.ListMergeRuns(tenantId, limit+1, after)
	if err != nil {
		return nil, err
	}

	page := &model.MergeRunPage{MergeRuns: summaries}
	if len(summaries) > limit {
		page.MergeRuns = summaries[:limit]
		last := page.MergeRuns[limit-1]
		page.Pagination.NextCursor = pagination.EncodeRunCursor(pagination.RunCursor{
			CreatedAt: last.CreatedAt,
			RunId:     last.RunId,
		})
	}
	if page.MergeRuns == nil {
		page.MergeRuns = []model.MergeRunSummary{}
	}
	page.Pagination.Count = len(page.MergeRuns)
	page.Pagination.PageSize = limit
	return page, nil
}

// ExportMergeRun renders the merged contacts of a run as vCard or CSV and
// returns the content with its media type.
func (s *MergeRunService) ExportMergeRun(ctx context.Context, tenantId, runId, format string) ([]byte, string, error) {

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = constants.ExportFormatVCard
	}
	if format != constants.ExportFormatVCard && format != constants.ExportFormatCSV {
		return nil, "", errors2.NewClientError(errors2.UNSUPPORTED_EXPORT_FORMAT, http.StatusBadRequest)
	}

	run, err := s.GetMergeRun(tenantId, runId)
	if err != nil {
		return nil, "", err
	}

	initiator, initiatorType := systemContext.GetInitiator(ctx)
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: initiatorType,
		TargetID:      runId,
		TargetType:    log.TargetTypeMergeRun,
		ActionID:      log.ActionExportMergeRun,
		TraceID:       systemContext.GetTraceID(ctx),
		Data:          map[string]string{"tenant": tenantId, "format": format},
	})

	if format == constants.ExportFormatVCard {
		return []byte(run.Output), "text/vcard; charset=utf-8", nil
	}

	decoded, err := codec.DecodeString(run.Output)
	if err != nil {
		return nil, "", errors2.NewServerError(errors2.ENCODE_OUTPUT, err)
	}
	var buf bytes.Buffer
	if err := codec.WriteCSV(&buf, decoded.Records, s.config.Merge.CSVFields, s.config.Merge.CSVDelimiter); err != nil {
		return nil, "", errors2.NewServerError(errors2.ENCODE_OUTPUT, err)
	}
	return buf.Bytes(), "text/csv; charset=utf-8", nil
}

// DeleteMergeRun removes a run of the tenant.
func (s *MergeRunService) DeleteMergeRun(ctx context.Context, tenantId, runId string) error {

	deleted, err := s.store.DeleteMergeRun(tenantId, runId)
	if err != nil {
		return err
	}
	s.cache.Delete(cacheKey(tenantId, runId))
	if !deleted {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MERGE_RUN_NOT_FOUND.Code,
			Message:     errors2.MERGE_RUN_NOT_FOUND.Message,
			Description: fmt.Sprintf("Merge run %s not found.", runId),
		}, http.StatusNotFound)
	}

	initiator, initiatorType := systemContext.GetInitiator(ctx)
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: initiatorType,
		TargetID:      runId,
		TargetType:    log.TargetTypeMergeRun,
		ActionID:      log.ActionDeleteMergeRun,
		TraceID:       systemContext.GetTraceID(ctx),
		Data:          map[string]string{"tenant": tenantId},
	})
	return nil
}

func (s *MergeRunService) resolveOptions(request model.MergeRunRequest) merge.Options {

	opts := merge.Options{
		KeyFields:       s.config.Merge.KeyFields,
		RequireEvidence: s.config.Merge.RequireEvidence,
		MergeDisabled:   s.config.Merge.DisableMerge,
	}
	if len(request.KeyFields) > 0 {
		opts.KeyFields = request.KeyFields
	}
	if request.RequireEvidence != nil {
		opts.RequireEvidence = *request.RequireEvidence
	}
	if request.DisableMerge != nil {
		opts.MergeDisabled = *request.DisableMerge
	}
	return opts
}

func cacheKey(tenantId, runId string) string {
	return tenantId + "/" + runId
}
