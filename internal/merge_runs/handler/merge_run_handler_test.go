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

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/service"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	systemContext "github.com/wso2/contact-merge-service/internal/system/context"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// recordingService captures the request handed over by the handler.
type recordingService struct {
	service.MergeRunServiceInterface
	tenant  string
	request model.MergeRunRequest
	calls   int
}

func (s *recordingService) CreateMergeRun(_ context.Context, tenantId string,
	request model.MergeRunRequest) (*model.MergeRun, error) {
	s.calls++
	s.tenant = tenantId
	s.request = request
	return &model.MergeRun{RunId: "run-1", TenantId: tenantId}, nil
}

type recordingProvider struct {
	svc *recordingService
}

func (p *recordingProvider) GetMergeRunService() service.MergeRunServiceInterface {
	return p.svc
}

func newRequest(method, target, contentType, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	return req.WithContext(systemContext.WithTenant(req.Context(), "acme"))
}

func TestCreateMergeRun_JSONBody(t *testing.T) {
	svc := &recordingService{}
	h := NewMergeRunHandlerWithProvider(&recordingProvider{svc: svc})

	rec := httptest.NewRecorder()
	h.CreateMergeRun(rec, newRequest(http.MethodPost, "/merge-runs", "application/json",
		`{"vcards":"BEGIN:VCARD","key_fields":["FN"],"require_evidence":false}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/t/acme"+constants.ApiBasePath+"/merge-runs/run-1", rec.Header().Get("Location"))
	assert.Equal(t, "acme", svc.tenant)
	assert.Equal(t, "BEGIN:VCARD", svc.request.VCards)
	assert.Equal(t, []string{"FN"}, svc.request.KeyFields)
	require.NotNil(t, svc.request.RequireEvidence)
	assert.False(t, *svc.request.RequireEvidence)
	assert.Nil(t, svc.request.DisableMerge)
	assert.Nil(t, svc.request.EmitLog)
}

func TestCreateMergeRun_RawBodyWithQueryOptions(t *testing.T) {
	svc := &recordingService{}
	h := NewMergeRunHandlerWithProvider(&recordingProvider{svc: svc})

	rec := httptest.NewRecorder()
	h.CreateMergeRun(rec, newRequest(http.MethodPost,
		"/merge-runs?key_fields=fn,email&disable_merge=true&emit_log=1", "text/x-vcard; charset=utf-8", "raw cards"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "raw cards", svc.request.VCards)
	assert.Equal(t, []string{"fn", "email"}, svc.request.KeyFields)
	require.NotNil(t, svc.request.DisableMerge)
	assert.True(t, *svc.request.DisableMerge)
	require.NotNil(t, svc.request.EmitLog)
	assert.True(t, *svc.request.EmitLog)
	assert.Nil(t, svc.request.RequireEvidence)
}

func TestCreateMergeRun_PayloadTooLarge(t *testing.T) {
	svc := &recordingService{}
	h := NewMergeRunHandlerWithProvider(&recordingProvider{svc: svc})

	rec := httptest.NewRecorder()
	h.CreateMergeRun(rec, newRequest(http.MethodPost, "/merge-runs", "text/vcard",
		strings.Repeat("x", constants.MaxPayloadBytes+requestOverhead+1)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, svc.calls)
	var msg errors2.ErrorMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, errors2.PAYLOAD_TOO_LARGE.Code, msg.Code)
}

func TestCreateMergeRun_DecodeErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		description string
	}{
		{"empty body", "", "Request body for merge run is empty."},
		{"array body", `[]`, "Request body for merge run must be a JSON object."},
		{"wrong type", `{"vcards":1}`, "Invalid type for field 'vcards' in merge run request body."},
		{"unknown field", `{"other":1}`, `Unknown field "other" in merge run request body.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &recordingService{}
			h := NewMergeRunHandlerWithProvider(&recordingProvider{svc: svc})

			rec := httptest.NewRecorder()
			h.CreateMergeRun(rec, newRequest(http.MethodPost, "/merge-runs", "application/json", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
			var msg errors2.ErrorMessage
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
			assert.Equal(t, errors2.BAD_REQUEST.Code, msg.Code)
			assert.Equal(t, tt.description, msg.Description)
		})
	}
}
