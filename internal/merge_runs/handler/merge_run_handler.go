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
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/provider"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
	"github.com/wso2/contact-merge-service/internal/system/security"
	"github.com/wso2/contact-merge-service/internal/system/utils"
)

// requestOverhead leaves room for the JSON envelope around the vCard payload.
const requestOverhead = 64 << 10

type MergeRunHandler struct {
	provider provider.MergeRunProviderInterface
}

func NewMergeRunHandler() *MergeRunHandler {
	return &MergeRunHandler{provider: provider.NewMergeRunProvider()}
}

// NewMergeRunHandlerWithProvider creates a handler over the given provider.
func NewMergeRunHandlerWithProvider(p provider.MergeRunProviderInterface) *MergeRunHandler {
	return &MergeRunHandler{provider: p}
}

// CreateMergeRun handles POST /merge-runs. The body is either a JSON
// MergeRunRequest or raw text/vcard with options in the query string.
func (h *MergeRunHandler) CreateMergeRun(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.ScopeMergeRunCreate)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxPayloadBytes+requestOverhead)
	request, err := decodeMergeRunRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	tenantId := utils.ExtractTenantIdFromPath(r)
	mergeRunService := h.provider.GetMergeRunService()
	run, err := mergeRunService.CreateMergeRun(r.Context(), tenantId, request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Location", "/t/"+tenantId+constants.ApiBasePath+"/merge-runs/"+run.RunId)
	utils.WriteJSON(w, http.StatusCreated, run)
}

// ListMergeRuns handles GET /merge-runs?limit=&cursor=
func (h *MergeRunHandler) ListMergeRuns(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.ScopeMergeRunView)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Query parameter limit must be a positive integer.",
		}, http.StatusBadRequest))
		return
	}
	mergeRunService := h.provider.GetMergeRunService()
	runs, err := mergeRunService.ListMergeRuns(utils.ExtractTenantIdFromPath(r), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, runs)
}

// GetMergeRun handles GET /merge-runs/{runId}
func (h *MergeRunHandler) GetMergeRun(w http.ResponseWriter, r *http.Request, runId string) {

	r, err := security.AuthnAndAuthz(r, constants.ScopeMergeRunView)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	mergeRunService := h.provider.GetMergeRunService()
	run, err := mergeRunService.GetMergeRun(utils.ExtractTenantIdFromPath(r), runId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, run)
}

// ExportMergeRun handles GET /merge-runs/{runId}/output?format=vcf|csv
func (h *MergeRunHandler) ExportMergeRun(w http.ResponseWriter, r *http.Request, runId string) {

	r, err := security.AuthnAndAuthz(r, constants.ScopeMergeRunView)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	mergeRunService := h.provider.GetMergeRunService()
	content, contentType, err := mergeRunService.ExportMergeRun(r.Context(), utils.ExtractTenantIdFromPath(r), runId, format)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	extension := constants.ExportFormatVCard
	if strings.HasPrefix(contentType, "text/csv") {
		extension = constants.ExportFormatCSV
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment",
		map[string]string{"filename": runId + "." + extension}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// DeleteMergeRun handles DELETE /merge-runs/{runId}
func (h *MergeRunHandler) DeleteMergeRun(w http.ResponseWriter, r *http.Request, runId string) {

	r, err := security.AuthnAndAuthz(r, constants.ScopeMergeRunDelete)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	mergeRunService := h.provider.GetMergeRunService()
	if err := mergeRunService.DeleteMergeRun(r.Context(), utils.ExtractTenantIdFromPath(r), runId); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeMergeRunRequest(r *http.Request) (model.MergeRunRequest, error) {

	var request model.MergeRunRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "text/vcard" || mediaType == "text/x-vcard" || mediaType == "text/plain" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return request, decodeError(err)
		}
		request.VCards = string(body)
		return request, queryOptions(r, &request)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		return request, decodeError(err)
	}
	return request, nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errors2.NewClientError(errors2.PAYLOAD_TOO_LARGE, http.StatusRequestEntityTooLarge)
	}
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.BAD_REQUEST.Code,
		Message:     errors2.BAD_REQUEST.Message,
		Description: utils.HandleDecodeError(err, constants.MergeRunResource),
	}, http.StatusBadRequest)
}

// queryOptions reads key_fields, require_evidence, disable_merge and emit_log
// from the query string.
func queryOptions(r *http.Request, request *model.MergeRunRequest) error {

	query := r.URL.Query()
	if keys := query.Get("key_fields"); keys != "" {
		request.KeyFields = strings.Split(keys, ",")
	}
	flags := map[string]**bool{
		"require_evidence": &request.RequireEvidence,
		"disable_merge":    &request.DisableMerge,
		"emit_log":         &request.EmitLog,
	}
	for name, target := range flags {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.BAD_REQUEST.Code,
				Message:     errors2.BAD_REQUEST.Message,
				Description: "Query parameter " + name + " must be a boolean.",
			}, http.StatusBadRequest)
		}
		*target = &value
	}
	return nil
}
