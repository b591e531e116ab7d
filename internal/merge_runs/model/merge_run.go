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

package model

import (
	contactModel "github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

// MergeRun is one persisted execution of the merge pipeline.
type MergeRun struct {
	RunId             string                       `json:"run_id" bson:"run_id"`
	TenantId          string                       `json:"tenant_id" bson:"tenant_id"`
	KeyFields         []string                     `json:"key_fields" bson:"key_fields"`
	RequireEvidence   bool                         `json:"require_evidence" bson:"require_evidence"`
	MergeDisabled     bool                         `json:"merge_disabled" bson:"merge_disabled"`
	Loaded            int                          `json:"loaded" bson:"loaded"`       // Valid cards read from the payload
	Malformed         int                          `json:"malformed" bson:"malformed"` // Cards dropped while decoding
	OutputCount       int                          `json:"output_count" bson:"output_count"`
	MergedCount       int                          `json:"merged_count" bson:"merged_count"`
	SkippedProperties int                          `json:"skipped_properties" bson:"skipped_properties"`
	Warnings          []string                     `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Log               []contactModel.MergeLogEntry `json:"log,omitempty" bson:"log,omitempty"`
	Output            string                       `json:"vcards,omitempty" bson:"output"`
	CreatedAt         int64                        `json:"created_at" bson:"created_at"`
}

// MergeRunRequest is the body of POST /merge-runs. Unset options fall back
// to the deployment configuration.
type MergeRunRequest struct {
	VCards          string   `json:"vcards"`
	KeyFields       []string `json:"key_fields,omitempty"`
	RequireEvidence *bool    `json:"require_evidence,omitempty"`
	DisableMerge    *bool    `json:"disable_merge,omitempty"`
	EmitLog         *bool    `json:"emit_log,omitempty"`
}

// MergeRunSummary is the list view of a run, without output or log.
type MergeRunSummary struct {
	RunId       string   `json:"run_id" bson:"run_id"`
	KeyFields   []string `json:"key_fields" bson:"key_fields"`
	Loaded      int      `json:"loaded" bson:"loaded"`
	Malformed   int      `json:"malformed" bson:"malformed"`
	OutputCount int      `json:"output_count" bson:"output_count"`
	MergedCount int      `json:"merged_count" bson:"merged_count"`
	CreatedAt   int64    `json:"created_at" bson:"created_at"`
}

// MergeRunPage is one page of GET /merge-runs.
type MergeRunPage struct {
	MergeRuns  []MergeRunSummary     `json:"merge_runs"`
	Pagination pagination.Pagination `json:"pagination"`
}

// Summary returns the list view of the run.
func (r *MergeRun) Summary() MergeRunSummary {
	return MergeRunSummary{
		RunId:       r.RunId,
		KeyFields:   r.KeyFields,
		Loaded:      r.Loaded,
		Malformed:   r.Malformed,
		OutputCount: r.OutputCount,
		MergedCount: r.MergedCount,
		CreatedAt:   r.CreatedAt,
	}
}
