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

package merge

import (
	"github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// Options controls a merge run.
type Options struct {
	KeyFields       []string
	RequireEvidence bool
	// MergeDisabled returns the input untouched without grouping.
	MergeDisabled bool
}

// Result is the outcome of a merge run.
type Result struct {
	Records []*model.Record
	// KeyFields are the effective key fields after validation.
	KeyFields         []string
	MergedCount       int
	Groups            int
	SkippedProperties int
	Log               []model.MergeLogEntry
	Warnings          []string
}

// LogLines renders the merge log as text.
func (r Result) LogLines() []string {
	lines := make([]string, 0, len(r.Log))
	for _, entry := range r.Log {
		lines = append(lines, entry.String())
	}
	return lines
}

// Run groups the records by key and merges every group. It never fails: bad
// properties are skipped and reported through the result.
func Run(records []*model.Record, opts Options) Result {

	logger := log.GetLogger()
	if opts.MergeDisabled {
		logger.Info("Merging is disabled, returning records unchanged", log.Int("records", len(records)))
		return Result{Records: records}
	}

	extractor := NewKeyExtractor(opts.KeyFields)
	groups := GroupRecords(records, extractor)
	merger := NewMerger(opts.RequireEvidence)

	result := Result{
		Records:   make([]*model.Record, 0, len(records)),
		KeyFields: extractor.Fields(),
		Groups:    len(groups),
		Warnings:  extractor.Warnings(),
	}
	for _, group := range groups {
		outcome := merger.Merge(group)
		result.Records = append(result.Records, outcome.Records...)
		result.MergedCount += outcome.Absorbed
		result.SkippedProperties += outcome.SkippedProperties
		if outcome.Entry != nil {
			result.Log = append(result.Log, *outcome.Entry)
		}
	}

	logger.Info("Merge run completed",
		log.Int("input", len(records)),
		log.Int("groups", result.Groups),
		log.Int("output", len(result.Records)),
		log.Int("merged", result.MergedCount),
		log.Any("key_fields", extractor.Fields()))
	return result
}
