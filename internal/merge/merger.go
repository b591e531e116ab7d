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
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

const unsafeMergeReason = "no email or telephone is shared by two or more members"

// Merger combines the members of a group into a single record.
type Merger struct {
	requireEvidence bool
}

// MergeOutcome is the result of merging one group.
type MergeOutcome struct {
	// Records holds the merged base, or every member when the group was left alone.
	Records []*model.Record
	// Absorbed is the number of members folded into the base.
	Absorbed          int
	AddedFields       int
	SkippedProperties int
	// Entry is nil for single-member groups.
	Entry *model.MergeLogEntry
}

// NewMerger creates a Merger. When requireEvidence is set, groups without a
// shared email or telephone are left unmerged.
func NewMerger(requireEvidence bool) *Merger {
	return &Merger{requireEvidence: requireEvidence}
}

// Merge folds every member of the group into the first member. The base
// record is modified in place: properties are appended, never removed.
func (m *Merger) Merge(group *Group) MergeOutcome {

	if len(group.Members) < 2 {
		return MergeOutcome{Records: group.Members}
	}

	logger := log.GetLogger()
	if m.requireEvidence && !HasCorroboratingEvidence(group.Members) {
		logger.Debug("Skipping merge of group without corroborating evidence",
			log.String("key", group.Key), log.Int("size", len(group.Members)))
		return MergeOutcome{
			Records: group.Members,
			Entry: &model.MergeLogEntry{
				Key:    group.Key,
				Size:   len(group.Members),
				Action: constants.MergeActionSkipped,
				Reason: unsafeMergeReason,
			},
		}
	}

	base := group.Members[0]
	seen := make(map[string]struct{}, len(base.Properties))
	for _, p := range base.Properties {
		if p.IsNameProperty() {
			continue
		}
		if canonical, err := p.Canonical(); err == nil {
			seen[canonical] = struct{}{}
		}
	}

	outcome := MergeOutcome{Records: []*model.Record{base}, Absorbed: len(group.Members) - 1}
	for _, member := range group.Members[1:] {
		for _, p := range member.Properties {
			if p.IsNameProperty() {
				continue
			}
			canonical, err := p.Canonical()
			if err != nil {
				outcome.SkippedProperties++
				logger.Debug("Skipping property that cannot be serialized",
					log.String("key", group.Key), log.String("property", p.Name), log.Error(err))
				continue
			}
			if _, ok := seen[canonical]; ok {
				continue
			}
			seen[canonical] = struct{}{}
			base.Add(p.Clone())
			outcome.AddedFields++
		}
	}

	outcome.Entry = &model.MergeLogEntry{
		Key:         group.Key,
		Size:        len(group.Members),
		Action:      constants.MergeActionMerged,
		AddedFields: outcome.AddedFields,
	}
	return outcome
}
