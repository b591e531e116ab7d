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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/contact-merge-service/internal/contact/model"
)

func janeDoeRecords() []*model.Record {
	return []*model.Record{
		card("FN", "Jane Doe", "EMAIL", "jane@x.com"),
		card("FN", "jane doe", "TEL", "(555) 123-4567"),
		card("FN", "Jane Doe", "EMAIL", "jane@x.com", "ORG", "Acme"),
	}
}

func TestRun_CollapsesDuplicatesByFullName(t *testing.T) {
	result := Run(janeDoeRecords(), Options{})

	require.Len(t, result.Records, 1)
	assert.Equal(t, 2, result.MergedCount)
	assert.Equal(t, 1, result.Groups)

	merged := result.Records[0]
	assert.Equal(t, "Jane Doe", merged.FormattedName())
	assert.Equal(t, []string{"jane@x.com"}, merged.Values("EMAIL"))
	assert.Equal(t, []string{"(555) 123-4567"}, merged.Values("TEL"))
	assert.Equal(t, []string{"Acme"}, merged.Values("ORG"))

	require.Len(t, result.Log, 1)
	assert.Equal(t, `Group "jane doe" (3 records): merged, 2 new fields added`, result.LogLines()[0])
}

func TestRun_RequireEvidence(t *testing.T) {
	records := func() []*model.Record {
		return []*model.Record{
			card("FN", "John Smith", "EMAIL", "john@a.com"),
			card("FN", "John Smith", "EMAIL", "john@b.com"),
		}
	}

	strict := Run(records(), Options{RequireEvidence: true})
	assert.Len(t, strict.Records, 2)
	assert.Equal(t, 0, strict.MergedCount)
	require.Len(t, strict.Log, 1)
	assert.Contains(t, strict.LogLines()[0], "skipped as unsafe")

	loose := Run(records(), Options{})
	require.Len(t, loose.Records, 1)
	assert.Equal(t, 1, loose.MergedCount)
	assert.Equal(t, []string{"john@a.com", "john@b.com"}, loose.Records[0].Values("EMAIL"))
}

func TestRun_RequireEvidenceStillMergesCorroboratedGroup(t *testing.T) {
	result := Run(janeDoeRecords(), Options{RequireEvidence: true})
	require.Len(t, result.Records, 1)
	assert.Equal(t, 2, result.MergedCount)
}

func TestRun_MergeDisabledReturnsInput(t *testing.T) {
	records := janeDoeRecords()
	result := Run(records, Options{MergeDisabled: true})

	assert.Equal(t, records, result.Records)
	assert.Equal(t, 0, result.MergedCount)
	assert.Empty(t, result.Log)
	assert.Len(t, records[0].Properties, 2)
}

func TestRun_CountInvariant(t *testing.T) {
	records := []*model.Record{
		card("FN", "A", "EMAIL", "a@x.com"),
		card("FN", "B"),
		card("FN", "a", "TEL", "1"),
		card("FN", "C"),
		card("FN", "b", "NOTE", "hi"),
		card("FN", "A"),
	}
	result := Run(records, Options{})

	assert.Equal(t, len(records), len(result.Records)+result.MergedCount)
	assert.Len(t, result.Records, 3)
}

func TestRun_OrderFollowsFirstOccurrence(t *testing.T) {
	records := []*model.Record{
		card("FN", "Zed"),
		card("FN", "Amy"),
		card("FN", "zed"),
	}
	result := Run(records, Options{})

	require.Len(t, result.Records, 2)
	assert.Same(t, records[0], result.Records[0])
	assert.Same(t, records[1], result.Records[1])
}

func TestRun_SingletonsProduceNoLog(t *testing.T) {
	result := Run([]*model.Record{card("FN", "A"), card("FN", "B")}, Options{})
	assert.Len(t, result.Records, 2)
	assert.Empty(t, result.Log)
}

func TestRun_EmptyInput(t *testing.T) {
	result := Run(nil, Options{})
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.MergedCount)
}

func TestRun_KeyFieldWarningsSurface(t *testing.T) {
	result := Run(janeDoeRecords(), Options{KeyFields: []string{"not a field"}})
	assert.NotEmpty(t, result.Warnings)
	assert.Len(t, result.Records, 1)
}

func TestRun_CompositeKeySeparatesRecords(t *testing.T) {
	result := Run(janeDoeRecords(), Options{KeyFields: []string{"FN", "EMAIL"}})
	// the telephone-only record has no email and lands in its own group
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.MergedCount)
}
