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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactModel "github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func sampleRun(tenant, id string, createdAt int64) *model.MergeRun {
	return &model.MergeRun{
		RunId:       id,
		TenantId:    tenant,
		KeyFields:   []string{"FN"},
		Loaded:      3,
		OutputCount: 1,
		MergedCount: 2,
		Warnings:    []string{"w"},
		Log: []contactModel.MergeLogEntry{
			{Key: "jane doe", Size: 3, Action: constants.MergeActionMerged, AddedFields: 2},
		},
		Output:    "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Jane Doe\r\nEND:VCARD\r\n",
		CreatedAt: createdAt,
	}
}

// storeContract exercises the behavior every merge run store shares.
func storeContract(t *testing.T, s MergeRunStoreInterface) {
	t.Helper()

	require.NoError(t, s.Ping())

	missing, err := s.GetMergeRun("acme", "none")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.AddMergeRun(sampleRun("acme", "run-a", 1000)))
	require.NoError(t, s.AddMergeRun(sampleRun("acme", "run-b", 2000)))
	require.NoError(t, s.AddMergeRun(sampleRun("globex", "run-c", 3000)))

	got, err := s.GetMergeRun("acme", "run-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleRun("acme", "run-a", 1000), got)

	other, err := s.GetMergeRun("globex", "run-a")
	require.NoError(t, err)
	assert.Nil(t, other)

	summaries, err := s.ListMergeRuns("acme", 0, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "run-b", summaries[0].RunId)
	assert.Equal(t, "run-a", summaries[1].RunId)
	assert.Equal(t, 2, summaries[0].MergedCount)

	firstPage, err := s.ListMergeRuns("acme", 1, nil)
	require.NoError(t, err)
	require.Len(t, firstPage, 1)
	assert.Equal(t, "run-b", firstPage[0].RunId)

	secondPage, err := s.ListMergeRuns("acme", 1, &pagination.RunCursor{CreatedAt: 2000, RunId: "run-b"})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, "run-a", secondPage[0].RunId)

	deleted, err := s.DeleteMergeRun("globex", "run-a")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.DeleteMergeRun("acme", "run-a")
	require.NoError(t, err)
	assert.True(t, deleted)

	summaries, err = s.ListMergeRuns("acme", 0, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "run-b", summaries[0].RunId)

	removed, err := s.DeleteMergeRunsBefore(2500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	summaries, err = s.ListMergeRuns("acme", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)
	remaining, err := s.GetMergeRun("globex", "run-c")
	require.NoError(t, err)
	assert.NotNil(t, remaining)
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	s := NewMemoryStore()
	run := sampleRun("acme", "run-a", 1000)
	require.NoError(t, s.AddMergeRun(run))

	run.KeyFields[0] = "EMAIL"
	got, err := s.GetMergeRun("acme", "run-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"FN"}, got.KeyFields)

	got.Warnings[0] = "changed"
	again, err := s.GetMergeRun("acme", "run-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"w"}, again.Warnings)
}

func TestListMergeRuns_UnknownTenantIsEmpty(t *testing.T) {
	summaries, err := NewMemoryStore().ListMergeRuns("nobody", 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestNewMergeRunStore(t *testing.T) {
	s, err := NewMergeRunStore(config.Config{Datastore: config.DatastoreConfig{Type: ""}})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewMergeRunStore(config.Config{Datastore: config.DatastoreConfig{Type: "memory"}})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewMergeRunStore(config.Config{Datastore: config.DatastoreConfig{Type: "postgres"}})
	require.NoError(t, err)
	assert.IsType(t, &PostgresStore{}, s)

	_, err = NewMergeRunStore(config.Config{Datastore: config.DatastoreConfig{Type: "cassandra"}})
	assert.Error(t, err)
}
