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
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wso2/contact-merge-service/internal/system/database/provider"
	"github.com/wso2/contact-merge-service/test/setup"
)

func TestPostgresStore_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	pg, err := setup.SetupTestPostgres(ctx, filepath.Join("..", "..", "..", "dbscripts", "postgres", "schema.sql"))
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = provider.Close()
		_ = pg.Container.Terminate(ctx)
	})
	provider.SetTestDB(pg.DB)

	storeContract(t, NewPostgresStore())

	// Runs without a log come back with a nil log.
	run := sampleRun("acme", "run-nolog", 5000)
	run.Log = nil
	run.Warnings = nil
	s := NewPostgresStore()
	require.NoError(t, s.AddMergeRun(run))
	got, err := s.GetMergeRun("acme", "run-nolog")
	require.NoError(t, err)
	require.Equal(t, run, got)

	removed, err := s.DeleteMergeRunsBefore(5001)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)
}
