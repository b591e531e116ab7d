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

package schedulers

import (
	"context"
	"time"

	"github.com/wso2/contact-merge-service/internal/merge_runs/store"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// StartRetentionScheduler purges merge runs older than maxAge every interval
// until ctx is cancelled. It blocks, so run it in its own goroutine.
func StartRetentionScheduler(ctx context.Context, runStore store.MergeRunStoreInterface,
	interval, maxAge time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run once at startup
	purgeExpiredRuns(runStore, maxAge, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purgeExpiredRuns(runStore, maxAge, now)
		}
	}
}

// purgeExpiredRuns removes runs created before now minus maxAge.
func purgeExpiredRuns(runStore store.MergeRunStoreInterface, maxAge time.Duration, now time.Time) int64 {
	logger := log.GetLogger()

	cutoff := now.Add(-maxAge).UTC().UnixMilli()
	removed, err := runStore.DeleteMergeRunsBefore(cutoff)
	if err != nil {
		logger.Error("Failed to purge expired merge runs", log.Error(err))
		return 0
	}
	if removed > 0 {
		logger.Info("Purged expired merge runs", log.Any("removed", removed), log.Any("cutoff", cutoff))
	}
	return removed
}
