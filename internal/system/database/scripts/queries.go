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

package scripts

var InsertMergeRun = map[string]string{
	"postgres": `INSERT INTO merge_runs (run_id, tenant_id, key_fields, require_evidence, merge_disabled, loaded,
		malformed, output_count, merged_count, skipped_properties, warnings, merge_log, output, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
}

var GetMergeRun = map[string]string{
	"postgres": `SELECT run_id, tenant_id, key_fields, require_evidence, merge_disabled, loaded, malformed,
		output_count, merged_count, skipped_properties, warnings, merge_log::text, output, created_at
		FROM merge_runs WHERE tenant_id = $1 AND run_id = $2`,
}

var ListMergeRuns = map[string]string{
	"postgres": `SELECT run_id, key_fields, loaded, malformed, output_count, merged_count, created_at
		FROM merge_runs WHERE tenant_id = $1
		AND ($2::bigint IS NULL OR created_at < $2 OR (created_at = $2 AND run_id > $3))
		ORDER BY created_at DESC, run_id LIMIT $4`,
}

var DeleteMergeRun = map[string]string{
	"postgres": `DELETE FROM merge_runs WHERE tenant_id = $1 AND run_id = $2`,
}

var DeleteMergeRunsBefore = map[string]string{
	"postgres": `DELETE FROM merge_runs WHERE created_at < $1`,
}

var TryAdvisoryXactLock = map[string]string{
	"postgres": `SELECT pg_try_advisory_xact_lock($1)`,
}
