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

package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// RunCursor points at the last merge run of a page. Runs are listed newest
// first with ties broken by run id.
type RunCursor struct {
	CreatedAt int64
	RunId     string
}

// After reports whether a run sorts after the cursor.
func (c RunCursor) After(createdAt int64, runId string) bool {
	if createdAt != c.CreatedAt {
		return createdAt < c.CreatedAt
	}
	return runId > c.RunId
}

func EncodeRunCursor(c RunCursor) string {
	raw := fmt.Sprintf("%d|%s", c.CreatedAt, c.RunId)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeRunCursor(s string) (*RunCursor, error) {
	if s == "" {
		return nil, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor encoding")
	}

	parts := strings.SplitN(string(b), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	createdAt, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp")
	}

	id := strings.TrimSpace(parts[1])
	if id == "" {
		return nil, fmt.Errorf("invalid cursor run_id")
	}

	return &RunCursor{CreatedAt: createdAt, RunId: id}, nil
}
