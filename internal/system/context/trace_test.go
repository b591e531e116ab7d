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

package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wso2/contact-merge-service/internal/system/constants"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetOrGenerateTraceID(ctx))

	ctx = WithTraceID(ctx, "trace-1")
	assert.Equal(t, "trace-1", GetOrGenerateTraceID(ctx))
}

func TestTenant(t *testing.T) {
	assert.Equal(t, constants.DefaultTenant, GetTenant(context.Background()))
	assert.Equal(t, "acme", GetTenant(WithTenant(context.Background(), "acme")))
}

func TestGetInitiator(t *testing.T) {
	id, kind := GetInitiator(context.Background())
	assert.Equal(t, "system", id)
	assert.Equal(t, "system", kind)

	id, kind = GetInitiator(WithClaims(context.Background(), map[string]interface{}{"sub": "alice"}))
	assert.Equal(t, "alice", id)
	assert.Equal(t, "user", kind)
}
