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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCursor_RoundTrip(t *testing.T) {
	c := RunCursor{CreatedAt: 1_700_000_000_123, RunId: "a|b"}
	decoded, err := DecodeRunCursor(EncodeRunCursor(c))
	require.NoError(t, err)
	assert.Equal(t, &c, decoded)

	empty, err := DecodeRunCursor("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestDecodeRunCursor_Invalid(t *testing.T) {
	for _, raw := range []string{"%%%", "no-separator", "abc|run", "10| "} {
		encoded := raw
		if raw != "%%%" {
			encoded = base64.RawURLEncoding.EncodeToString([]byte(raw))
		}
		_, err := DecodeRunCursor(encoded)
		assert.Error(t, err, raw)
	}
}

func TestRunCursor_After(t *testing.T) {
	c := RunCursor{CreatedAt: 100, RunId: "m"}
	assert.True(t, c.After(99, "a"))
	assert.True(t, c.After(100, "z"))
	assert.False(t, c.After(100, "m"))
	assert.False(t, c.After(100, "a"))
	assert.False(t, c.After(101, "z"))
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", DefaultLimit, false},
		{"?limit=5", 5, false},
		{"?limit=5000", MaxLimit, false},
		{"?limit=0", 0, true},
		{"?limit=abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLimit(httptest.NewRequest("GET", "/merge-runs"+tt.query, nil))
		if tt.wantErr {
			assert.Error(t, err, tt.query)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
