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

package managers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	healthHandler "github.com/wso2/contact-merge-service/internal/health_check/handler"
	healthProvider "github.com/wso2/contact-merge-service/internal/health_check/provider"
	"github.com/wso2/contact-merge-service/internal/merge_runs/handler"
	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	"github.com/wso2/contact-merge-service/internal/merge_runs/service"
	"github.com/wso2/contact-merge-service/internal/merge_runs/store"
	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/services"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type staticProvider struct {
	svc service.MergeRunServiceInterface
}

func (p *staticProvider) GetMergeRunService() service.MergeRunServiceInterface {
	return p.svc
}

const twoJanes = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Jane Doe\r\nEMAIL:jane@x.com\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:JANE DOE\r\nTEL:555-0100\r\nEND:VCARD\r\n"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	memStore := store.NewMemoryStore()
	mergeRuns := services.NewMergeRunServiceWithHandler(handler.NewMergeRunHandlerWithProvider(
		&staticProvider{svc: service.NewMergeRunService(memStore, config.DefaultConfig())}))
	health := services.NewHealthServiceWithHandler(healthHandler.NewHealthHandlerWithProvider(
		healthProvider.NewHealthCheckProviderWithStore(memStore)))

	mux := http.NewServeMux()
	require.NoError(t, NewServiceManagerWithServices(mux, mergeRuns, health).RegisterServices(constants.ApiBasePath))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func createRun(t *testing.T, server *httptest.Server, tenant string) model.MergeRun {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"vcards": twoJanes, "emit_log": true})
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/t/"+tenant+"/api/v1/merge-runs", "application/json",
		strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var run model.MergeRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "/t/"+tenant+"/api/v1/merge-runs/"+run.RunId, resp.Header.Get("Location"))
	return run
}

func decodeErrorBody(t *testing.T, resp *http.Response) errors.ErrorMessage {
	t.Helper()
	var msg errors.ErrorMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	return msg
}

// ---------- merge runs ----------

func TestMergeRuns_Lifecycle(t *testing.T) {
	server := newTestServer(t)
	run := createRun(t, server, "acme")
	assert.Equal(t, 1, run.OutputCount)
	assert.Equal(t, 1, run.MergedCount)
	require.Len(t, run.Log, 1)

	resp, err := http.Get(server.URL + "/t/acme/api/v1/merge-runs/" + run.RunId)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(constants.TraceIDHeader))

	resp, err = http.Get(server.URL + "/t/acme/api/v1/merge-runs")
	require.NoError(t, err)
	var page model.MergeRunPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	require.Len(t, page.MergeRuns, 1)
	assert.Equal(t, run.RunId, page.MergeRuns[0].RunId)

	resp, err = http.Get(server.URL + "/t/acme/api/v1/merge-runs/" + run.RunId + "/output?format=csv")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), run.RunId+".csv")

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/t/acme/api/v1/merge-runs/"+run.RunId, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(server.URL + "/t/acme/api/v1/merge-runs/" + run.RunId)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.MERGE_RUN_NOT_FOUND.Code, decodeErrorBody(t, resp).Code)
}

func TestMergeRuns_RawVCardBody(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/t/acme/api/v1/merge-runs?key_fields=FN,EMAIL&emit_log=false",
		"text/vcard", strings.NewReader(twoJanes))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var run model.MergeRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, []string{"FN", "EMAIL"}, run.KeyFields)
	assert.Equal(t, 2, run.OutputCount)
	assert.Empty(t, run.Log)
}

func TestMergeRuns_TenantIsolation(t *testing.T) {
	server := newTestServer(t)
	run := createRun(t, server, "acme")

	resp, err := http.Get(server.URL + "/t/globex/api/v1/merge-runs/" + run.RunId)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMergeRuns_DefaultTenantRedirect(t *testing.T) {
	server := newTestServer(t)

	resp, err := noRedirectClient().Get(server.URL + "/api/v1/merge-runs?limit=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/t/"+constants.DefaultTenant+"/api/v1/merge-runs?limit=1", resp.Header.Get("Location"))
}

func TestMergeRuns_RequestErrors(t *testing.T) {
	server := newTestServer(t)
	base := server.URL + "/t/acme/api/v1/merge-runs"

	tests := []struct {
		name        string
		contentType string
		body        string
		url         string
		status      int
		code        string
	}{
		{"malformed json", "application/json", `{"vcards":`, base, http.StatusBadRequest, errors.BAD_REQUEST.Code},
		{"unknown field", "application/json", `{"cards":"x"}`, base, http.StatusBadRequest, errors.BAD_REQUEST.Code},
		{"empty payload", "application/json", `{"vcards":"   "}`, base, http.StatusBadRequest, errors.EMPTY_VCARD_PAYLOAD.Code},
		{"no valid cards", "text/vcard", "BEGIN:VCARD\r\nVERSION:3.0\r\nEND:VCARD\r\n", base,
			http.StatusBadRequest, errors.NO_VALID_VCARDS.Code},
		{"bad boolean", "text/vcard", twoJanes, base + "?require_evidence=maybe", http.StatusBadRequest, errors.BAD_REQUEST.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(tt.url, tt.contentType, strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeErrorBody(t, resp).Code)
		})
	}
}

func TestMergeRuns_Routing(t *testing.T) {
	server := newTestServer(t)
	run := createRun(t, server, "acme")

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"put on collection", http.MethodPut, "/t/acme/api/v1/merge-runs", http.StatusMethodNotAllowed},
		{"post on run", http.MethodPost, "/t/acme/api/v1/merge-runs/" + run.RunId, http.StatusMethodNotAllowed},
		{"unknown sub resource", http.MethodGet, "/t/acme/api/v1/merge-runs/" + run.RunId + "/a/b", http.StatusNotFound},
		{"unknown resource", http.MethodGet, "/t/acme/api/v1/profiles", http.StatusNotFound},
		{"bad limit", http.MethodGet, "/t/acme/api/v1/merge-runs?limit=-1", http.StatusBadRequest},
		{"bad cursor", http.MethodGet, "/t/acme/api/v1/merge-runs?cursor=@@", http.StatusBadRequest},
		{"bad export format", http.MethodGet, "/t/acme/api/v1/merge-runs/" + run.RunId + "/output?format=xml",
			http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

// ---------- health ----------

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No runtime configuration is installed in this package.
	resp, err = http.Get(server.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Post(server.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
