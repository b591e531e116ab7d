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

package constants

type ContextKey string

const (
	TenantContextKey  ContextKey = "tenant"
	TraceIDContextKey ContextKey = "trace_id"
	ClaimsContextKey  ContextKey = "claims"
)

const (
	ApiBasePath   = "/api/v1"
	DefaultTenant = "carbon.super"
	TraceIDHeader = "X-Trace-Id"
)

// Resource names used in request decoding and response messages.
const (
	MergeRunResource = "merge run"
)

// Datastore types.
const (
	DatastorePostgres = "postgres"
	DatastoreMongoDB  = "mongodb"
	DatastoreMemory   = "memory"
)

// Merge run actions written to the merge log.
const (
	MergeActionMerged  = "merged"
	MergeActionSkipped = "skipped"
)

// Export formats.
const (
	ExportFormatVCard = "vcf"
	ExportFormatCSV   = "csv"
)

// vCard property names the merge engine treats specially.
const (
	PropertyFormattedName = "FN"
	PropertyName          = "N"
	PropertyEmail         = "EMAIL"
	PropertyTelephone     = "TEL"
	PropertyOrganization  = "ORG"
	PropertyTitle         = "TITLE"
	PropertyAddress       = "ADR"
	PropertyNote          = "NOTE"
)

const (
	DefaultVCardVersion = "3.0"
	DefaultOutputFile   = "merged_contacts.vcf"
	DefaultCSVDelimiter = "; "
	// KeyValueDelimiter joins normalized values of one multivalued key field.
	KeyValueDelimiter = "|"
	// KeyFieldDelimiter joins the sub-keys of all configured key fields.
	KeyFieldDelimiter = "||"
	MaxPayloadBytes   = 10 << 20
)

var DefaultKeyFields = []string{PropertyFormattedName}

var DefaultCSVFields = []string{
	PropertyFormattedName,
	PropertyName,
	PropertyEmail,
	PropertyTelephone,
	PropertyOrganization,
	PropertyTitle,
	PropertyAddress,
	PropertyNote,
}

// KeyFieldAliases maps friendly key field names to vCard property names.
var KeyFieldAliases = map[string]string{
	"FULL-NAME":      PropertyFormattedName,
	"FULLNAME":       PropertyFormattedName,
	"FORMATTED-NAME": PropertyFormattedName,
	"TELEPHONE":      PropertyTelephone,
	"PHONE":          PropertyTelephone,
	"E-MAIL":         PropertyEmail,
	"ORGANIZATION":   PropertyOrganization,
}

// Token scopes.
const (
	ScopeMergeRunCreate = "merge_runs:create"
	ScopeMergeRunView   = "merge_runs:view"
	ScopeMergeRunDelete = "merge_runs:delete"
)
