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

package errors

const errorPrefix = "CMS-"

var (
	// Server error codes

	ADD_MERGE_RUN = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while persisting merge run.",
	}

	GET_MERGE_RUN = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching merge run.",
	}

	GET_MERGE_RUNS = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching merge runs.",
	}

	DELETE_MERGE_RUN = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while deleting merge run.",
	}

	ENCODE_OUTPUT = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while encoding merged contacts.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while executing query.",
	}

	MONGO_OPERATION = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while executing MongoDB operation.",
	}

	UNKNOWN_DATASTORE = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Unsupported datastore type.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while generating lock key.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while acquiring lock.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:        errorPrefix + "10001",
		Message:     "Invalid request.",
		Description: "The request is not valid.",
	}

	EMPTY_VCARD_PAYLOAD = ErrorMessage{
		Code:        errorPrefix + "10002",
		Message:     "Empty vCard payload.",
		Description: "The request did not contain any vCard data.",
	}

	NO_VALID_VCARDS = ErrorMessage{
		Code:        errorPrefix + "10003",
		Message:     "No valid vCards.",
		Description: "None of the submitted vCards has a usable full name.",
	}

	MERGE_RUN_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "10004",
		Message:     "Merge run not found.",
		Description: "No merge run exists for the given id.",
	}

	UNSUPPORTED_EXPORT_FORMAT = ErrorMessage{
		Code:        errorPrefix + "10005",
		Message:     "Unsupported export format.",
		Description: "Supported formats are vcf and csv.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "10006",
		Message:     "Unauthorized.",
		Description: "The request is not authorized.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "10007",
		Message:     "Forbidden.",
		Description: "The token does not grant the required scope.",
	}

	PAYLOAD_TOO_LARGE = ErrorMessage{
		Code:        errorPrefix + "10008",
		Message:     "Payload too large.",
		Description: "The vCard payload exceeds the configured limit.",
	}
)
