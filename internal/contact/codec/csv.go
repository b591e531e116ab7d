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

package codec

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/constants"
)

// WriteCSV flattens the records into one row per record and one column per
// field. Repeated properties are joined with delimiter.
func WriteCSV(w io.Writer, records []*model.Record, fields []string, delimiter string) error {

	columns := csvColumns(fields)
	if delimiter == "" {
		delimiter = constants.DefaultCSVDelimiter
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	row := make([]string, len(columns))
	for i, record := range records {
		for j, column := range columns {
			values := record.Values(column)
			for k, v := range values {
				values[k] = strings.TrimSpace(v)
			}
			row[j] = strings.Join(values, delimiter)
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write CSV row %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush CSV output")
}

func csvColumns(fields []string) []string {
	columns := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		name := strings.ToUpper(strings.TrimSpace(f))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
	}
	if len(columns) == 0 {
		return append(columns, constants.DefaultCSVFields...)
	}
	return columns
}
