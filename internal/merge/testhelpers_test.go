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

package merge

import (
	"os"
	"testing"

	"github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// card builds a record from name/value pairs.
func card(pairs ...string) *model.Record {
	r := &model.Record{Version: "3.0"}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Add(model.NewProperty(pairs[i], pairs[i+1]))
	}
	return r
}

func canonicalSet(t *testing.T, r *model.Record) map[string]bool {
	t.Helper()
	set := make(map[string]bool)
	for _, p := range r.Properties {
		c, err := p.Canonical()
		if err != nil {
			continue
		}
		set[c] = true
	}
	return set
}
