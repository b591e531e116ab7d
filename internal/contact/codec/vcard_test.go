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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

const janeCard = "BEGIN:VCARD\r\n" +
	"VERSION:3.0\r\n" +
	"FN:Jane Doe\r\n" +
	"N:Doe;Jane;;;\r\n" +
	"EMAIL;TYPE=work:jane@x.com\r\n" +
	"TEL:(555) 123-4567\r\n" +
	"END:VCARD\r\n"

const johnCard = "BEGIN:VCARD\n" +
	"VERSION:3.0\n" +
	"FN:John Smith\n" +
	"ORG:Acme\n" +
	"END:VCARD\n"

// ---------- Decode ----------

func TestDecode_ReadsCards(t *testing.T) {
	result, err := DecodeString(janeCard + johnCard)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 0, result.Malformed)

	jane := result.Records[0]
	assert.Equal(t, "3.0", jane.Version)
	assert.Equal(t, "Jane Doe", jane.FormattedName())
	assert.Equal(t, "FN", jane.Properties[0].Name)
	assert.Equal(t, "N", jane.Properties[1].Name)
	assert.Equal(t, []string{"Doe", "Jane", "", "", ""}, jane.Get("N").Components())

	email := jane.Get("EMAIL")
	require.NotNil(t, email)
	assert.Equal(t, "jane@x.com", email.Value)
	assert.Equal(t, []string{"work"}, email.Params["TYPE"])
	assert.Nil(t, jane.Get("VERSION"))

	assert.Equal(t, "John Smith", result.Records[1].FormattedName())
}

func TestDecode_CountsCardsWithoutName(t *testing.T) {
	noName := "BEGIN:VCARD\r\nVERSION:3.0\r\nEMAIL:x@y.com\r\nEND:VCARD\r\n"
	blankName := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:   \r\nEND:VCARD\r\n"

	result, err := DecodeString(noName + janeCard + blankName)
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, 2, result.Malformed)
}

func TestDecode_UnterminatedCards(t *testing.T) {
	opened := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Lost\r\n"

	result, err := DecodeString(opened + janeCard + opened)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Jane Doe", result.Records[0].FormattedName())
	assert.Equal(t, 2, result.Malformed)
}

func TestDecode_IgnoresTextBetweenCards(t *testing.T) {
	result, err := DecodeString("garbage before\r\n" + janeCard + "\r\nmore garbage\r\n" + johnCard)
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 0, result.Malformed)
}

func TestDecode_FoldedLines(t *testing.T) {
	folded := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Jane\r\n  Doe\r\nNOTE:first line\r\n END:VCARD still note\r\nEND:VCARD\r\n"

	result, err := DecodeString(folded)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Jane Doe", result.Records[0].FormattedName())
}

func TestDecode_Empty(t *testing.T) {
	result, err := DecodeString("")
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Malformed)
}

// ---------- Encode ----------

func TestEncode_RoundTrip(t *testing.T) {
	decoded, err := DecodeString(janeCard)
	require.NoError(t, err)

	out, err := EncodeString(decoded.Records)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCARD\r\nVERSION:3.0\r\n"))

	again, err := DecodeString(out)
	require.NoError(t, err)
	require.Len(t, again.Records, 1)
	assert.ElementsMatch(t, canonical(t, decoded.Records[0]), canonical(t, again.Records[0]))
}

func TestEncode_DefaultsVersion(t *testing.T) {
	record := &model.Record{}
	record.Add(model.NewProperty("FN", "No Version"))
	record.Add(&model.Property{Name: "", Value: "dropped"})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []*model.Record{record}))
	assert.Contains(t, buf.String(), "VERSION:3.0\r\n")
	assert.Contains(t, buf.String(), "FN:No Version\r\n")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestEncode_KeepsRepeatedValuesAndGroups(t *testing.T) {
	record := &model.Record{Version: "4.0"}
	record.Add(model.NewProperty("FN", "X"))
	record.Add(model.NewProperty("EMAIL", "a@x.com"))
	record.Add(model.NewProperty("EMAIL", "b@x.com"))
	email := model.NewProperty("EMAIL", "c@x.com")
	email.Group = "item1"
	record.Add(email)

	out, err := EncodeString([]*model.Record{record})
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION:4.0\r\n")

	decoded, err := DecodeString(out)
	require.NoError(t, err)
	require.Len(t, decoded.Records, 1)
	emails := decoded.Records[0].All("EMAIL")
	require.Len(t, emails, 3)
	assert.Equal(t, "a@x.com", emails[0].Value)
	assert.Equal(t, "b@x.com", emails[1].Value)
	assert.Equal(t, "item1", emails[2].Group)
}

// ---------- LoadFiles ----------

func TestLoadFiles_CombinesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.vcf")
	second := filepath.Join(dir, "second.vcf")
	require.NoError(t, os.WriteFile(first, []byte(janeCard+"BEGIN:VCARD\r\nFN:broken\r\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(johnCard), 0o600))

	result, err := LoadFiles(context.Background(), []string{first, second})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Jane Doe", result.Records[0].FormattedName())
	assert.Equal(t, "John Smith", result.Records[1].FormattedName())
	assert.Equal(t, 1, result.Malformed)
}

func TestLoadFiles_MissingFile(t *testing.T) {
	_, err := LoadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "missing.vcf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.vcf")
}

func canonical(t *testing.T, r *model.Record) []string {
	t.Helper()
	var out []string
	for _, p := range r.Properties {
		c, err := p.Canonical()
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}
