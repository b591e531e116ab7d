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
	"bufio"
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wso2/contact-merge-service/internal/contact/model"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

const (
	beginMarker = "BEGIN:VCARD"
	endMarker   = "END:VCARD"
)

// DecodeResult holds the named records read from one or more inputs and the
// number of cards that were dropped.
type DecodeResult struct {
	Records []*model.Record
	// Malformed counts cards that could not be decoded or have no usable FN.
	Malformed int
}

// Decode reads every card from r. Cards are split on BEGIN/END boundaries
// first so a broken card is counted and skipped without hiding its neighbours.
// Only read errors are returned.
func Decode(r io.Reader) (*DecodeResult, error) {

	logger := log.GetLogger()
	result := &DecodeResult{}

	sections, unterminated, err := splitCards(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read vCard input")
	}
	result.Malformed += unterminated

	for i, section := range sections {
		card, err := vcard.NewDecoder(strings.NewReader(section)).Decode()
		if err != nil {
			logger.Debug("Skipping card that cannot be decoded", log.Int("index", i), log.Error(err))
			result.Malformed++
			continue
		}
		record := toRecord(card)
		if !record.IsNamed() {
			logger.Debug("Skipping card without a formatted name", log.Int("index", i))
			result.Malformed++
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

// DecodeString is a convenience wrapper around Decode.
func DecodeString(s string) (*DecodeResult, error) {
	return Decode(strings.NewReader(s))
}

// LoadFiles decodes the given files concurrently. Records are returned in the
// order of paths, then file order.
func LoadFiles(ctx context.Context, paths []string) (*DecodeResult, error) {

	results := make([]*DecodeResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", path)
			}
			defer f.Close()

			res, err := Decode(f)
			if err != nil {
				return errors.Wrapf(err, "failed to decode %s", path)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := &DecodeResult{}
	for i, res := range results {
		log.GetLogger().Debug("Loaded vCard file",
			log.String("path", paths[i]),
			log.Int("records", len(res.Records)),
			log.Int("malformed", res.Malformed))
		combined.Records = append(combined.Records, res.Records...)
		combined.Malformed += res.Malformed
	}
	return combined, nil
}

// Encode writes the records as vCards. Records without a VERSION are written
// as 3.0.
func Encode(w io.Writer, records []*model.Record) error {

	enc := vcard.NewEncoder(w)
	for i, record := range records {
		if err := enc.Encode(toCard(record)); err != nil {
			return errors.Wrapf(err, "failed to encode record %d", i)
		}
	}
	return nil
}

// EncodeString renders the records as a single vCard document.
func EncodeString(records []*model.Record) (string, error) {
	var b strings.Builder
	if err := Encode(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

// splitCards returns the raw text of every terminated card and the number of
// cards that were opened but never closed.
func splitCards(r io.Reader) ([]string, int, error) {

	var (
		sections     []string
		current      strings.Builder
		inCard       bool
		unterminated int
	)
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			marker := strings.ToUpper(strings.TrimSpace(line))
			continuation := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
			switch {
			case !continuation && marker == beginMarker:
				if inCard {
					unterminated++
				}
				current.Reset()
				current.WriteString(strings.TrimRight(line, "\r\n") + "\r\n")
				inCard = true
			case !continuation && marker == endMarker && inCard:
				current.WriteString(strings.TrimRight(line, "\r\n") + "\r\n")
				sections = append(sections, current.String())
				current.Reset()
				inCard = false
			case inCard:
				current.WriteString(strings.TrimRight(line, "\r\n") + "\r\n")
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
	}
	if inCard {
		unterminated++
	}
	return sections, unterminated, nil
}

// toRecord converts a decoded card. FN and N come first, the rest follow in
// name order since the card does not keep the file order across names.
func toRecord(card vcard.Card) *model.Record {

	record := &model.Record{}
	if v := card.Get(vcard.FieldVersion); v != nil {
		record.Version = v.Value
	}

	names := make([]string, 0, len(card))
	for name := range card {
		switch name {
		case vcard.FieldVersion, vcard.FieldFormattedName, vcard.FieldName:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	names = append([]string{vcard.FieldFormattedName, vcard.FieldName}, names...)

	for _, name := range names {
		for _, field := range card[name] {
			p := model.NewProperty(name, field.Value)
			p.Group = field.Group
			for k, v := range field.Params {
				p.WithParam(k, v...)
			}
			record.Add(p)
		}
	}
	return record
}

func toCard(record *model.Record) vcard.Card {

	card := make(vcard.Card)
	version := strings.TrimSpace(record.Version)
	if version == "" {
		version = constants.DefaultVCardVersion
	}
	card.SetValue(vcard.FieldVersion, version)

	for _, p := range record.Properties {
		name := strings.ToUpper(strings.TrimSpace(p.Name))
		if name == "" || name == vcard.FieldVersion {
			continue
		}
		field := &vcard.Field{Value: p.Value, Group: p.Group}
		if len(p.Params) > 0 {
			field.Params = make(vcard.Params, len(p.Params))
			for k, v := range p.Params {
				field.Params[k] = append([]string(nil), v...)
			}
		}
		card[name] = append(card[name], field)
	}
	return card
}
