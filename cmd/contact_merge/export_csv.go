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

package main

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wso2/contact-merge-service/internal/contact/codec"
)

var exportCSVCmd = &cobra.Command{
	Use:   "export-csv <file.vcf>...",
	Short: "Export vCard contacts as CSV without merging",
	Long: `Write one CSV row per contact. Repeated values of a property share a cell,
joined by the configured delimiter.

Examples:
  contact-merge export-csv contacts.vcf -o contacts.csv
  contact-merge export-csv contacts.vcf -o contacts.csv --fields FN,EMAIL,TEL`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		fields := cfg.Merge.CSVFields
		if cmd.Flags().Changed("fields") {
			fields, _ = cmd.Flags().GetStringSlice("fields")
		}

		count, err := exportCSV(cmd.Context(), args, output, fields, cfg.Merge.CSVDelimiter)
		if err != nil {
			return err
		}
		cmd.Printf("Exported %s contacts to %s\n", color.GreenString("%d", count), color.CyanString(output))
		return nil
	},
}

func init() {
	exportCSVCmd.Flags().StringP("output", "o", "contacts.csv", "Output CSV file")
	exportCSVCmd.Flags().StringSlice("fields", nil, "Property names to export as columns")
	rootCmd.AddCommand(exportCSVCmd)
}

// exportCSV writes the contacts of the inputs as CSV and returns how many rows were written.
func exportCSV(ctx context.Context, inputs []string, output string, fields []string, delimiter string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	decoded, err := codec.LoadFiles(ctx, inputs)
	if err != nil {
		return 0, err
	}
	if len(decoded.Records) == 0 {
		return 0, errors.Errorf("no valid vCards found (%d malformed)", decoded.Malformed)
	}
	err = writeFile(output, func(w io.Writer) error {
		return codec.WriteCSV(w, decoded.Records, fields, delimiter)
	})
	return len(decoded.Records), err
}
