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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wso2/contact-merge-service/internal/contact/codec"
	"github.com/wso2/contact-merge-service/internal/merge"
	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/constants"
)

// mergeParams holds the merge command inputs after flag resolution.
type mergeParams struct {
	inputs  []string
	output  string
	csvPath string
	logPath string
	emitLog bool
	options merge.Options
}

// mergeSummary is what a merge command run reports back.
type mergeSummary struct {
	Loaded    int
	Malformed int
	Unique    int
	Merged    int
	LogLines  []string
	Warnings  []string
}

var mergeCmd = &cobra.Command{
	Use:   "merge <file.vcf>...",
	Short: "Merge duplicate contacts from one or more vCard files",
	Long: `Load every input file, group contacts by key and write the merged contacts.

Examples:
  contact-merge merge contacts.vcf                       # Writes merged.vcf
  contact-merge merge a.vcf b.vcf -o all.vcf --keys fn,email
  contact-merge merge contacts.vcf --require-evidence --log
  contact-merge merge contacts.vcf --csv merged.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		params := mergeParamsFromFlags(cmd, args, cfg)

		summary, err := runMerge(cmd.Context(), params, cfg)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), params, summary)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringP("output", "o", constants.DefaultOutputFile, "Output vCard file")
	mergeCmd.Flags().StringSlice("keys", nil, "Key fields used to group contacts (default from config, FN)")
	mergeCmd.Flags().Bool("require-evidence", false, "Only merge groups whose members share an email or phone")
	mergeCmd.Flags().Bool("no-merge", false, "Write the contacts without merging")
	mergeCmd.Flags().Bool("log", false, "Print one line per merged or skipped group")
	mergeCmd.Flags().String("log-file", "", "Write the merge log to this file")
	mergeCmd.Flags().String("csv", "", "Also export the merged contacts as CSV")
	rootCmd.AddCommand(mergeCmd)
}

// mergeParamsFromFlags overlays the flags the user set on the configured defaults.
func mergeParamsFromFlags(cmd *cobra.Command, args []string, cfg config.Config) mergeParams {
	flags := cmd.Flags()
	params := mergeParams{
		inputs: args,
		options: merge.Options{
			KeyFields:       cfg.Merge.KeyFields,
			RequireEvidence: cfg.Merge.RequireEvidence,
			MergeDisabled:   cfg.Merge.DisableMerge,
		},
		emitLog: cfg.Merge.EmitLog,
	}
	params.output, _ = flags.GetString("output")
	params.csvPath, _ = flags.GetString("csv")
	params.logPath, _ = flags.GetString("log-file")

	if flags.Changed("keys") {
		params.options.KeyFields, _ = flags.GetStringSlice("keys")
	}
	if flags.Changed("require-evidence") {
		params.options.RequireEvidence, _ = flags.GetBool("require-evidence")
	}
	if flags.Changed("no-merge") {
		params.options.MergeDisabled, _ = flags.GetBool("no-merge")
	}
	if flags.Changed("log") {
		params.emitLog, _ = flags.GetBool("log")
	}
	return params
}

// runMerge loads the inputs, merges them and writes the requested outputs.
func runMerge(ctx context.Context, params mergeParams, cfg config.Config) (*mergeSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	decoded, err := codec.LoadFiles(ctx, params.inputs)
	if err != nil {
		return nil, err
	}
	if len(decoded.Records) == 0 {
		return nil, errors.Errorf("no valid vCards found in %s (%d malformed)",
			strings.Join(params.inputs, ", "), decoded.Malformed)
	}

	result := merge.Run(decoded.Records, params.options)
	if err := writeFile(params.output, func(w io.Writer) error {
		return codec.Encode(w, result.Records)
	}); err != nil {
		return nil, err
	}
	if params.csvPath != "" {
		if err := writeFile(params.csvPath, func(w io.Writer) error {
			return codec.WriteCSV(w, result.Records, cfg.Merge.CSVFields, cfg.Merge.CSVDelimiter)
		}); err != nil {
			return nil, err
		}
	}

	lines := result.LogLines()
	if params.logPath != "" {
		if err := writeFile(params.logPath, func(w io.Writer) error {
			for _, line := range lines {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	summary := &mergeSummary{
		Loaded:    len(decoded.Records),
		Malformed: decoded.Malformed,
		Unique:    len(result.Records),
		Merged:    result.MergedCount,
		Warnings:  result.Warnings,
	}
	if params.emitLog {
		summary.LogLines = lines
	}
	return summary, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

func printSummary(w io.Writer, params mergeParams, summary *mergeSummary) {
	for _, warning := range summary.Warnings {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("warning:"), warning)
	}
	fmt.Fprintf(w, "Loaded %d valid vCards. Skipped %s malformed or missing-name cards.\n",
		summary.Loaded, color.YellowString("%d", summary.Malformed))
	for _, line := range summary.LogLines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintf(w, "Merged vCards saved to %s\n", color.CyanString(params.output))
	if params.csvPath != "" {
		fmt.Fprintf(w, "CSV export saved to %s\n", color.CyanString(params.csvPath))
	}
	fmt.Fprintf(w, "Original contacts: %d\n", summary.Loaded)
	fmt.Fprintf(w, "Unique contacts after merge: %s\n", color.GreenString("%d", summary.Unique))
	fmt.Fprintf(w, "Duplicates merged: %s\n", color.GreenString("%d", summary.Merged))
}
