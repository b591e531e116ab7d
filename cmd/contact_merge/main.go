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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "contact-merge",
	Short: "Deduplicate and merge vCard contacts",
	Long: `contact-merge reads vCard files, groups contacts that share a key
(the full name by default) and merges each group into a single contact.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a deployment.yaml with merge defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file when given, otherwise the built-in
// defaults, and initializes logging.
func loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		cfg = *loaded
	}

	level := cfg.Log.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if err := log.Init(level); err != nil {
		return cfg, err
	}
	config.OverrideRuntime(cfg)
	return cfg, nil
}
