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

package config

import (
	"os"
	"path"

	"github.com/wso2/contact-merge-service/internal/system/constants"
	"gopkg.in/yaml.v2"
)

// LoadConfig loads the deployment configuration relative to the service home
// and applies defaults for values that were left empty.
func LoadConfig(serviceHome, filePath string) (*Config, error) {
	return LoadConfigFile(path.Join(serviceHome, filePath))
}

// LoadConfigFile loads the deployment configuration from an absolute or
// working-directory relative path.
func LoadConfigFile(filePath string) (*Config, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// DefaultConfig returns a configuration usable without any deployment file.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero values.
func (cfg *Config) ApplyDefaults() {
	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = 8900
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.Datastore.Type == "" {
		cfg.Datastore.Type = constants.DatastoreMemory
	}
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "iam-contact-merge"
	}
	if len(cfg.Merge.KeyFields) == 0 {
		cfg.Merge.KeyFields = append([]string(nil), constants.DefaultKeyFields...)
	}
	if len(cfg.Merge.CSVFields) == 0 {
		cfg.Merge.CSVFields = append([]string(nil), constants.DefaultCSVFields...)
	}
	if cfg.Merge.CSVDelimiter == "" {
		cfg.Merge.CSVDelimiter = constants.DefaultCSVDelimiter
	}
	if cfg.MongoDB.Collection == "" {
		cfg.MongoDB.Collection = "merge_runs"
	}
	if cfg.Retention.IntervalMinutes == 0 {
		cfg.Retention.IntervalMinutes = 60
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
}

// OverrideRuntime replaces the runtime configuration. Used by tests and the CLI.
func OverrideRuntime(conf Config) {
	runtimeConfig = &MergeServiceRuntime{
		Config: conf,
	}
}
