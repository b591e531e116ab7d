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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	Enabled            bool     `yaml:"enabled"`
	JWTSecret          string   `yaml:"jwt_secret"`
	Audience           string   `yaml:"audience"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type DatastoreConfig struct {
	Type string `yaml:"type"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type MongoDBConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// MergeConfig holds the defaults applied to every merge run unless a request
// or a command line flag overrides them.
type MergeConfig struct {
	KeyFields       []string `yaml:"key_fields"`
	RequireEvidence bool     `yaml:"require_evidence"`
	DisableMerge    bool     `yaml:"disable_merge"`
	EmitLog         bool     `yaml:"emit_log"`
	CSVFields       []string `yaml:"csv_fields"`
	CSVDelimiter    string   `yaml:"csv_delimiter"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// RetentionConfig controls purging of old merge runs. A zero MaxAgeHours
// keeps runs forever.
type RetentionConfig struct {
	MaxAgeHours     int `yaml:"max_age_hours"`
	IntervalMinutes int `yaml:"interval_minutes"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Datastore  DatastoreConfig  `yaml:"datastore"`
	DataSource DataSourceConfig `yaml:"datasource"`
	MongoDB    MongoDBConfig    `yaml:"mongodb"`
	Merge      MergeConfig      `yaml:"merge"`
	Cache      CacheConfig      `yaml:"cache"`
	Retention  RetentionConfig  `yaml:"retention"`
}
