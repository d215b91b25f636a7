// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud holds the service's configuration and its connections to the
// outside world: Google Cloud clients, the local SQLite store, Redis and the
// Pub/Sub listeners that feed the ingestion chains.
//
// Configuration is read from TOML files. A base `.env.toml` is decoded first
// and a runtime specific `.env.<runtime>.toml` is decoded over it, so a
// runtime file only needs the keys it changes.
package cloud

import "time"

// Store drivers.
const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverBigQuery = "bigquery"
)

// Memory drivers. "store" keeps the counters in the configured store.
const (
	MemoryDriverRedis = "redis"
	MemoryDriverStore = "store"
)

// Logical subscription names.
const (
	AssetTopic   = "AssetTopic"
	PassageTopic = "PassageTopic"
)

// BigQueryDataSource names the dataset and every table the service touches.
type BigQueryDataSource struct {
	DatasetName       string `toml:"dataset"`
	AssetTable        string `toml:"asset_table"`
	WeightTable       string `toml:"weight_table"`
	TriadTable        string `toml:"triad_table"`
	SceneTable        string `toml:"scene_table"`
	PoleTable         string `toml:"pole_table"`
	ConfigTable       string `toml:"config_table"`
	SymbolStatsTable  string `toml:"symbol_stats_table"`
	CooccurrenceTable string `toml:"cooccurrence_table"`
}

// TopicSubscription is one Pub/Sub subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`
	DeadLetterTopic  string `toml:"dead_letter_topic"`
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

// Storage configures the asset bucket and the signed URLs handed to players.
type Storage struct {
	AssetBucket           string `toml:"asset_bucket"`
	SignedURLTTLInMinutes int    `toml:"signed_url_ttl_in_minutes"`
}

// SignedURLTTL returns the signed URL lifetime, 15 minutes when unset.
func (s Storage) SignedURLTTL() time.Duration {
	if s.SignedURLTTLInMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.SignedURLTTLInMinutes) * time.Minute
}

type StoreConfig struct {
	Driver     string `toml:"driver"`
	SQLitePath string `toml:"sqlite_path"`
}

type MemoryConfig struct {
	Driver    string `toml:"driver"`
	RedisAddr string `toml:"redis_addr"`
	KeyPrefix string `toml:"key_prefix"`
}

// ComposerConfig overrides the composition defaults. Zero values keep the
// defaults.
type ComposerConfig struct {
	Duration    float64 `toml:"duration"`
	MaxVideos   int     `toml:"max_videos"`
	MaxVoices   int     `toml:"max_voices"`
	MaxTexts    int     `toml:"max_texts"`
	VoiceWindow float64 `toml:"voice_window"`
	TextWindow  float64 `toml:"text_window"`
}

// RateLimit bounds scene creations per client address.
type RateLimit struct {
	ScenesPerSecond float64 `toml:"scenes_per_second"`
	Burst           int     `toml:"burst"`
}

type Telemetry struct {
	Enabled bool `toml:"enabled"`
}

// Config is the root of the TOML configuration.
type Config struct {
	Application struct {
		Name                      string   `toml:"name"`
		GoogleProjectId           string   `toml:"google_project_id"`
		GoogleLocation            string   `toml:"location"`
		SignerServiceAccountEmail string   `toml:"signer_service_account_email"`
		LogLevel                  string   `toml:"log_level"`
		LogFile                   string   `toml:"log_file"`
		HTTPAddress               string   `toml:"http_address"`
		AllowedOrigins            []string `toml:"allowed_origins"`
	} `toml:"application"`
	Store              StoreConfig                  `toml:"store"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	Storage            Storage                      `toml:"storage"`
	Memory             MemoryConfig                 `toml:"memory"`
	Composer           ComposerConfig               `toml:"composer"`
	RateLimit          RateLimit                    `toml:"rate_limit"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`
	Telemetry          Telemetry                    `toml:"telemetry"`
}

// NewConfig returns a Config with local defaults and initialised maps.
func NewConfig() *Config {
	c := &Config{
		Store:              StoreConfig{Driver: StoreDriverSQLite, SQLitePath: "data/echohypno.db"},
		Memory:             MemoryConfig{Driver: MemoryDriverStore, KeyPrefix: "echo"},
		RateLimit:          RateLimit{ScenesPerSecond: 1, Burst: 5},
		TopicSubscriptions: make(map[string]TopicSubscription),
	}
	c.Application.Name = "echohypno"
	c.Application.LogLevel = "info"
	c.Application.HTTPAddress = ":8080"
	return c
}
