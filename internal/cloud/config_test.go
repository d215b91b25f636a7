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

package cloud_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestConfigFiles(t *testing.T) {
	t.Setenv(cloud.EnvConfigFilePrefix, "configs")
	t.Setenv(cloud.EnvConfigRuntime, "")

	base, runtime := cloud.ConfigFiles()
	assert.Equal(t, filepath.Join("configs", ".env.toml"), base)
	assert.Equal(t, filepath.Join("configs", ".env.test.toml"), runtime)
}

func TestLoadConfigLayersRuntimeOverBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "staging")

	writeConfig(t, dir, ".env.toml", `
[application]
name = "echo"
log_level = "info"

[store]
driver = "sqlite"
sqlite_path = "base.db"

[rate_limit]
scenes_per_second = 2.5
burst = 3
`)
	writeConfig(t, dir, ".env.staging.toml", `
[application]
log_level = "debug"

[store]
driver = "bigquery"

[topic_subscriptions.AssetTopic]
name = "assets-sub"
timeout_in_seconds = 30
`)

	config := cloud.NewConfig()
	require.NoError(t, cloud.LoadConfig(config))

	assert.Equal(t, "echo", config.Application.Name)
	assert.Equal(t, "debug", config.Application.LogLevel)
	assert.Equal(t, cloud.StoreDriverBigQuery, config.Store.Driver)
	assert.Equal(t, "base.db", config.Store.SQLitePath)
	assert.Equal(t, 2.5, config.RateLimit.ScenesPerSecond)
	assert.Equal(t, 3, config.RateLimit.Burst)
	assert.Equal(t, ":8080", config.Application.HTTPAddress)
	assert.Equal(t, cloud.TopicSubscription{Name: "assets-sub", TimeoutInSeconds: 30}, config.TopicSubscriptions[cloud.AssetTopic])
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	t.Setenv(cloud.EnvConfigFilePrefix, t.TempDir())
	t.Setenv(cloud.EnvConfigRuntime, "nowhere")

	config := cloud.NewConfig()
	require.NoError(t, cloud.LoadConfig(config))
	assert.Equal(t, cloud.StoreDriverSQLite, config.Store.Driver)
	assert.Equal(t, cloud.MemoryDriverStore, config.Memory.Driver)
}

func TestLoadConfigRejectsBadToml(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	writeConfig(t, dir, ".env.toml", "[application\nname =")

	assert.Error(t, cloud.LoadConfig(cloud.NewConfig()))
}

func TestSignedURLTTL(t *testing.T) {
	assert.Equal(t, 15*time.Minute, cloud.Storage{}.SignedURLTTL())
	assert.Equal(t, 15*time.Minute, cloud.Storage{SignedURLTTLInMinutes: -4}.SignedURLTTL())
	assert.Equal(t, 2*time.Minute, cloud.Storage{SignedURLTTLInMinutes: 2}.SignedURLTTL())
}

func TestNeedsCloud(t *testing.T) {
	config := cloud.NewConfig()
	assert.False(t, cloud.NeedsCloud(config))

	config.Storage.AssetBucket = "assets"
	assert.True(t, cloud.NeedsCloud(config))

	config = cloud.NewConfig()
	config.Store.Driver = cloud.StoreDriverBigQuery
	assert.True(t, cloud.NeedsCloud(config))

	config = cloud.NewConfig()
	config.TopicSubscriptions[cloud.PassageTopic] = cloud.TopicSubscription{Name: "p"}
	assert.True(t, cloud.NeedsCloud(config))
}

func TestIsPoison(t *testing.T) {
	invalid := fmt.Errorf("%w: bad payload", model.ErrInvalidInput)

	assert.False(t, cloud.IsPoison(nil))
	assert.True(t, cloud.IsPoison(map[string]error{"reader": invalid}))
	assert.False(t, cloud.IsPoison(map[string]error{"reader": invalid, "persist": errors.New("timeout")}))
	assert.False(t, cloud.IsPoison(map[string]error{"persist": model.ErrPersistence}))
}

func TestGCSObjectPath(t *testing.T) {
	o := &cloud.GCSObject{Bucket: "echo-assets", Name: "music/calm/drift.mp3"}
	assert.Equal(t, "echo-assets/music/calm/drift.mp3", o.Path())
}
