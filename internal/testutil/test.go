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

// Package test provides fixtures, in-memory collaborators and the test
// configuration shared by the package test suites.
package test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/model"
)

var (
	configOnce sync.Once
	config     *cloud.Config
)

// HandleErr fails the test when err is set.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// moduleRoot walks up from the working directory to the directory holding
// go.mod; package tests run from their own directory.
func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

// SetupOS points the config loader at the repository's configs directory
// with the test runtime, unless the caller already chose one.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, filepath.Join(moduleRoot(), "configs")); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "test")
	}
	return err
}

// GetConfig loads the test configuration once per test binary.
func GetConfig() *cloud.Config {
	configOnce.Do(func() {
		if err := SetupOS(); err != nil {
			panic(err)
		}
		c := cloud.NewConfig()
		if err := cloud.LoadConfig(c); err != nil {
			panic(err)
		}
		config = c
	})
	return config
}

// Asset builds an enabled asset with a path derived from its id.
func Asset(id string, category model.Category, climate model.Climate, tags ...string) *model.MediaAsset {
	return &model.MediaAsset{
		Id:       id,
		Path:     string(category) + "/" + id,
		Category: category,
		Climate:  climate,
		Enabled:  true,
		Tags:     tags,
	}
}

// Catalog is a small catalog covering every category, mostly deep.
func Catalog() []*model.MediaAsset {
	return []*model.MediaAsset{
		Asset("m-calm", model.CategoryMusic, model.ClimateCalm),
		Asset("m-deep", model.CategoryMusic, model.ClimateDeep),
		Asset("v-deep", model.CategoryVideo, model.ClimateDeep),
		Asset("v-tense", model.CategoryVideo, model.ClimateTense),
		Asset("vo-deep", model.CategoryVoice, model.ClimateDeep),
		Asset("t-deep", model.CategoryText, model.ClimateDeep),
		Asset("s-deep", model.CategoryShader, model.ClimateDeep),
	}
}

// Weights associates the fixture triad 🌊 🔥 🌑 with a deep climate.
func Weights() []model.ClimateWeight {
	return []model.ClimateWeight{
		{Emoji: "🌊", Climate: "deep", Weight: 0.6},
		{Emoji: "🌊", Climate: "calm", Weight: 0.4},
		{Emoji: "🔥", Climate: "tense", Weight: 0.5},
		{Emoji: "🌑", Climate: "deep", Weight: 0.8},
	}
}

// Triad is the fixture triad.
func Triad() []string {
	return []string{"🌊", "🔥", "🌑"}
}

// GetTestAssetMessageText simulates the GCS notification for a finalized
// object in the asset bucket.
func GetTestAssetMessageText(name, contentType string) string {
	return `{
  "kind": "storage#object",
  "id": "echo-assets/` + name + `/1728615848664286",
  "selfLink": "https://www.googleapis.com/storage/v1/b/echo-assets/o/` + name + `",
  "name": "` + name + `",
  "bucket": "echo-assets",
  "generation": "1728615848664286",
  "metageneration": "1",
  "contentType": "` + contentType + `",
  "timeCreated": "2024-10-11T03:04:08.672Z",
  "updated": "2024-10-11T03:04:08.672Z",
  "storageClass": "STANDARD",
  "size": "259348",
  "md5Hash": "67c1rAU+1RYZzK5zp8iBkA==",
  "metadata": { "touch": "18" },
  "crc32c": "IYeSTw==",
  "etag": "CN658+yrhYkDEAE="
}`
}
