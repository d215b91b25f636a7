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

// Package model defines the data structures shared by the composer, the
// workflows and the storage layers. This file, `asset.go`, describes one item of
// the shared media catalog together with the admin snapshot used to save and
// restore the catalog's enabled/climate state.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is the kind of media an asset holds.
type Category string

const (
	CategoryMusic  Category = "music"
	CategoryVideo  Category = "video"
	CategoryVoice  Category = "voice"
	CategoryText   Category = "text"
	CategoryShader Category = "shader"
)

// AllCategories lists the categories in the order the catalog is displayed.
var AllCategories = []Category{CategoryMusic, CategoryVideo, CategoryVoice, CategoryText, CategoryShader}

// ParseCategory returns the Category matching s and whether it is known.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// MediaAsset is one row of the media catalog. Only enabled assets are eligible
// for composition; the composer never mutates an asset.
type MediaAsset struct {
	Id        string    `json:"id" yaml:"id"`
	Path      string    `json:"path" yaml:"path"`
	Category  Category  `json:"category" yaml:"category"`
	Climate   Climate   `json:"climate,omitempty" yaml:"climate"` // Empty when the asset is not classified.
	Enabled   bool      `json:"enabled" yaml:"enabled"`
	Duration  *float64  `json:"duration,omitempty" yaml:"duration"` // Seconds. Not used by the canonical composer.
	Tags      []string  `json:"tags,omitempty" yaml:"tags"`
	Energy    *float64  `json:"energy,omitempty" yaml:"energy"` // 0..1, informational.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// AssetId derives the asset id from the object's bucket and name, so
// re-ingesting the same object yields the same id.
func AssetId(bucket, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(bucket+"/"+name)).String()
}

// NewMediaAsset creates a disabled asset for an object of the asset bucket.
// Path is the object name.
func NewMediaAsset(bucket, name string, category Category, climate Climate) *MediaAsset {
	return &MediaAsset{
		Id:        AssetId(bucket, name),
		Path:      name,
		Category:  category,
		Climate:   climate,
		Enabled:   false,
		Tags:      make([]string, 0),
		CreatedAt: time.Now(),
	}
}

// AssetPatch carries the admin-editable fields of an asset. Nil fields are left
// untouched.
type AssetPatch struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Climate *Climate `json:"climate,omitempty"`
}

// AssetSnapshot is the saved state of one asset inside an AdminConfig.
type AssetSnapshot struct {
	Id      string  `json:"id"`
	Climate Climate `json:"climate"`
	Enabled bool    `json:"enabled"`
}

// AdminConfig is a named snapshot of the catalog's classification.
type AdminConfig struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Snapshot  []AssetSnapshot `json:"snapshot,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
