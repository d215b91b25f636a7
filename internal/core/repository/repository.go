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

// Package repository declares the storage contracts the workflows and services
// depend on. Implementations live with their backend: BigQuery in
// core/services, SQLite in store/sqlite and Redis in memory.
//
// The scene pipeline only ever inserts triads and scenes and only reads the
// catalog; the admin surface is the single writer of asset classification.
package repository

import (
	"context"

	"github.com/echohypno/echohypno/internal/core/model"
)

// Catalog reads and administers the media catalog.
type Catalog interface {
	// ListEnabledAssets returns every asset with enabled = true.
	ListEnabledAssets(ctx context.Context) ([]*model.MediaAsset, error)
	// ListAssets returns every asset ordered by category then path.
	ListAssets(ctx context.Context) ([]*model.MediaAsset, error)
	GetAsset(ctx context.Context, id string) (*model.MediaAsset, error)
	// InsertAsset adds an asset, leaving an existing row with the same id intact.
	InsertAsset(ctx context.Context, asset *model.MediaAsset) error
	UpdateAsset(ctx context.Context, id string, patch model.AssetPatch) error
}

// ClimateWeights reads the symbol to climate associations.
type ClimateWeights interface {
	WeightsFor(ctx context.Context, emojis []string) ([]model.ClimateWeight, error)
}

// SceneStore persists triads and scenes.
type SceneStore interface {
	InsertTriad(ctx context.Context, triad *model.Triad) error
	InsertScene(ctx context.Context, scene *model.Scene) error
	GetScene(ctx context.Context, id string) (*model.Scene, error)
}

// Palette reads the symbols offered to visitors.
type Palette interface {
	ListActivePoles(ctx context.Context) ([]*model.Pole, error)
}

// AdminConfigs stores named catalog snapshots.
type AdminConfigs interface {
	InsertConfig(ctx context.Context, config *model.AdminConfig) error
	ListConfigs(ctx context.Context) ([]*model.AdminConfig, error)
	GetConfig(ctx context.Context, id string) (*model.AdminConfig, error)
}

// Store is the full data-store collaborator.
type Store interface {
	Catalog
	ClimateWeights
	SceneStore
	Palette
	AdminConfigs
	Close() error
}

// Memory holds the collective-memory counters. Increments are associative and
// commutative so concurrent callers need no coordination.
type Memory interface {
	IncrementSymbol(ctx context.Context, emoji string) error
	IncrementPair(ctx context.Context, source, target string) error
	SymbolStats(ctx context.Context) ([]model.SymbolStat, error)
	PairStats(ctx context.Context) ([]model.PairStat, error)
}
