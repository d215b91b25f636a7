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

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
	"github.com/google/uuid"
)

// AdminStore is what catalog administration needs from the data store.
type AdminStore interface {
	repository.Catalog
	repository.Palette
	repository.AdminConfigs
}

// AdminService is the single writer of asset classification. Scene creation
// only ever reads the catalog.
type AdminService struct {
	Store AdminStore
}

func (s *AdminService) ListAssets(ctx context.Context) ([]*model.MediaAsset, error) {
	return s.Store.ListAssets(ctx)
}

// UpdateAsset applies patch to one asset. A climate must be one of the five
// climates or empty (unclassified).
func (s *AdminService) UpdateAsset(ctx context.Context, id string, patch model.AssetPatch) (*model.MediaAsset, error) {
	if patch.Climate != nil && *patch.Climate != "" && !patch.Climate.IsValid() {
		return nil, fmt.Errorf("%w: unknown climate %q", model.ErrInvalidInput, *patch.Climate)
	}
	if err := s.Store.UpdateAsset(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.Store.GetAsset(ctx, id)
}

// Palette returns the symbols offered to visitors.
func (s *AdminService) Palette(ctx context.Context) ([]*model.Pole, error) {
	return s.Store.ListActivePoles(ctx)
}

// SaveConfig snapshots the classification of every asset under name.
func (s *AdminService) SaveConfig(ctx context.Context, name string) (*model.AdminConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: a config needs a name", model.ErrInvalidInput)
	}
	assets, err := s.Store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	config := &model.AdminConfig{
		Id:        uuid.NewString(),
		Name:      name,
		Snapshot:  make([]model.AssetSnapshot, 0, len(assets)),
		CreatedAt: time.Now(),
	}
	for _, a := range assets {
		config.Snapshot = append(config.Snapshot, model.AssetSnapshot{Id: a.Id, Climate: a.Climate, Enabled: a.Enabled})
	}
	if err := s.Store.InsertConfig(ctx, config); err != nil {
		return nil, fmt.Errorf("%w: insert config: %w", model.ErrPersistence, err)
	}
	return config, nil
}

func (s *AdminService) ListConfigs(ctx context.Context) ([]*model.AdminConfig, error) {
	return s.Store.ListConfigs(ctx)
}

// ApplyConfig restores a snapshot onto the catalog. Assets removed since the
// snapshot was taken are skipped; assets added since are left untouched.
// It returns how many assets were updated.
func (s *AdminService) ApplyConfig(ctx context.Context, id string) (int, error) {
	config, err := s.Store.GetConfig(ctx, id)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, snap := range config.Snapshot {
		enabled, climate := snap.Enabled, snap.Climate
		err := s.Store.UpdateAsset(ctx, snap.Id, model.AssetPatch{Enabled: &enabled, Climate: &climate})
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return applied, fmt.Errorf("%w: apply config %s: %w", model.ErrPersistence, id, err)
		}
		applied++
	}
	return applied, nil
}

// AmbientMusic returns the earliest catalogued enabled music asset, or nil
// when there is none.
func (s *AdminService) AmbientMusic(ctx context.Context) (*model.MediaAsset, error) {
	assets, err := s.Store.ListEnabledAssets(ctx)
	if err != nil {
		return nil, err
	}
	var out *model.MediaAsset
	for _, a := range assets {
		if a.Category != model.CategoryMusic {
			continue
		}
		if out == nil || a.CreatedAt.Before(out.CreatedAt) {
			out = a
		}
	}
	return out, nil
}
