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

package test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

var (
	_ repository.Store  = (*FakeStore)(nil)
	_ repository.Memory = (*FakeMemory)(nil)
)

// FakeStore is an in-memory repository.Store. The Fail* fields make the
// matching operation return ErrInjected.
type FakeStore struct {
	mu sync.Mutex

	Assets  map[string]*model.MediaAsset
	Weights []model.ClimateWeight
	Triads  []*model.Triad
	Scenes  map[string]*model.Scene
	Poles   []*model.Pole
	Configs []*model.AdminConfig

	FailCatalog     bool
	FailWeights     bool
	FailInsertTriad bool
	FailInsertScene bool
}

// NewFakeStore returns a store holding assets and weights.
func NewFakeStore(assets []*model.MediaAsset, weights []model.ClimateWeight) *FakeStore {
	s := &FakeStore{
		Assets:  make(map[string]*model.MediaAsset),
		Weights: weights,
		Scenes:  make(map[string]*model.Scene),
	}
	for _, a := range assets {
		copied := *a
		s.Assets[a.Id] = &copied
	}
	return s
}

func (s *FakeStore) Close() error { return nil }

func (s *FakeStore) sortedAssets(filter func(*model.MediaAsset) bool) []*model.MediaAsset {
	out := make([]*model.MediaAsset, 0, len(s.Assets))
	for _, a := range s.Assets {
		if filter(a) {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func (s *FakeStore) ListEnabledAssets(_ context.Context) ([]*model.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCatalog {
		return nil, ErrInjected
	}
	return s.sortedAssets(func(a *model.MediaAsset) bool { return a.Enabled }), nil
}

func (s *FakeStore) ListAssets(_ context.Context) ([]*model.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCatalog {
		return nil, ErrInjected
	}
	return s.sortedAssets(func(*model.MediaAsset) bool { return true }), nil
}

func (s *FakeStore) GetAsset(_ context.Context, id string) (*model.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, model.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (s *FakeStore) InsertAsset(_ context.Context, asset *model.MediaAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Assets[asset.Id]; !ok {
		copied := *asset
		s.Assets[asset.Id] = &copied
	}
	return nil
}

func (s *FakeStore) UpdateAsset(_ context.Context, id string, patch model.AssetPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Assets[id]
	if !ok {
		return fmt.Errorf("asset %s: %w", id, model.ErrNotFound)
	}
	if patch.Enabled != nil {
		a.Enabled = *patch.Enabled
	}
	if patch.Climate != nil {
		a.Climate = *patch.Climate
	}
	return nil
}

func (s *FakeStore) WeightsFor(_ context.Context, emojis []string) ([]model.ClimateWeight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWeights {
		return nil, ErrInjected
	}
	out := make([]model.ClimateWeight, 0)
	for _, w := range s.Weights {
		if slices.Contains(emojis, w.Emoji) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *FakeStore) InsertTriad(_ context.Context, triad *model.Triad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertTriad {
		return ErrInjected
	}
	s.Triads = append(s.Triads, triad)
	return nil
}

func (s *FakeStore) InsertScene(_ context.Context, scene *model.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertScene {
		return ErrInjected
	}
	s.Scenes[scene.Id] = scene
	return nil
}

func (s *FakeStore) GetScene(_ context.Context, id string) (*model.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scene, ok := s.Scenes[id]
	if !ok {
		return nil, fmt.Errorf("scene %s: %w", id, model.ErrNotFound)
	}
	return scene, nil
}

func (s *FakeStore) ListActivePoles(_ context.Context) ([]*model.Pole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Pole, 0, len(s.Poles))
	for _, p := range s.Poles {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *FakeStore) InsertConfig(_ context.Context, config *model.AdminConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Configs = append(s.Configs, config)
	return nil
}

func (s *FakeStore) ListConfigs(_ context.Context) ([]*model.AdminConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.Configs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *FakeStore) GetConfig(_ context.Context, id string) (*model.AdminConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Configs {
		if c.Id == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("config %s: %w", id, model.ErrNotFound)
}

// FakeMemory counts increments in memory. With Fail set every increment
// returns ErrInjected.
type FakeMemory struct {
	mu      sync.Mutex
	symbols map[string]int64
	pairs   map[string]int64
	Fail    bool
}

func NewFakeMemory() *FakeMemory {
	return &FakeMemory{symbols: make(map[string]int64), pairs: make(map[string]int64)}
}

func (m *FakeMemory) IncrementSymbol(_ context.Context, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrInjected
	}
	m.symbols[emoji]++
	return nil
}

func (m *FakeMemory) IncrementPair(_ context.Context, source, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrInjected
	}
	m.pairs[source+"|"+target]++
	return nil
}

func (m *FakeMemory) SymbolStats(_ context.Context) ([]model.SymbolStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SymbolStat, 0, len(m.symbols))
	for emoji, n := range m.symbols {
		out = append(out, model.SymbolStat{Emoji: emoji, Occurrences: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Emoji < out[j].Emoji })
	return out, nil
}

func (m *FakeMemory) PairStats(_ context.Context) ([]model.PairStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PairStat, 0, len(m.pairs))
	for key, n := range m.pairs {
		source, target, _ := strings.Cut(key, "|")
		out = append(out, model.PairStat{Source: source, Target: target, Occurrences: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}

// Symbol returns the count of one symbol.
func (m *FakeMemory) Symbol(emoji string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.symbols[emoji]
}

// Pair returns the count of one ordered pair.
func (m *FakeMemory) Pair(source, target string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairs[source+"|"+target]
}
