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

package composer

import (
	"slices"
	"strings"

	"github.com/echohypno/echohypno/internal/core/model"
)

// Pool is the candidate list for one category together with the tier it was
// resolved at.
type Pool struct {
	Assets []*model.MediaAsset
	Tier   string
}

// Empty reports whether the pool has no candidates.
func (p Pool) Empty() bool {
	return len(p.Assets) == 0
}

// ResolvePool filters the catalog down to enabled assets of the category and
// prefers the ones matching the climate:
//
//   - primary: enabled, same category, same climate
//   - fallback:any: enabled, same category, any climate
//   - missing: nothing in the category at all
//
// The returned assets are ordered by id so that the random draws made over
// them do not depend on the order the catalog was read in.
func ResolvePool(assets []*model.MediaAsset, category model.Category, climate model.Climate) Pool {
	eligible := make([]*model.MediaAsset, 0)
	primary := make([]*model.MediaAsset, 0)
	for _, a := range assets {
		if a == nil || !a.Enabled || a.Category != category {
			continue
		}
		eligible = append(eligible, a)
		if a.Climate == climate {
			primary = append(primary, a)
		}
	}

	switch {
	case len(primary) > 0:
		return Pool{Assets: sortById(primary), Tier: model.PoolPrimary}
	case len(eligible) > 0:
		return Pool{Assets: sortById(eligible), Tier: model.PoolFallbackAny}
	default:
		return Pool{Assets: eligible, Tier: model.PoolMissing}
	}
}

func sortById(assets []*model.MediaAsset) []*model.MediaAsset {
	slices.SortStableFunc(assets, func(a, b *model.MediaAsset) int {
		if c := strings.Compare(a.Id, b.Id); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return assets
}

// weigh expands a pool so that each asset appears 1 + |asset.Tags ∩ tags|
// times. Without tags the pool is returned unchanged.
func weigh(assets []*model.MediaAsset, tags []string) []*model.MediaAsset {
	if len(tags) == 0 {
		return assets
	}
	out := make([]*model.MediaAsset, 0, len(assets))
	for _, a := range assets {
		weight := 1
		for _, t := range a.Tags {
			if slices.Contains(tags, t) {
				weight++
			}
		}
		for i := 0; i < weight; i++ {
			out = append(out, a)
		}
	}
	return out
}
