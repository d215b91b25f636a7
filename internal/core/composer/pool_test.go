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

package composer_test

import (
	"testing"

	"github.com/echohypno/echohypno/internal/core/composer"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func ids(p composer.Pool) []string {
	out := make([]string, 0, len(p.Assets))
	for _, a := range p.Assets {
		out = append(out, a.Id)
	}
	return out
}

func TestResolvePoolTiers(t *testing.T) {
	catalog := []*model.MediaAsset{
		asset("b", model.CategoryVideo, model.ClimateDeep),
		asset("a", model.CategoryVideo, model.ClimateDeep),
		asset("c", model.CategoryVideo, model.ClimateTense),
		{Id: "d", Category: model.CategoryVideo, Climate: model.ClimateCalm, Enabled: false},
		asset("m", model.CategoryMusic, model.ClimateCalm),
	}

	primary := composer.ResolvePool(catalog, model.CategoryVideo, model.ClimateDeep)
	assert.Equal(t, model.PoolPrimary, primary.Tier)
	assert.Equal(t, []string{"a", "b"}, ids(primary))

	// The only calm video is disabled, so every enabled video is eligible.
	fallback := composer.ResolvePool(catalog, model.CategoryVideo, model.ClimateCalm)
	assert.Equal(t, model.PoolFallbackAny, fallback.Tier)
	assert.Equal(t, []string{"a", "b", "c"}, ids(fallback))

	missing := composer.ResolvePool(catalog, model.CategoryText, model.ClimateCalm)
	assert.Equal(t, model.PoolMissing, missing.Tier)
	assert.True(t, missing.Empty())
}

func TestResolvePoolUnclassifiedAssets(t *testing.T) {
	catalog := []*model.MediaAsset{asset("x", model.CategoryVoice, "")}
	p := composer.ResolvePool(catalog, model.CategoryVoice, model.ClimateLuminous)
	assert.Equal(t, model.PoolFallbackAny, p.Tier)
	assert.Equal(t, []string{"x"}, ids(p))
}
