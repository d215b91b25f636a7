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
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/echohypno/echohypno/internal/core/composer"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(id string, category model.Category, climate model.Climate, tags ...string) *model.MediaAsset {
	return &model.MediaAsset{
		Id:       id,
		Path:     string(category) + "/" + id + ".bin",
		Category: category,
		Climate:  climate,
		Enabled:  true,
		Tags:     tags,
	}
}

func richCatalog() []*model.MediaAsset {
	return []*model.MediaAsset{
		asset("m1", model.CategoryMusic, model.ClimateCalm),
		asset("m2", model.CategoryMusic, model.ClimateDeep),
		asset("m3", model.CategoryMusic, model.ClimateDeep),
		asset("v1", model.CategoryVideo, model.ClimateDeep),
		asset("v2", model.CategoryVideo, model.ClimateDeep),
		asset("v3", model.CategoryVideo, model.ClimateTense),
		asset("vo1", model.CategoryVoice, model.ClimateDeep),
		asset("vo2", model.CategoryVoice, model.ClimateDeep),
		asset("vo3", model.CategoryVoice, model.ClimateDeep),
		asset("t1", model.CategoryText, model.ClimateDeep),
		asset("t2", model.CategoryText, model.ClimateDeep),
		asset("t3", model.CategoryText, model.ClimateLuminous),
		asset("s1", model.CategoryShader, model.ClimateDeep),
	}
}

// spreadSeeds returns seeds spread over the generator's state space; small
// consecutive seeds produce correlated first draws.
func spreadSeeds(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = 1 + int64(i)*10_000_019
	}
	return out
}

// TestComposeDeterministic composes the same request twice, and once more with
// the catalog in reverse order, and expects byte-identical descriptors.
func TestComposeDeterministic(t *testing.T) {
	catalog := richCatalog()
	reversed := slices.Clone(catalog)
	slices.Reverse(reversed)

	for _, seed := range spreadSeeds(25) {
		first, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateDeep, Seed: seed})
		require.NoError(t, err)
		second, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateDeep, Seed: seed})
		require.NoError(t, err)
		third, err := composer.ComposeScene(composer.ComposeRequest{Assets: reversed, Climate: model.ClimateDeep, Seed: seed})
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("repeated composition differs (-first +second):\n%s", diff)
		}
		if diff := cmp.Diff(first, third); diff != "" {
			t.Fatalf("catalog order changed composition (-first +third):\n%s", diff)
		}

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(third)
		assert.Equal(t, string(a), string(b))
	}
}

func TestComposeEndToEndMinimalCatalog(t *testing.T) {
	catalog := []*model.MediaAsset{
		{Id: "m1", Category: model.CategoryMusic, Climate: model.ClimateCalm, Enabled: true},
		{Id: "v1", Category: model.CategoryVideo, Climate: model.ClimateCalm, Enabled: true},
	}
	d, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateCalm, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, 180.0, d.Duration)
	assert.Equal(t, model.ClimateCalm, d.Climate)
	assert.Equal(t, int64(7), d.Seed)
	assert.Equal(t, "m1", d.Music.Id)
	assert.Equal(t, model.PoolPrimary, d.Music.Pool)
	require.Len(t, d.Videos, 1)
	assert.Equal(t, "v1", d.Videos[0].Id)
	assert.Equal(t, 0.0, d.Videos[0].Start)
	assert.Equal(t, 180.0, d.Videos[0].End)
	assert.Equal(t, 1.0, d.Videos[0].Opacity)
	assert.Equal(t, "normal", d.Videos[0].Blend)
	assert.Empty(t, d.Voices)
	assert.Empty(t, d.Texts)
	require.Len(t, d.Fx, 1)
	assert.Equal(t, "particles", d.Fx[0].Type)
	assert.Equal(t, "calm", d.Fx[0].Preset)
	assert.Empty(t, d.Fx[0].Shader)
	assert.GreaterOrEqual(t, d.Fx[0].Intensity, 0.4)
	assert.LessOrEqual(t, d.Fx[0].Intensity, 0.8)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"voices":[]`)
	assert.Contains(t, string(raw), `"texts":[]`)
}

func TestComposeFailsWithoutMusic(t *testing.T) {
	catalog := []*model.MediaAsset{
		asset("v1", model.CategoryVideo, model.ClimateCalm),
		asset("vo1", model.CategoryVoice, model.ClimateCalm),
		{Id: "m-off", Category: model.CategoryMusic, Climate: model.ClimateCalm, Enabled: false},
	}
	_, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateCalm, Seed: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrComposerFatal))

	var ce *model.ComposerError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, model.CauseNoMusic, ce.Cause)
}

func TestComposeFailsWithoutVideo(t *testing.T) {
	catalog := []*model.MediaAsset{asset("m1", model.CategoryMusic, model.ClimateCalm)}
	_, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateCalm, Seed: 3})

	var ce *model.ComposerError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, model.CauseNoVideo, ce.Cause)
}

func TestComposeFailsOnEmptyCatalog(t *testing.T) {
	_, err := composer.ComposeScene(composer.ComposeRequest{Climate: model.ClimateCalm, Seed: 3})

	var ce *model.ComposerError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, model.CauseNoAssets, ce.Cause)
}

// TestComposeFallbackPromotion requests a climate no video carries and expects
// the only video to be promoted from the fallback tier.
func TestComposeFallbackPromotion(t *testing.T) {
	catalog := []*model.MediaAsset{
		asset("m1", model.CategoryMusic, model.ClimateTense),
		asset("v1", model.CategoryVideo, model.ClimateDeep),
	}
	d, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateTense, Seed: 42})
	require.NoError(t, err)
	require.Len(t, d.Videos, 1)
	assert.Equal(t, "v1", d.Videos[0].Id)
	assert.Equal(t, model.PoolFallbackAny, d.Videos[0].Pool)
	assert.Equal(t, model.PoolPrimary, d.Music.Pool)
}

func TestComposeToleratesMissingVoices(t *testing.T) {
	catalog := []*model.MediaAsset{
		asset("m1", model.CategoryMusic, model.ClimateCalm),
		asset("v1", model.CategoryVideo, model.ClimateCalm),
		asset("t1", model.CategoryText, model.ClimateCalm),
	}
	d, err := composer.ComposeScene(composer.ComposeRequest{Assets: catalog, Climate: model.ClimateCalm, Seed: 11})
	require.NoError(t, err)
	assert.NotNil(t, d.Voices)
	assert.Empty(t, d.Voices)
	assert.Len(t, d.Texts, 1)
}

func TestComposeRanges(t *testing.T) {
	for _, seed := range spreadSeeds(200) {
		d, err := composer.ComposeScene(composer.ComposeRequest{Assets: richCatalog(), Climate: model.ClimateDeep, Seed: seed})
		require.NoError(t, err)

		require.Len(t, d.Videos, 1)
		assert.Contains(t, []string{"v1", "v2"}, d.Videos[0].Id)

		assert.GreaterOrEqual(t, len(d.Voices), 1)
		assert.LessOrEqual(t, len(d.Voices), 2)
		ids := make(map[string]bool)
		for _, v := range d.Voices {
			assert.False(t, ids[v.Id], "voice picked twice")
			ids[v.Id] = true
			assert.GreaterOrEqual(t, v.Start, 0.0)
			assert.Less(t, v.Start, 36.0)
			assert.GreaterOrEqual(t, v.Gain, 0.55)
			assert.LessOrEqual(t, v.Gain, 0.80)
		}

		assert.GreaterOrEqual(t, len(d.Texts), 1)
		assert.LessOrEqual(t, len(d.Texts), 2)
		for _, tx := range d.Texts {
			assert.Contains(t, []string{"t1", "t2"}, tx.Id)
			assert.Less(t, tx.Start, 108.0)
			assert.GreaterOrEqual(t, tx.Duration, 6.0)
			assert.LessOrEqual(t, tx.Duration, 11.0)
		}

		require.Len(t, d.Fx, 1)
		assert.Equal(t, "shader/s1.bin", d.Fx[0].Shader)
		assert.Equal(t, "deep", d.Fx[0].Preset)
	}
}

func TestComposeDefaultsEmptyClimate(t *testing.T) {
	d, err := composer.ComposeScene(composer.ComposeRequest{Assets: richCatalog(), Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, model.ClimateCalm, d.Climate)
	assert.Equal(t, "m1", d.Music.Id)
}

// TestComposeTagBias checks that an asset sharing a tag with the request is
// picked more often than one that does not.
func TestComposeTagBias(t *testing.T) {
	catalog := []*model.MediaAsset{
		asset("m-plain", model.CategoryMusic, model.ClimateCalm),
		asset("m-wave", model.CategoryMusic, model.ClimateCalm, "🌊"),
		asset("v1", model.CategoryVideo, model.ClimateCalm),
	}
	counts := map[string]int{}
	for _, seed := range spreadSeeds(200) {
		d, err := composer.ComposeScene(composer.ComposeRequest{
			Assets:  catalog,
			Climate: model.ClimateCalm,
			Seed:    seed,
			Tags:    []string{"🌊", "🔥", "🌑"},
		})
		require.NoError(t, err)
		counts[d.Music.Id]++
	}
	assert.Greater(t, counts["m-wave"], counts["m-plain"])
}

func TestComposerOptions(t *testing.T) {
	c := composer.New(composer.Options{Duration: 60, MaxVoices: 1})
	d, err := c.Compose(composer.ComposeRequest{Assets: richCatalog(), Climate: model.ClimateDeep, Seed: 1234})
	require.NoError(t, err)
	assert.Equal(t, 60.0, d.Duration)
	assert.Equal(t, 60.0, d.Videos[0].End)
	assert.Len(t, d.Voices, 1)
	assert.Less(t, d.Voices[0].Start, 12.0)
}
