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

package model_test

import (
	"errors"
	"testing"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetIdIsStable(t *testing.T) {
	a := model.NewMediaAsset("assets", "video/deep/tide.mp4", model.CategoryVideo, model.ClimateDeep)
	b := model.NewMediaAsset("assets", "video/deep/tide.mp4", model.CategoryVideo, "")
	assert.Equal(t, a.Id, b.Id)
	assert.Equal(t, "video/deep/tide.mp4", a.Path)
	assert.False(t, a.Enabled)
	assert.NotEqual(t, a.Id, model.AssetId("other-bucket", "video/deep/tide.mp4"))
}

func TestTriadPairs(t *testing.T) {
	triad := model.NewTriad([]string{"🌊", "🔥", "🌑"})
	assert.Equal(t, []string{"🌊", "🔥", "🌑"}, triad.Emojis())
	assert.Equal(t, [][2]string{{"🌊", "🔥"}, {"🌊", "🌑"}, {"🔥", "🌑"}}, triad.Pairs())
}

func TestValidateTriad(t *testing.T) {
	assert.NoError(t, model.ValidateTriad([]string{"🌊", "🌊", "🌊"}))
	for _, in := range [][]string{nil, {"🌊"}, {"🌊", "🔥", "🌑", "🌞"}} {
		err := model.ValidateTriad(in)
		assert.True(t, errors.Is(err, model.ErrInvalidInput))
	}
}

func TestPassageRequestValidate(t *testing.T) {
	p := model.PassageRequest{Emojis: []string{"🌊", "🔥", "🌑"}}
	require.NoError(t, p.Validate())
	assert.Equal(t, 1, p.Count)

	bad := model.PassageRequest{Emojis: []string{"🌊", "🔥", "🌑"}, Count: -2}
	assert.True(t, errors.Is(bad.Validate(), model.ErrInvalidInput))

	short := model.PassageRequest{Emojis: []string{"🌊"}, Count: 2}
	assert.True(t, errors.Is(short.Validate(), model.ErrInvalidInput))
}

func TestDescriptorPlayableAndPaths(t *testing.T) {
	var empty *model.SceneDescriptor
	assert.False(t, empty.IsPlayable())

	d := &model.SceneDescriptor{
		Music:  model.MusicSelection{Id: "m1", Path: "music/a.mp3"},
		Videos: []model.VideoSelection{{Id: "v1", Path: "video/b.mp4"}},
		Voices: []model.VoiceSelection{{Id: "vo1", Path: "voice/c.mp3"}, {Id: "vo1", Path: "voice/c.mp3"}},
		Fx:     []model.FxSpec{{Type: "particles", Shader: "shader/d.glsl"}},
	}
	assert.True(t, d.IsPlayable())
	assert.Equal(t, []string{"music/a.mp3", "video/b.mp4", "voice/c.mp3", "shader/d.glsl"}, d.Paths())
}

func TestComposerErrorIsFatal(t *testing.T) {
	err := error(&model.ComposerError{Cause: model.CauseNoVideo, Climate: model.ClimateTense})
	assert.True(t, errors.Is(err, model.ErrComposerFatal))
	assert.Contains(t, err.Error(), "no-video")
}
