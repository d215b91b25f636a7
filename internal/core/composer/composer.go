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
	"math"

	"github.com/echohypno/echohypno/internal/core/model"
)

// Options tunes the composition. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	Duration    float64 // Scene length. Fixed; never derived from the music asset.
	MaxVideos   int     // Videos layered per scene.
	MaxVoices   int     // Voice count is drawn uniformly from [1, MaxVoices].
	MaxTexts    int     // Text count is drawn uniformly from [1, MaxTexts].
	VoiceWindow float64 // Voices start within the first VoiceWindow fraction of the scene.
	TextWindow  float64 // Texts start within the first TextWindow fraction of the scene.
}

// DefaultOptions returns the canonical composition settings.
func DefaultOptions() Options {
	return Options{
		Duration:    180,
		MaxVideos:   1,
		MaxVoices:   2,
		MaxTexts:    2,
		VoiceWindow: 0.2,
		TextWindow:  0.6,
	}
}

// ComposeRequest is the input of one composition. Assets is the catalog
// snapshot; disabled assets are ignored. Tags, when present, bias selection
// towards assets sharing them.
type ComposeRequest struct {
	Assets  []*model.MediaAsset
	Climate model.Climate
	Seed    int64
	Tags    []string
}

// Composer assembles scene descriptors. It holds no state between calls and is
// safe for concurrent use.
type Composer struct {
	opts Options
}

// New returns a composer with the given options. Non-positive fields fall back
// to their default.
func New(opts Options) *Composer {
	def := DefaultOptions()
	if opts.Duration <= 0 {
		opts.Duration = def.Duration
	}
	if opts.MaxVideos <= 0 {
		opts.MaxVideos = def.MaxVideos
	}
	if opts.MaxVoices <= 0 {
		opts.MaxVoices = def.MaxVoices
	}
	if opts.MaxTexts <= 0 {
		opts.MaxTexts = def.MaxTexts
	}
	if opts.VoiceWindow <= 0 {
		opts.VoiceWindow = def.VoiceWindow
	}
	if opts.TextWindow <= 0 {
		opts.TextWindow = def.TextWindow
	}
	return &Composer{opts: opts}
}

// ComposeScene composes with DefaultOptions.
func ComposeScene(req ComposeRequest) (*model.SceneDescriptor, error) {
	return New(DefaultOptions()).Compose(req)
}

// Compose builds a descriptor for the request. Music and video are hard
// requirements and fail with a *model.ComposerError when no enabled asset of
// the category exists; voice, text and shader degrade to empty selections.
//
// The random source is consumed in a fixed order (music, videos, voices,
// texts, fx) so identical inputs produce identical descriptors.
func (c *Composer) Compose(req ComposeRequest) (*model.SceneDescriptor, error) {
	climate := req.Climate
	if climate == "" {
		climate = model.DefaultClimate
	}
	if len(req.Assets) == 0 {
		return nil, &model.ComposerError{Cause: model.CauseNoAssets, Climate: climate}
	}

	seed := NormalizeSeed(req.Seed)
	rnd := NewRandom(seed)
	duration := c.opts.Duration

	musicPool := ResolvePool(req.Assets, model.CategoryMusic, climate)
	music := pickOne(weigh(musicPool.Assets, req.Tags), rnd)
	if music == nil {
		return nil, &model.ComposerError{Cause: model.CauseNoMusic, Climate: climate}
	}

	videoPool := ResolvePool(req.Assets, model.CategoryVideo, climate)
	if videoPool.Empty() {
		return nil, &model.ComposerError{Cause: model.CauseNoVideo, Climate: climate}
	}
	videos := make([]model.VideoSelection, 0, c.opts.MaxVideos)
	for _, v := range pickMany(weigh(videoPool.Assets, req.Tags), c.opts.MaxVideos, rnd) {
		videos = append(videos, model.VideoSelection{
			Id:      v.Id,
			Path:    v.Path,
			Start:   0,
			End:     duration,
			Opacity: 1,
			Blend:   "normal",
			Pool:    videoPool.Tier,
		})
	}

	voicePool := ResolvePool(req.Assets, model.CategoryVoice, climate)
	voices := make([]model.VoiceSelection, 0)
	if !voicePool.Empty() {
		count := 1 + rnd.IntN(c.opts.MaxVoices)
		for _, v := range pickMany(weigh(voicePool.Assets, req.Tags), count, rnd) {
			voices = append(voices, model.VoiceSelection{
				Id:    v.Id,
				Path:  v.Path,
				Start: math.Floor(rnd.Float64() * duration * c.opts.VoiceWindow),
				Gain:  round(0.55+rnd.Float64()*0.25, 2),
				Pool:  voicePool.Tier,
			})
		}
	}

	textPool := ResolvePool(req.Assets, model.CategoryText, climate)
	texts := make([]model.TextSelection, 0)
	if !textPool.Empty() {
		count := 1 + rnd.IntN(c.opts.MaxTexts)
		for _, t := range pickMany(weigh(textPool.Assets, req.Tags), count, rnd) {
			texts = append(texts, model.TextSelection{
				Id:       t.Id,
				Path:     t.Path,
				Start:    math.Floor(rnd.Float64() * duration * c.opts.TextWindow),
				Duration: float64(6 + rnd.IntN(6)),
				Pool:     textPool.Tier,
			})
		}
	}

	fx := model.FxSpec{Type: "particles", Preset: string(climate)}
	shaderPool := ResolvePool(req.Assets, model.CategoryShader, climate)
	if shader := pickOne(shaderPool.Assets, rnd); shader != nil {
		fx.Shader = shader.Path
	}
	fx.Intensity = round(0.4+rnd.Float64()*0.4, 2)

	return &model.SceneDescriptor{
		Duration: duration,
		Climate:  climate,
		Seed:     seed,
		Music:    model.MusicSelection{Id: music.Id, Path: music.Path, Pool: musicPool.Tier},
		Videos:   videos,
		Voices:   voices,
		Texts:    texts,
		Fx:       []model.FxSpec{fx},
	}, nil
}

func pickOne(list []*model.MediaAsset, rnd *Random) *model.MediaAsset {
	if len(list) == 0 {
		return nil
	}
	return list[rnd.IntN(len(list))]
}

// pickMany shuffles a copy of list with the seeded source and returns up to
// max distinct assets.
func pickMany(list []*model.MediaAsset, max int, rnd *Random) []*model.MediaAsset {
	shuffled := make([]*model.MediaAsset, len(list))
	copy(shuffled, list)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	out := make([]*model.MediaAsset, 0, max)
	seen := make(map[string]bool)
	for _, a := range shuffled {
		if len(out) == max {
			break
		}
		if seen[a.Id] {
			continue
		}
		seen[a.Id] = true
		out = append(out, a)
	}
	return out
}
