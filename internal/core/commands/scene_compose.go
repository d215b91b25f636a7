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

package commands

import (
	"log/slog"

	"github.com/echohypno/echohypno/internal/core/composer"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"go.opentelemetry.io/otel/metric"
)

// SceneComposer is the composition engine as seen by the pipeline.
type SceneComposer interface {
	Compose(req composer.ComposeRequest) (*model.SceneDescriptor, error)
}

// SceneCompose draws a fresh seed and composes the scene for the resolved
// climate. If that fails it retries once with the default climate and the
// same seed; only a second failure stops the chain.
type SceneCompose struct {
	cor.BaseCommand
	composer     SceneComposer
	seeds        func() int64
	retryCounter metric.Int64Counter
}

// NewSceneCompose creates the step. A nil seeds function uses
// composer.NewSeed.
func NewSceneCompose(name string, c SceneComposer, seeds func() int64) *SceneCompose {
	if seeds == nil {
		seeds = composer.NewSeed
	}
	out := &SceneCompose{BaseCommand: *cor.NewBaseCommand(name), composer: c, seeds: seeds}
	out.InputParamName = CatalogParam
	out.retryCounter, _ = out.Meter.Int64Counter(name + ".counter.retry")
	return out
}

// Execute composes from the catalog under CatalogParam.
//
// Context in:  CatalogParam, ClimateParam (defaults to calm), TriadParam (tags)
// Context out: DescriptorParam and cor.CtxOut (*model.SceneDescriptor)
//
// The retry reuses the seed so the fallback scene is reproducible too.
func (c *SceneCompose) Execute(context cor.Context) {
	assets := context.Get(c.GetInputParam()).([]*model.MediaAsset)
	climate, _ := context.Get(ClimateParam).(model.Climate)
	if climate == "" {
		climate = model.DefaultClimate
	}
	var tags []string
	if triad, ok := context.Get(TriadParam).(*model.Triad); ok {
		tags = triad.Emojis()
	}

	req := composer.ComposeRequest{Assets: assets, Climate: climate, Seed: c.seeds(), Tags: tags}
	descriptor, err := c.composer.Compose(req)
	if err != nil {
		slog.WarnContext(context.GetContext(), "composition failed, retrying with default climate",
			"climate", climate, "seed", req.Seed, "error", err)
		if c.retryCounter != nil {
			c.retryCounter.Add(context.GetContext(), 1)
		}
		req.Climate = model.DefaultClimate
		descriptor, err = c.composer.Compose(req)
	}
	if err != nil {
		c.Fail(context, err)
		return
	}

	c.Succeed(context)
	context.Add(DescriptorParam, descriptor)
	context.Add(c.GetOutputParam(), descriptor)
}
