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

// Package workflow assembles the commands into the service's pipelines:
// scene creation for visitors, asset ingestion from the bucket and passage
// injection into collective memory.
package workflow

import (
	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/commands"
	"github.com/echohypno/echohypno/internal/core/composer"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// SceneCreationWorkflow turns a visitor's triad into a persisted scene.
//
// The chain is:
//
//	triad-persist -> memory-update -> climate-resolve -> catalog-load ->
//	scene-compose -> scene-persist
//
// Its input is the []string of symbols under cor.CtxIn and its result is the
// *model.Scene under commands.SceneParam. The triad is written before the
// catalog is read, so a failed composition leaves an orphaned triad behind;
// readers must tolerate triads without scenes.
type SceneCreationWorkflow struct {
	cor.BaseCommand
	store    repository.Store
	memory   repository.Memory
	composer commands.SceneComposer
	seeds    func() int64
	update   *commands.MemoryUpdate
	chain    cor.Chain
}

// SceneOption customises a SceneCreationWorkflow.
type SceneOption func(*SceneCreationWorkflow)

// WithSeeds replaces the seed source. Tests use it to make scenes
// reproducible.
func WithSeeds(seeds func() int64) SceneOption {
	return func(w *SceneCreationWorkflow) { w.seeds = seeds }
}

// WithComposer replaces the composition engine.
func WithComposer(c commands.SceneComposer) SceneOption {
	return func(w *SceneCreationWorkflow) { w.composer = c }
}

// ComposerOptions maps the [composer] configuration onto composer.Options.
func ComposerOptions(config *cloud.Config) composer.Options {
	return composer.Options{
		Duration:    config.Composer.Duration,
		MaxVideos:   config.Composer.MaxVideos,
		MaxVoices:   config.Composer.MaxVoices,
		MaxTexts:    config.Composer.MaxTexts,
		VoiceWindow: config.Composer.VoiceWindow,
		TextWindow:  config.Composer.TextWindow,
	}
}

// NewSceneCreationWorkflow builds the pipeline. memory may be nil, in which
// case collective memory is not updated.
func NewSceneCreationWorkflow(
	config *cloud.Config,
	store repository.Store,
	memory repository.Memory,
	opts ...SceneOption) *SceneCreationWorkflow {

	w := &SceneCreationWorkflow{
		BaseCommand: *cor.NewBaseCommand("scene-creation-workflow"),
		store:       store,
		memory:      memory,
		composer:    composer.New(ComposerOptions(config)),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.initializeChain()
	return w
}

func (w *SceneCreationWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewTriadPersist("triad-persist", w.store))

	// Fire and forget; never fails the chain.
	w.update = commands.NewMemoryUpdate("memory-update", w.memory)
	out.AddCommand(w.update)

	out.AddCommand(commands.NewClimateResolve("climate-resolve", w.store))
	out.AddCommand(commands.NewCatalogLoad("catalog-load", w.store))
	out.AddCommand(commands.NewSceneCompose("scene-compose", w.composer, w.seeds))
	out.AddCommand(commands.NewScenePersist("scene-persist", w.store))
	w.chain = out
}

func (w *SceneCreationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Wait blocks until the detached collective-memory updates have finished.
func (w *SceneCreationWorkflow) Wait() {
	w.update.Wait()
}
