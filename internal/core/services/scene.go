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

// Package services exposes the use cases behind the HTTP API: scene creation
// and playback, the collective-memory graph, passage injection and catalog
// administration. It also holds the BigQuery implementation of the storage
// contracts.
package services

import (
	"context"
	"fmt"

	"github.com/echohypno/echohypno/internal/core/commands"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
	"github.com/echohypno/echohypno/internal/core/workflow"
)

// SceneService is the entry point for scene creation and lookup.
type SceneService struct {
	Workflow *workflow.SceneCreationWorkflow
	Scenes   repository.SceneStore
}

// CreateScene runs the scene creation pipeline for a triad and returns the
// persisted scene. Errors carry the model sentinel of the step that failed.
func (s *SceneService) CreateScene(ctx context.Context, emojis []string) (*model.Scene, error) {
	if err := model.ValidateTriad(emojis); err != nil {
		return nil, err
	}

	chainCtx := cor.NewBaseContext(ctx)
	chainCtx.Add(cor.CtxIn, emojis)
	s.Workflow.Execute(chainCtx)

	if err := chainCtx.Err(); err != nil {
		return nil, err
	}
	scene, ok := chainCtx.Get(commands.SceneParam).(*model.Scene)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scene creation finished without a scene", model.ErrPersistence)
	}
	return scene, nil
}

func (s *SceneService) GetScene(ctx context.Context, id string) (*model.Scene, error) {
	return s.Scenes.GetScene(ctx, id)
}
