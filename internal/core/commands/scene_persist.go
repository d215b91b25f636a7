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
	"fmt"

	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// ScenePersist stores the scene record tying the triad, its climate vector
// and the composed descriptor together.
type ScenePersist struct {
	cor.BaseCommand
	store repository.SceneStore
}

// NewScenePersist creates the last step of scene creation.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - store: Where the scene row is inserted.
//
// Outputs:
//   - *ScenePersist: The command, reading the descriptor from DescriptorParam.
func NewScenePersist(name string, store repository.SceneStore) *ScenePersist {
	out := &ScenePersist{BaseCommand: *cor.NewBaseCommand(name), store: store}
	out.InputParamName = DescriptorParam
	return out
}

// IsExecutable requires both the descriptor and the triad it belongs to.
func (c *ScenePersist) IsExecutable(context cor.Context) bool {
	return c.BaseCommand.IsExecutable(context) && context.Get(TriadParam) != nil
}

// Execute builds the scene record and inserts it.
//
// Context in:  DescriptorParam, TriadParam, ClimateVectorParam (optional)
// Context out: SceneParam and cor.CtxOut (*model.Scene)
func (c *ScenePersist) Execute(context cor.Context) {
	descriptor := context.Get(c.GetInputParam()).(*model.SceneDescriptor)
	triad := context.Get(TriadParam).(*model.Triad)
	vector, ok := context.Get(ClimateVectorParam).(model.ClimateVector)
	if !ok {
		vector = model.DefaultClimateVector()
	}

	scene := model.NewScene(triad.Id, vector, descriptor)
	if err := c.store.InsertScene(context.GetContext(), scene); err != nil {
		c.Fail(context, fmt.Errorf("%w: insert scene: %w", model.ErrPersistence, err))
		return
	}

	c.Succeed(context)
	context.Add(SceneParam, scene)
	context.Add(c.GetOutputParam(), scene)
}
