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

// TriadPersist records the visitor's triad. Its input is the []string of
// symbols; its output is the stored *model.Triad.
type TriadPersist struct {
	cor.BaseCommand
	store repository.SceneStore
}

// NewTriadPersist creates the first step of scene creation.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - store: Where the triad row is inserted.
//
// Outputs:
//   - *TriadPersist: The command, reading its symbols from cor.CtxIn.
func NewTriadPersist(name string, store repository.SceneStore) *TriadPersist {
	return &TriadPersist{BaseCommand: *cor.NewBaseCommand(name), store: store}
}

// Execute validates the three symbols and inserts the triad.
//
// Context in:  cor.CtxIn ([]string)
// Context out: TriadParam and cor.CtxOut (*model.Triad)
//
// A wrong symbol count fails with model.ErrInvalidInput; a store failure
// fails with model.ErrPersistence.
func (c *TriadPersist) Execute(context cor.Context) {
	emojis, ok := context.Get(c.GetInputParam()).([]string)
	if !ok {
		c.Fail(context, fmt.Errorf("%w: missing triad symbols", model.ErrInvalidInput))
		return
	}
	if err := model.ValidateTriad(emojis); err != nil {
		c.Fail(context, err)
		return
	}

	triad := model.NewTriad(emojis)
	if err := c.store.InsertTriad(context.GetContext(), triad); err != nil {
		c.Fail(context, fmt.Errorf("%w: insert triad: %w", model.ErrPersistence, err))
		return
	}

	c.Succeed(context)
	context.Add(TriadParam, triad)
	context.Add(c.GetOutputParam(), triad)
}
