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

package workflow

import (
	"github.com/echohypno/echohypno/internal/core/commands"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// PassageInjectionWorkflow writes synthetic visitor passages into collective
// memory. It serves both the passage endpoint and the passage subscription,
// so its input may be a *model.PassageRequest or the JSON of one.
type PassageInjectionWorkflow struct {
	cor.BaseCommand
	memory repository.Memory
	chain  cor.Chain
}

func NewPassageInjectionWorkflow(memory repository.Memory) *PassageInjectionWorkflow {
	w := &PassageInjectionWorkflow{
		BaseCommand: *cor.NewBaseCommand("passage-injection-workflow"),
		memory:      memory,
	}
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewPassageReader("passage-reader"))
	out.AddCommand(commands.NewPassageInject("passage-inject", memory))
	w.chain = out
	return w
}

func (w *PassageInjectionWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}
