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
	"encoding/json"
	"fmt"

	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// PassageReader accepts either a *model.PassageRequest or its JSON encoding
// (as delivered by Pub/Sub) and validates it.
type PassageReader struct {
	cor.BaseCommand
}

// NewPassageReader creates the first passage step, reading cor.CtxIn.
func NewPassageReader(name string) *PassageReader {
	return &PassageReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute decodes and validates the request.
//
// Context in:  cor.CtxIn (*model.PassageRequest or string)
// Context out: PassageParam and cor.CtxOut (*model.PassageRequest)
func (c *PassageReader) Execute(context cor.Context) {
	var req *model.PassageRequest
	switch in := context.Get(c.GetInputParam()).(type) {
	case *model.PassageRequest:
		req = in
	case string:
		req = &model.PassageRequest{}
		if err := json.Unmarshal([]byte(in), req); err != nil {
			c.Fail(context, fmt.Errorf("%w: invalid passage message: %w", model.ErrInvalidInput, err))
			return
		}
	default:
		c.Fail(context, fmt.Errorf("%w: unexpected passage input %T", model.ErrInvalidInput, in))
		return
	}

	if err := req.Validate(); err != nil {
		c.Fail(context, err)
		return
	}
	c.Succeed(context)
	context.Add(PassageParam, req)
	context.Add(c.GetOutputParam(), req)
}

// PassageInject writes Count rounds of a triad into collective memory.
// Unlike the scene side effect, failures are recorded and stop the chain.
type PassageInject struct {
	cor.BaseCommand
	memory repository.Memory
}

// NewPassageInject creates the passage writer.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - memory: The counters backend.
//
// Outputs:
//   - *PassageInject: The command, reading the request from PassageParam.
func NewPassageInject(name string, memory repository.Memory) *PassageInject {
	out := &PassageInject{BaseCommand: *cor.NewBaseCommand(name), memory: memory}
	out.InputParamName = PassageParam
	return out
}

// Execute runs the rounds in order and stops at the first failed round.
func (c *PassageInject) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.PassageRequest)

	for round := 0; round < req.Count; round++ {
		if err := IncrementTriad(context.GetContext(), c.memory, req.Emojis); err != nil {
			c.Fail(context, fmt.Errorf("passage %d of %d: %w", round+1, req.Count, err))
			return
		}
	}
	c.Succeed(context)
	context.Add(c.GetOutputParam(), req)
}
