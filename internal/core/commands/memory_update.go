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
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
	"golang.org/x/sync/errgroup"
)

// MemoryUpdate bumps the collective-memory counters of a triad: each of the
// three symbols and each of the three pairs. The increments run in a detached
// goroutine that outlives the request; the command returns immediately and
// never records an error. Failures are logged and dropped.
type MemoryUpdate struct {
	cor.BaseCommand
	memory   repository.Memory
	inflight sync.WaitGroup
}

// NewMemoryUpdate creates the collective-memory step.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - memory: The counters backend. Nil disables the step.
//
// Outputs:
//   - *MemoryUpdate: The command, reading the triad from TriadParam.
func NewMemoryUpdate(name string, memory repository.Memory) *MemoryUpdate {
	out := &MemoryUpdate{BaseCommand: *cor.NewBaseCommand(name), memory: memory}
	out.InputParamName = TriadParam
	return out
}

// IsExecutable skips the step entirely when no memory backend is configured.
func (c *MemoryUpdate) IsExecutable(context cor.Context) bool {
	return c.memory != nil && c.BaseCommand.IsExecutable(context)
}

// Execute starts the six increments in the background and returns at once.
// The success and error counters are bumped when they finish.
func (c *MemoryUpdate) Execute(chCtx cor.Context) {
	triad := chCtx.Get(c.GetInputParam()).(*model.Triad)
	// The request context is cancelled when the response is written.
	ctx := context.WithoutCancel(chCtx.GetContext())

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		if err := IncrementTriad(ctx, c.memory, triad.Emojis()); err != nil {
			c.ErrorCounter.Add(ctx, 1)
			slog.WarnContext(ctx, "collective memory update failed",
				"triad", triad.Id, "error", fmt.Errorf("%w: %v", model.ErrBestEffortMemory, err))
			return
		}
		c.SuccessCounter.Add(ctx, 1)
	}()
}

// Wait blocks until every detached update has finished.
func (c *MemoryUpdate) Wait() {
	c.inflight.Wait()
}

// IncrementTriad issues the six increments of one triad concurrently and
// returns the first failure. Every increment is attempted on ctx; a failed
// one does not cancel the others.
//
// Inputs:
//   - emojis: the three triad symbols in selection order.
//
// The pairs are (a,b), (a,c) and (b,c).
func IncrementTriad(ctx context.Context, memory repository.Memory, emojis []string) error {
	var g errgroup.Group
	for _, emoji := range emojis {
		g.Go(func() error {
			return memory.IncrementSymbol(ctx, emoji)
		})
	}
	pairs := [][2]string{
		{emojis[0], emojis[1]},
		{emojis[0], emojis[2]},
		{emojis[1], emojis[2]},
	}
	for _, pair := range pairs {
		g.Go(func() error {
			return memory.IncrementPair(ctx, pair[0], pair[1])
		})
	}
	return g.Wait()
}
