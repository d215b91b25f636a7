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
	"github.com/echohypno/echohypno/internal/core/repository"
)

// ClimateResolve turns the triad into a climate vector and its dominant
// climate. A failed or empty weight lookup is not an error: the default
// vector (all calm) is used instead.
type ClimateResolve struct {
	cor.BaseCommand
	weights repository.ClimateWeights
}

// NewClimateResolve creates the climate step.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - weights: The symbol to climate associations.
//
// Outputs:
//   - *ClimateResolve: The command, reading the triad from TriadParam.
func NewClimateResolve(name string, weights repository.ClimateWeights) *ClimateResolve {
	out := &ClimateResolve{BaseCommand: *cor.NewBaseCommand(name), weights: weights}
	out.InputParamName = TriadParam
	return out
}

// Execute always writes ClimateVectorParam and ClimateParam and never records
// an error.
func (c *ClimateResolve) Execute(context cor.Context) {
	triad := context.Get(c.GetInputParam()).(*model.Triad)

	vector := model.DefaultClimateVector()
	climate := model.DefaultClimate

	weights, err := c.weights.WeightsFor(context.GetContext(), triad.Emojis())
	switch {
	case err != nil:
		c.ErrorCounter.Add(context.GetContext(), 1)
		slog.WarnContext(context.GetContext(), "climate weights unavailable, using default climate",
			"triad", triad.Id, "error", err)
	case len(weights) == 0:
		slog.InfoContext(context.GetContext(), "no climate weights for triad, using default climate", "triad", triad.Id)
	default:
		computed := composer.ComputeClimateVector(weights)
		if computed.Sum() == 0 {
			slog.InfoContext(context.GetContext(), "climate weights sum to zero, using default climate", "triad", triad.Id)
			break
		}
		vector = computed
		if dominant := composer.DominantClimate(vector); dominant != "" {
			climate = dominant
		}
		c.Succeed(context)
	}

	context.Add(ClimateVectorParam, vector)
	context.Add(ClimateParam, climate)
}
