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

package composer_test

import (
	"math"
	"testing"

	"github.com/echohypno/echohypno/internal/core/composer"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestComputeClimateVectorNormalizes checks that the five values sum to one
// within rounding and each lies in [0, 1].
func TestComputeClimateVectorNormalizes(t *testing.T) {
	weights := []model.ClimateWeight{
		{Emoji: "🌊", Climate: "calm", Weight: 2},
		{Emoji: "🌊", Climate: "deep", Weight: 1},
		{Emoji: "🔥", Climate: "tense", Weight: 3},
		{Emoji: "🌑", Climate: "deep", Weight: 0.5},
		{Emoji: "🌑", Climate: "luminous", Weight: 0.25},
	}
	v := composer.ComputeClimateVector(weights)

	assert.Len(t, v, 5)
	assert.InDelta(t, 1.0, v.Sum(), 0.005)
	for _, c := range model.AllClimates {
		assert.GreaterOrEqual(t, v[c], 0.0)
		assert.LessOrEqual(t, v[c], 1.0)
	}
	assert.Equal(t, 0.444, v[model.ClimateTense])
	assert.Equal(t, 0.222, v[model.ClimateDeep])
	assert.Equal(t, 0.0, v[model.ClimateContrast])
}

func TestComputeClimateVectorEmpty(t *testing.T) {
	for _, in := range [][]model.ClimateWeight{
		nil,
		{},
		{{Emoji: "x", Climate: "calm", Weight: 0}, {Emoji: "y", Climate: "deep", Weight: 0}},
	} {
		v := composer.ComputeClimateVector(in)
		assert.Len(t, v, 5)
		for _, c := range model.AllClimates {
			assert.Equal(t, 0.0, v[c])
		}
	}
}

func TestComputeClimateVectorIgnoresUnknown(t *testing.T) {
	v := composer.ComputeClimateVector([]model.ClimateWeight{
		{Climate: "stormy", Weight: 10},
		{Climate: "calm", Weight: math.NaN()},
		{Climate: "deep", Weight: 1},
	})
	assert.Equal(t, 1.0, v[model.ClimateDeep])
	assert.Equal(t, 0.0, v[model.ClimateCalm])
	_, ok := v["stormy"]
	assert.False(t, ok)
}

func TestDominantClimateTieBreak(t *testing.T) {
	v := model.ClimateVector{
		model.ClimateCalm:     0.5,
		model.ClimateDeep:     0.5,
		model.ClimateLuminous: 0,
		model.ClimateTense:    0,
		model.ClimateContrast: 0,
	}
	assert.Equal(t, model.ClimateCalm, composer.DominantClimate(v))

	v[model.ClimateTense] = 0.6
	assert.Equal(t, model.ClimateTense, composer.DominantClimate(v))
}

func TestDominantClimateZeroAndEmpty(t *testing.T) {
	assert.Equal(t, model.ClimateCalm, composer.DominantClimate(model.NewClimateVector()))
	assert.Equal(t, model.Climate(""), composer.DominantClimate(nil))
	assert.Equal(t, model.Climate(""), composer.DominantClimate(model.ClimateVector{}))
}
