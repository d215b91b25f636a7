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

package composer

import (
	"math"

	"github.com/echohypno/echohypno/internal/core/model"
)

// ComputeClimateVector aggregates symbol weights into a distribution over the
// five climates, rounded to three decimals. Rows naming an unknown climate or
// carrying a non-finite weight are ignored. When nothing remains the divisor
// falls back to 1 and every climate is zero.
func ComputeClimateVector(weights []model.ClimateWeight) model.ClimateVector {
	vector := model.NewClimateVector()
	for _, w := range weights {
		c, ok := model.ParseClimate(w.Climate)
		if !ok || math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) {
			continue
		}
		vector[c] += w.Weight
	}

	total := vector.Sum()
	if total == 0 {
		total = 1
	}
	for _, c := range model.AllClimates {
		vector[c] = round(vector[c]/total, 3)
	}
	return vector
}

// DominantClimate returns the climate with the strictly largest weight; ties
// go to the climate listed first in model.AllClimates. An empty vector returns
// the empty Climate and the caller picks its own default.
func DominantClimate(vector model.ClimateVector) model.Climate {
	if len(vector) == 0 {
		return ""
	}
	var best model.Climate
	bestWeight := math.Inf(-1)
	for _, c := range model.AllClimates {
		w, ok := vector[c]
		if !ok {
			continue
		}
		if w > bestWeight {
			best, bestWeight = c, w
		}
	}
	return best
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
