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

// Package model defines the data structures shared by the composer, the
// workflows and the storage layers. This file holds the climate enumeration,
// the mood classification that biases every asset selection, and the climate
// vector computed for each scene request.
package model

// Climate is one of the five fixed mood categories.
type Climate string

const (
	ClimateCalm     Climate = "calm"
	ClimateDeep     Climate = "deep"
	ClimateLuminous Climate = "luminous"
	ClimateTense    Climate = "tense"
	ClimateContrast Climate = "contrast"
)

// AllClimates lists the climates in enumeration order. Anything iterating a
// ClimateVector where order matters (dominant climate tie-breaks, persistence)
// must walk this slice rather than ranging over the map.
var AllClimates = []Climate{
	ClimateCalm,
	ClimateDeep,
	ClimateLuminous,
	ClimateTense,
	ClimateContrast,
}

// DefaultClimate is used whenever no climate can be derived from the input.
const DefaultClimate = ClimateCalm

// ParseClimate returns the Climate matching s and whether s is one of the
// enumerated values.
func ParseClimate(s string) (Climate, bool) {
	for _, c := range AllClimates {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// IsValid reports whether c is one of the enumerated climates.
func (c Climate) IsValid() bool {
	_, ok := ParseClimate(string(c))
	return ok
}

// ClimateWeight is one symbol to climate association row.
type ClimateWeight struct {
	Emoji   string  `json:"emoji" bigquery:"emoji"`
	Climate string  `json:"climate" bigquery:"climate"`
	Weight  float64 `json:"weight" bigquery:"weight"`
}

// ClimateVector maps every climate to a normalised weight. A complete vector
// carries all five keys.
type ClimateVector map[Climate]float64

// NewClimateVector returns a vector with every climate present and set to zero.
func NewClimateVector() ClimateVector {
	v := make(ClimateVector, len(AllClimates))
	for _, c := range AllClimates {
		v[c] = 0
	}
	return v
}

// DefaultClimateVector is substituted when the symbol weights cannot be read.
func DefaultClimateVector() ClimateVector {
	v := NewClimateVector()
	v[ClimateCalm] = 1
	return v
}

// Sum returns the total weight across the five climates.
func (v ClimateVector) Sum() float64 {
	total := 0.0
	for _, c := range AllClimates {
		total += v[c]
	}
	return total
}
