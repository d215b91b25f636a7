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

package model

import "fmt"

// MaxPassageCount bounds one injection request.
const MaxPassageCount = 1000

// PassageRequest asks for Count symbolic passages of one triad to be written
// into collective memory, as if Count visitors had picked it.
type PassageRequest struct {
	Emojis []string `json:"emojis"`
	Count  int      `json:"count"`
}

// Validate checks the triad cardinality and defaults Count to 1.
func (p *PassageRequest) Validate() error {
	if len(p.Emojis) != TriadSize {
		return fmt.Errorf("%w: passages require exactly %d emojis, got %d", ErrInvalidInput, TriadSize, len(p.Emojis))
	}
	if p.Count == 0 {
		p.Count = 1
	}
	if p.Count < 0 || p.Count > MaxPassageCount {
		return fmt.Errorf("%w: passage count must be between 1 and %d, got %d", ErrInvalidInput, MaxPassageCount, p.Count)
	}
	return nil
}

// ValidateTriad checks that emojis holds exactly one triad. Duplicate symbols
// are allowed.
func ValidateTriad(emojis []string) error {
	if len(emojis) != TriadSize {
		return fmt.Errorf("%w: a triad requires exactly %d emojis, got %d", ErrInvalidInput, TriadSize, len(emojis))
	}
	return nil
}
