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

// Pole is a symbol offered in the palette.
type Pole struct {
	Emoji  string `json:"emoji"`
	Domain string `json:"domain"`
	Active bool   `json:"active"`
}

// SymbolStat is the collective-memory counter of one symbol.
type SymbolStat struct {
	Emoji       string `json:"emoji"`
	Occurrences int64  `json:"occurrences"`
}

// PairStat is the collective-memory counter of one symbol pair.
type PairStat struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Occurrences int64  `json:"occurrences"`
}

// GraphNode is a palette symbol sized by how often it has been chosen.
type GraphNode struct {
	Id     string  `json:"id"`
	Domain string  `json:"domain"`
	Size   int64   `json:"size"`
	Weight float64 `json:"weight"`
}

// GraphLink connects two symbols chosen together.
type GraphLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is the collective-memory view of the palette.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}
