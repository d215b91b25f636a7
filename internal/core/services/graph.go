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

package services

import (
	"context"

	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
	"github.com/echohypno/echohypno/internal/core/workflow"
)

// Defaults used when collective memory has nothing to say yet.
const (
	DefaultNodeSize   = 1
	DefaultNodeWeight = 0.5
	DefaultLinkWeight = 0.1
)

// GraphService builds the collective-memory graph: one node per active pole
// sized by how often visitors chose it, one link per co-occurring pair.
type GraphService struct {
	Palette repository.Palette
	Memory  repository.Memory
}

func (s *GraphService) Graph(ctx context.Context) (*model.Graph, error) {
	poles, err := s.Palette.ListActivePoles(ctx)
	if err != nil {
		return nil, err
	}
	symbols, err := s.Memory.SymbolStats(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := s.Memory.PairStats(ctx)
	if err != nil {
		return nil, err
	}

	occurrences := make(map[string]int64, len(symbols))
	var maxSymbol int64
	for _, st := range symbols {
		occurrences[st.Emoji] = st.Occurrences
		maxSymbol = max(maxSymbol, st.Occurrences)
	}

	out := &model.Graph{Nodes: make([]model.GraphNode, 0, len(poles)), Links: make([]model.GraphLink, 0, len(pairs))}
	for _, p := range poles {
		node := model.GraphNode{Id: p.Emoji, Domain: p.Domain, Size: DefaultNodeSize, Weight: DefaultNodeWeight}
		if n := occurrences[p.Emoji]; n > 0 {
			node.Size = n
			node.Weight = float64(n) / float64(maxSymbol)
		}
		out.Nodes = append(out.Nodes, node)
	}

	var maxPair int64
	for _, p := range pairs {
		maxPair = max(maxPair, p.Occurrences)
	}
	for _, p := range pairs {
		link := model.GraphLink{Source: p.Source, Target: p.Target, Weight: DefaultLinkWeight}
		if p.Occurrences > 0 {
			link.Weight = float64(p.Occurrences) / float64(maxPair)
		}
		out.Links = append(out.Links, link)
	}
	return out, nil
}

// PassageService injects synthetic passages into collective memory.
type PassageService struct {
	Workflow *workflow.PassageInjectionWorkflow
}

// InjectPassages records req.Count passages of req.Emojis. Unlike the scene
// side effect, failures are returned.
func (s *PassageService) InjectPassages(ctx context.Context, req *model.PassageRequest) error {
	chainCtx := cor.NewBaseContext(ctx)
	chainCtx.Add(cor.CtxIn, req)
	s.Workflow.Execute(chainCtx)
	return chainCtx.Err()
}
