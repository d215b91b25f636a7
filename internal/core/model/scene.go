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
// workflows and the storage layers. This file, `scene.go`, holds the persisted
// records of the scene pipeline: the symbol triad a visitor picked, the scene
// descriptor the composer produced and the scene row that ties them together.
//
// A SceneDescriptor is immutable once composed. It is written once, read many
// times by the playback collaborator and never updated.
package model

import (
	"time"

	"github.com/google/uuid"
)

// TriadSize is the number of symbols every scene request carries.
const TriadSize = 3

// Pool tiers reported on every selection.
const (
	PoolPrimary     = "primary"
	PoolFallbackAny = "fallback:any"
	PoolMissing     = "missing"
)

// Triad is the ordered selection of three symbols. Duplicates are allowed.
type Triad struct {
	Id        string    `json:"id"`
	Emoji1    string    `json:"emoji_1"`
	Emoji2    string    `json:"emoji_2"`
	Emoji3    string    `json:"emoji_3"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTriad creates a triad with a fresh id. The caller validates cardinality.
func NewTriad(emojis []string) *Triad {
	return &Triad{
		Id:        uuid.NewString(),
		Emoji1:    emojis[0],
		Emoji2:    emojis[1],
		Emoji3:    emojis[2],
		CreatedAt: time.Now(),
	}
}

// Emojis returns the triad symbols in selection order.
func (t *Triad) Emojis() []string {
	return []string{t.Emoji1, t.Emoji2, t.Emoji3}
}

// Pairs returns the three unordered symbol pairs (a,b), (a,c), (b,c).
func (t *Triad) Pairs() [][2]string {
	return [][2]string{
		{t.Emoji1, t.Emoji2},
		{t.Emoji1, t.Emoji3},
		{t.Emoji2, t.Emoji3},
	}
}

// MusicSelection is the single music bed of a scene.
type MusicSelection struct {
	Id   string `json:"id"`
	Path string `json:"path"`
	Pool string `json:"pool"`
}

// VideoSelection is one video layer with its compositing hints.
type VideoSelection struct {
	Id      string  `json:"id"`
	Path    string  `json:"path"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Opacity float64 `json:"opacity"`
	Blend   string  `json:"blend"`
	Pool    string  `json:"pool"`
}

// VoiceSelection is one spoken clip with its start offset and gain.
type VoiceSelection struct {
	Id    string  `json:"id"`
	Path  string  `json:"path"`
	Start float64 `json:"start"`
	Gain  float64 `json:"gain"`
	Pool  string  `json:"pool"`
}

// TextSelection is one display text with its start offset and on-screen time.
type TextSelection struct {
	Id       string  `json:"id"`
	Path     string  `json:"path"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Pool     string  `json:"pool"`
}

// FxSpec drives the particle treatment. Shader is the path of an optional
// shader asset.
type FxSpec struct {
	Type      string  `json:"type"`
	Preset    string  `json:"preset"`
	Intensity float64 `json:"intensity"`
	Shader    string  `json:"shader,omitempty"`
}

// SceneDescriptor is the complete output of one composition.
type SceneDescriptor struct {
	Duration float64          `json:"duration"`
	Climate  Climate          `json:"climate"`
	Seed     int64            `json:"seed"`
	Music    MusicSelection   `json:"music"`
	Videos   []VideoSelection `json:"videos"`
	Voices   []VoiceSelection `json:"voices"`
	Texts    []TextSelection  `json:"texts"`
	Fx       []FxSpec         `json:"fx"`
}

// IsPlayable reports whether the descriptor carries the two hard requirements:
// a music bed and at least one video.
func (d *SceneDescriptor) IsPlayable() bool {
	return d != nil && d.Music.Id != "" && len(d.Videos) > 0
}

// Paths returns every asset path referenced by the descriptor, in descriptor
// order, without duplicates.
func (d *SceneDescriptor) Paths() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	add(d.Music.Path)
	for _, v := range d.Videos {
		add(v.Path)
	}
	for _, v := range d.Voices {
		add(v.Path)
	}
	for _, t := range d.Texts {
		add(t.Path)
	}
	for _, f := range d.Fx {
		add(f.Shader)
	}
	return out
}

// Scene is the persisted record of one scene creation.
type Scene struct {
	Id            string           `json:"id"`
	TriadId       string           `json:"triad_id"`
	ClimateVector ClimateVector    `json:"climate_vector"`
	Descriptor    *SceneDescriptor `json:"scene_descriptor"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewScene creates a scene record with a fresh id.
func NewScene(triadId string, vector ClimateVector, descriptor *SceneDescriptor) *Scene {
	return &Scene{
		Id:            uuid.NewString(),
		TriadId:       triadId,
		ClimateVector: vector,
		Descriptor:    descriptor,
		CreatedAt:     time.Now(),
	}
}
