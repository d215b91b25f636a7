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

// Package commands holds the steps the workflows are assembled from. Each
// command reads its inputs from the chain context under the keys below and
// writes its result back for the commands after it.
package commands

// Chain context keys.
const (
	TriadParam         = "__triad__"          // *model.Triad
	ClimateVectorParam = "__climate_vector__" // model.ClimateVector
	ClimateParam       = "__climate__"        // model.Climate
	CatalogParam       = "__catalog__"        // []*model.MediaAsset
	DescriptorParam    = "__descriptor__"     // *model.SceneDescriptor
	SceneParam         = "__scene__"          // *model.Scene
	AssetParam         = "__asset__"          // *model.MediaAsset
	PassageParam       = "__passage__"        // *model.PassageRequest
)
