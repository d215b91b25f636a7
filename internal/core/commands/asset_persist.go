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
	"fmt"
	"log/slog"

	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// AssetPersist adds the classified asset to the catalog. An asset that is
// already catalogued keeps its admin-edited state.
type AssetPersist struct {
	cor.BaseCommand
	catalog repository.Catalog
}

// NewAssetPersist creates the final ingestion step.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - catalog: The catalog the asset is inserted into.
//
// Outputs:
//   - *AssetPersist: The command, reading the asset from AssetParam.
func NewAssetPersist(name string, catalog repository.Catalog) *AssetPersist {
	out := &AssetPersist{BaseCommand: *cor.NewBaseCommand(name), catalog: catalog}
	out.InputParamName = AssetParam
	return out
}

// Execute inserts the asset. Re-ingesting a known object is a no-op at the
// store, so the command still succeeds.
func (c *AssetPersist) Execute(context cor.Context) {
	asset := context.Get(c.GetInputParam()).(*model.MediaAsset)

	if err := c.catalog.InsertAsset(context.GetContext(), asset); err != nil {
		c.Fail(context, fmt.Errorf("%w: insert asset %s: %w", model.ErrPersistence, asset.Path, err))
		return
	}

	c.Succeed(context)
	context.Add(c.GetOutputParam(), asset)
	slog.InfoContext(context.GetContext(), "catalogued asset",
		"id", asset.Id, "path", asset.Path, "category", asset.Category, "climate", asset.Climate)
}
