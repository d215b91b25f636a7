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

	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// CatalogLoad reads the enabled catalog. An unreadable or empty catalog
// stops the chain with model.ErrCatalogUnavailable.
type CatalogLoad struct {
	cor.BaseCommand
	catalog repository.Catalog
}

// NewCatalogLoad creates the catalog read step.
//
// Inputs:
//   - name: The command name used for spans and counters.
//   - catalog: The catalog the enabled assets are listed from.
//
// Outputs:
//   - *CatalogLoad: The command. It needs no input value.
func NewCatalogLoad(name string, catalog repository.Catalog) *CatalogLoad {
	return &CatalogLoad{BaseCommand: *cor.NewBaseCommand(name), catalog: catalog}
}

// IsExecutable only needs a Go context; the catalog is read whatever the
// previous step produced.
func (c *CatalogLoad) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

// Execute lists the enabled assets and stores them under CatalogParam.
func (c *CatalogLoad) Execute(context cor.Context) {
	assets, err := c.catalog.ListEnabledAssets(context.GetContext())
	if err != nil {
		c.Fail(context, fmt.Errorf("%w: %w", model.ErrCatalogUnavailable, err))
		return
	}
	if len(assets) == 0 {
		c.Fail(context, fmt.Errorf("%w: no enabled assets", model.ErrCatalogUnavailable))
		return
	}
	c.Succeed(context)
	context.Add(CatalogParam, assets)
}
