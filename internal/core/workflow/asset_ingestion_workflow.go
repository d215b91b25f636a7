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

package workflow

import (
	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/commands"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// AssetIngestionWorkflow catalogues objects uploaded to the asset bucket. It
// is driven by the GCS notification subscription: the raw notification is
// read, the object is classified by its name and leading bytes, and a
// disabled asset is added to the catalog for an administrator to review.
type AssetIngestionWorkflow struct {
	cor.BaseCommand
	catalog repository.Catalog
	headers cloud.HeaderReader
	chain   cor.Chain
}

// NewAssetIngestionWorkflow builds the pipeline. headers may be nil, in which
// case only the notification's content type is used for classification.
func NewAssetIngestionWorkflow(catalog repository.Catalog, headers cloud.HeaderReader) *AssetIngestionWorkflow {
	w := &AssetIngestionWorkflow{
		BaseCommand: *cor.NewBaseCommand("asset-ingestion-workflow"),
		catalog:     catalog,
		headers:     headers,
	}
	w.initializeChain()
	return w
}

func (w *AssetIngestionWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewAssetTriggerReader("asset-trigger-reader"))
	out.AddCommand(commands.NewAssetClassify("asset-classify", w.headers))
	out.AddCommand(commands.NewAssetPersist("asset-persist", w.catalog))
	w.chain = out
}

func (w *AssetIngestionWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}
