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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/echohypno/echohypno/internal/core/composer"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var composeFlags struct {
	catalogPath string
	climate     string
	seed        int64
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose one scene offline from a YAML catalog and print it as JSON",
	Long: "Runs the composition engine without a store. The same catalog, climate and\n" +
		"seed always print the same descriptor.",
	RunE: runCompose,
}

func init() {
	f := composeCmd.Flags()
	f.StringVarP(&composeFlags.catalogPath, "catalog", "c", "", "YAML catalog file (required)")
	f.StringVar(&composeFlags.climate, "climate", string(model.DefaultClimate), "Climate to compose for")
	f.Int64Var(&composeFlags.seed, "seed", 0, "Seed; 0 draws a fresh one")

	_ = composeCmd.MarkFlagRequired("catalog")
}

// CatalogFile is the YAML shape read by compose.
type CatalogFile struct {
	Assets []*model.MediaAsset `yaml:"assets"`
}

// ReadCatalog loads a YAML catalog.
func ReadCatalog(path string) ([]*model.MediaAsset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var catalog CatalogFile
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return catalog.Assets, nil
}

func runCompose(cmd *cobra.Command, _ []string) error {
	climate, ok := model.ParseClimate(composeFlags.climate)
	if !ok {
		return fmt.Errorf("%w: unknown climate %q", model.ErrInvalidInput, composeFlags.climate)
	}
	assets, err := ReadCatalog(composeFlags.catalogPath)
	if err != nil {
		return err
	}

	descriptor, err := composer.ComposeScene(composer.ComposeRequest{
		Assets:  assets,
		Climate: climate,
		Seed:    composeFlags.seed,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(descriptor)
}
