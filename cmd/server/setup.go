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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/echohypno/echohypno/internal/api"
	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/repository"
	"github.com/echohypno/echohypno/internal/core/services"
	"github.com/echohypno/echohypno/internal/core/workflow"
	"github.com/echohypno/echohypno/internal/memory"
	"github.com/echohypno/echohypno/internal/store/sqlite"
)

// StateManager holds everything the server builds at startup.
type StateManager struct {
	config   *cloud.Config
	cloud    *cloud.ServiceClients
	store    repository.Store
	memory   repository.Memory
	closers  []io.Closer
	scenes   *workflow.SceneCreationWorkflow
	services *api.Services
}

var state = &StateManager{}

// SetupOS defaults the config directory and runtime for a local run.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

func GetConfig() (*cloud.Config, error) {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			return nil, fmt.Errorf("failed to setup os: %w", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			return nil, err
		}
		state.config = config
	}
	return state.config, nil
}

// OpenStore opens the configured data store. BigQuery needs the cloud
// clients.
func OpenStore(config *cloud.Config, clients *cloud.ServiceClients) (repository.Store, error) {
	switch config.Store.Driver {
	case cloud.StoreDriverSQLite, "":
		db, err := sqlite.Open(config.Store.SQLitePath, slog.Default())
		if err != nil {
			return nil, err
		}
		return sqlite.NewRepository(db), nil
	case cloud.StoreDriverBigQuery:
		if clients == nil || clients.BigQueryClient == nil {
			return nil, fmt.Errorf("store driver %q needs a BigQuery client", config.Store.Driver)
		}
		return services.NewBigQueryRepository(clients.BigQueryClient, config.BigQueryDataSource), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", config.Store.Driver)
}

// OpenMemory returns the collective-memory backend and, when it owns a
// connection, the closer for it.
func OpenMemory(ctx context.Context, config *cloud.Config, store repository.Store) (repository.Memory, io.Closer, error) {
	switch config.Memory.Driver {
	case cloud.MemoryDriverRedis:
		counter, err := memory.NewRedisCounter(ctx, config.Memory.RedisAddr, config.Memory.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return counter, counter, nil
	case cloud.MemoryDriverStore, "":
		m, ok := store.(repository.Memory)
		if !ok {
			return nil, nil, fmt.Errorf("store %T cannot hold collective memory", store)
		}
		return m, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown memory driver %q", config.Memory.Driver)
}

// InitState opens the stores and clients and assembles the services.
func InitState(ctx context.Context, config *cloud.Config) error {
	if cloud.NeedsCloud(config) {
		clients, err := cloud.NewCloudServiceClients(ctx, config)
		if err != nil {
			return err
		}
		state.cloud = clients
	}

	store, err := OpenStore(config, state.cloud)
	if err != nil {
		return err
	}
	state.store = store

	mem, closer, err := OpenMemory(ctx, config, store)
	if err != nil {
		return err
	}
	state.memory = mem
	if closer != nil {
		state.closers = append(state.closers, closer)
	}

	state.scenes = workflow.NewSceneCreationWorkflow(config, store, mem)
	media := &services.MediaURLService{
		Scenes: store,
		Bucket: config.Storage.AssetBucket,
		TTL:    config.Storage.SignedURLTTL(),
	}
	if state.cloud != nil && state.cloud.StorageClient != nil {
		media.Signer = &cloud.URLSigner{
			StorageClient: state.cloud.StorageClient,
			IAMClient:     state.cloud.IAMClient,
			SignerEmail:   config.Application.SignerServiceAccountEmail,
		}
	}

	state.services = &api.Services{
		Scenes:   &services.SceneService{Workflow: state.scenes, Scenes: store},
		Media:    media,
		Graph:    &services.GraphService{Palette: store, Memory: mem},
		Passages: &services.PassageService{Workflow: workflow.NewPassageInjectionWorkflow(mem)},
		Admin:    &services.AdminService{Store: store},
	}

	SetupListeners(ctx, config, state.cloud)
	return nil
}

// SetupListeners attaches the ingestion workflows to their subscriptions and
// starts receiving.
func SetupListeners(ctx context.Context, config *cloud.Config, clients *cloud.ServiceClients) {
	if clients == nil {
		return
	}
	if listener, ok := clients.PubSubListeners[cloud.AssetTopic]; ok {
		var headers cloud.HeaderReader
		if clients.StorageClient != nil {
			headers = &cloud.StorageHeaderReader{Client: clients.StorageClient}
		}
		listener.SetCommand(workflow.NewAssetIngestionWorkflow(state.store, headers))
		listener.Listen(ctx)
	}
	if listener, ok := clients.PubSubListeners[cloud.PassageTopic]; ok {
		listener.SetCommand(workflow.NewPassageInjectionWorkflow(state.memory))
		listener.Listen(ctx)
	}
	for name := range config.TopicSubscriptions {
		if name != cloud.AssetTopic && name != cloud.PassageTopic {
			slog.Warn("subscription has no workflow", "name", name)
		}
	}
}

// CloseState waits for detached work and releases every connection.
func CloseState() {
	if state.scenes != nil {
		state.scenes.Wait()
	}
	for _, c := range state.closers {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close", "error", err)
		}
	}
	if state.store != nil {
		if err := state.store.Close(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}
	state.cloud.Close()
}
