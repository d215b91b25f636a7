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

package cloud

import (
	"context"
	"log/slog"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
)

// ServiceClients holds the Google Cloud clients shared by the whole process
// and the Pub/Sub listeners built from the configured subscriptions.
// Listeners start without a command; the server attaches the ingestion
// workflows before calling Listen.
type ServiceClients struct {
	StorageClient   *storage.Client
	PubsubClient    *pubsub.Client
	BigQueryClient  *bigquery.Client
	IAMClient       *credentials.IamCredentialsClient
	PubSubListeners map[string]*PubSubListener
}

// Close releases every client that was opened.
func (c *ServiceClients) Close() {
	if c == nil {
		return
	}
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
	if c.BigQueryClient != nil {
		_ = c.BigQueryClient.Close()
	}
	if c.IAMClient != nil {
		_ = c.IAMClient.Close()
	}
}

// NeedsCloud reports whether config references any Google Cloud service.
// A purely local configuration runs on SQLite without credentials.
func NeedsCloud(config *Config) bool {
	return config.Store.Driver == StoreDriverBigQuery ||
		config.Storage.AssetBucket != "" ||
		len(config.TopicSubscriptions) > 0
}

// NewCloudServiceClients opens the Storage, Pub/Sub, BigQuery and IAM
// Credentials clients for the configured project.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	clients := &ServiceClients{PubSubListeners: make(map[string]*PubSubListener)}
	fail := func(err error) (*ServiceClients, error) {
		clients.Close()
		return nil, err
	}

	var err error
	if clients.StorageClient, err = storage.NewClient(ctx); err != nil {
		return fail(err)
	}
	if clients.PubsubClient, err = pubsub.NewClient(ctx, config.Application.GoogleProjectId); err != nil {
		return fail(err)
	}
	if clients.BigQueryClient, err = bigquery.NewClient(ctx, config.Application.GoogleProjectId); err != nil {
		return fail(err)
	}
	if config.Application.SignerServiceAccountEmail != "" {
		if clients.IAMClient, err = credentials.NewIamCredentialsClient(ctx); err != nil {
			return fail(err)
		}
	}

	for key, values := range config.TopicSubscriptions {
		listener, err := NewPubSubListener(clients.PubsubClient, values.Name, nil)
		if err != nil {
			return fail(err)
		}
		clients.PubSubListeners[key] = listener
	}

	slog.Info("cloud clients initialized",
		"project", config.Application.GoogleProjectId,
		"subscriptions", len(clients.PubSubListeners))
	return clients, nil
}
