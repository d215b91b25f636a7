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
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSObjectParam is the chain context key holding the *GCSObject being ingested.
const GCSObjectParam = "__GCS__OBJ__"

// GCSPubSubNotification is the JSON payload GCS publishes on an object change.
type GCSPubSubNotification struct {
	Kind                    string                 `json:"kind"`
	ID                      string                 `json:"id"`
	SelfLink                string                 `json:"selfLink"`
	Name                    string                 `json:"name"`
	Bucket                  string                 `json:"bucket"`
	Generation              string                 `json:"generation"`
	MetaGeneration          string                 `json:"metageneration"`
	ContentType             string                 `json:"contentType"`
	TimeCreated             string                 `json:"timeCreated"`
	Updated                 string                 `json:"updated"`
	StorageClass            string                 `json:"storageClass"`
	TimeStorageClassUpdated string                 `json:"timeStorageClassUpdated"`
	Size                    string                 `json:"size"`
	MD5Hash                 string                 `json:"md5Hash"`
	MediaLink               string                 `json:"mediaLink"`
	MetaData                map[string]interface{} `json:"metadata"`
	Crc32c                  string                 `json:"crc32c"`
	ETag                    string                 `json:"etag"`
}

// GCSObject is the part of a notification the ingestion chain needs.
type GCSObject struct {
	Bucket   string
	Name     string
	MIMEType string
}

// Path returns "bucket/name", the stable identity of the object.
func (o *GCSObject) Path() string {
	return o.Bucket + "/" + o.Name
}

// HeaderReader returns up to n leading bytes of an object.
type HeaderReader interface {
	ReadHeader(ctx context.Context, bucket, name string, n int64) ([]byte, error)
}

// StorageHeaderReader reads object headers with ranged GCS reads, so large
// media files are never downloaded in full.
type StorageHeaderReader struct {
	Client *storage.Client
}

func (r *StorageHeaderReader) ReadHeader(ctx context.Context, bucket, name string, n int64) ([]byte, error) {
	reader, err := r.Client.Bucket(bucket).Object(name).NewRangeReader(ctx, 0, n)
	if err != nil {
		return nil, fmt.Errorf("open range reader for gs://%s/%s: %w", bucket, name, err)
	}
	defer reader.Close()

	header, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read header of gs://%s/%s: %w", bucket, name, err)
	}
	return header, nil
}
