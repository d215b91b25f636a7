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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
)

// AssetTriggerReader parses the GCS notification that starts asset
// ingestion and reduces it to a *cloud.GCSObject.
//
// Folder placeholders (names ending in "/") are rejected so they are never
// catalogued.
type AssetTriggerReader struct {
	cor.BaseCommand
}

// NewAssetTriggerReader creates the first ingestion step. It reads the raw
// message body from cor.CtxIn.
func NewAssetTriggerReader(name string) *AssetTriggerReader {
	return &AssetTriggerReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute decodes the notification.
//
// Context in:  cor.CtxIn (string, the Pub/Sub message body)
// Context out: cloud.GCSObjectParam and cor.CtxOut (*cloud.GCSObject)
//
// Every rejection wraps model.ErrInvalidInput.
func (c *AssetTriggerReader) Execute(context cor.Context) {
	in, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.Fail(context, fmt.Errorf("%w: notification is not a string", model.ErrInvalidInput))
		return
	}

	var out cloud.GCSPubSubNotification
	if err := json.Unmarshal([]byte(in), &out); err != nil {
		c.Fail(context, fmt.Errorf("%w: failed to unmarshal GCS notification: %w", model.ErrInvalidInput, err))
		return
	}
	if out.Bucket == "" || out.Name == "" || strings.HasSuffix(out.Name, "/") {
		c.Fail(context, fmt.Errorf("%w: notification does not name an object: %q", model.ErrInvalidInput, out.Name))
		return
	}

	c.Succeed(context)
	msg := &cloud.GCSObject{Bucket: out.Bucket, Name: out.Name, MIMEType: out.ContentType}
	context.Add(cloud.GCSObjectParam, msg)
	context.Add(c.GetOutputParam(), msg)
}
