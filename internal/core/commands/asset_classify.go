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
	"mime"
	"strings"

	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/h2non/filetype"
)

// HeaderSize is how many leading bytes are read to sniff an object's type.
// filetype needs at most 262 bytes.
const HeaderSize = 262

// Object name prefixes that decide the category on their own.
const (
	ShaderPrefix = "shader/"
	VoicePrefix  = "voice/"
)

// AssetClassify turns an uploaded object into a disabled catalog entry. The
// category comes from the object's sniffed content (falling back to the
// notification's content type) and its climate from a path segment naming
// one of the climates, e.g. "video/deep/tide.mp4".
type AssetClassify struct {
	cor.BaseCommand
	headers cloud.HeaderReader
}

// NewAssetClassify creates the step. With a nil reader only the content type
// from the notification is used.
func NewAssetClassify(name string, headers cloud.HeaderReader) *AssetClassify {
	return &AssetClassify{BaseCommand: *cor.NewBaseCommand(name), headers: headers}
}

// Execute classifies the object found under the input key.
//
// Context in:  cor.CtxIn (*cloud.GCSObject)
// Context out: AssetParam and cor.CtxOut (*model.MediaAsset, disabled)
//
// An unreadable header is logged and classification falls back to the
// notification's content type.
func (c *AssetClassify) Execute(context cor.Context) {
	obj := context.Get(c.GetInputParam()).(*cloud.GCSObject)

	var header []byte
	if c.headers != nil && !strings.HasPrefix(obj.Name, ShaderPrefix) {
		h, err := c.headers.ReadHeader(context.GetContext(), obj.Bucket, obj.Name, HeaderSize)
		if err != nil {
			slog.WarnContext(context.GetContext(), "could not read object header, using content type",
				"object", obj.Path(), "error", err)
		}
		header = h
	}

	category, err := Classify(obj.Name, header, obj.MIMEType)
	if err != nil {
		c.Fail(context, err)
		return
	}

	asset := model.NewMediaAsset(obj.Bucket, obj.Name, category, ClimateFromPath(obj.Name))
	c.Succeed(context)
	context.Add(AssetParam, asset)
	context.Add(c.GetOutputParam(), asset)
}

// Classify decides the catalog category of an object from its name, its
// leading bytes and its declared content type.
func Classify(name string, header []byte, contentType string) (model.Category, error) {
	if strings.HasPrefix(name, ShaderPrefix) {
		return model.CategoryShader, nil
	}

	mediaType := ""
	if len(header) > 0 {
		if kind, err := filetype.Match(header); err == nil && kind != filetype.Unknown {
			mediaType = kind.MIME.Type
		}
	}
	if mediaType == "" && contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType, _, _ = strings.Cut(parsed, "/")
		}
	}

	switch mediaType {
	case "audio":
		if strings.HasPrefix(name, VoicePrefix) {
			return model.CategoryVoice, nil
		}
		return model.CategoryMusic, nil
	case "video":
		return model.CategoryVideo, nil
	case "text":
		return model.CategoryText, nil
	}
	return "", fmt.Errorf("%w: unsupported media type %q for %s", model.ErrInvalidInput, contentType, name)
}

// ClimateFromPath returns the first directory of name that is a climate, or
// the empty climate.
func ClimateFromPath(name string) model.Climate {
	segments := strings.Split(name, "/")
	for _, segment := range segments[:len(segments)-1] {
		if climate, ok := model.ParseClimate(strings.ToLower(segment)); ok {
			return climate
		}
	}
	return ""
}
