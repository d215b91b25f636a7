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

package services

import (
	"context"
	"time"

	"github.com/echohypno/echohypno/internal/core/repository"
	"golang.org/x/sync/errgroup"
)

// Signer issues time-limited URLs for objects; cloud.URLSigner is the
// production implementation.
type Signer interface {
	SignedURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error)
}

// MediaURL is one asset a player has to fetch for a scene.
type MediaURL struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// MediaURLService resolves the asset paths of a persisted scene into URLs a
// player can fetch. Without a signer (local runs) the path itself is returned
// as the URL and the player resolves it against its own media root.
type MediaURLService struct {
	Scenes repository.SceneStore
	Signer Signer
	Bucket string
	TTL    time.Duration
}

// SceneMedia returns one entry per distinct asset path of the scene, in
// descriptor order.
func (s *MediaURLService) SceneMedia(ctx context.Context, sceneId string) ([]MediaURL, error) {
	scene, err := s.Scenes.GetScene(ctx, sceneId)
	if err != nil {
		return nil, err
	}
	paths := scene.Descriptor.Paths()
	out := make([]MediaURL, len(paths))
	if s.Signer == nil || s.Bucket == "" {
		for i, p := range paths {
			out[i] = MediaURL{Path: p, URL: p}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			u, err := s.Signer.SignedURL(gctx, s.Bucket, p, s.TTL)
			if err != nil {
				return err
			}
			out[i] = MediaURL{Path: p, URL: u}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
