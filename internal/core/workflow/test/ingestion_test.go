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

package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/cor"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/workflow"
	test "github.com/echohypno/echohypno/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headerReader struct {
	header []byte
	err    error
}

func (h headerReader) ReadHeader(_ context.Context, _, _ string, _ int64) ([]byte, error) {
	return h.header, h.err
}

func ingest(w cor.Command, message string) cor.Context {
	chainCtx := cor.NewBaseContext(ctx)
	chainCtx.Add(cor.CtxIn, message)
	w.Execute(chainCtx)
	return chainCtx
}

func TestAssetIngestion(t *testing.T) {
	store := test.NewFakeStore(nil, nil)
	w := workflow.NewAssetIngestionWorkflow(store, nil)

	chainCtx := ingest(w, test.GetTestAssetMessageText("video/deep/tide.mp4", "video/mp4"))
	require.NoError(t, chainCtx.Err())

	asset, err := store.GetAsset(ctx, model.AssetId("echo-assets", "video/deep/tide.mp4"))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryVideo, asset.Category)
	assert.Equal(t, model.ClimateDeep, asset.Climate)
	assert.Equal(t, "video/deep/tide.mp4", asset.Path)
	assert.False(t, asset.Enabled)
}

func TestAssetIngestionKeepsAdminEdits(t *testing.T) {
	store := test.NewFakeStore(nil, nil)
	w := workflow.NewAssetIngestionWorkflow(store, nil)
	message := test.GetTestAssetMessageText("music/calm/bed.mp3", "audio/mpeg")

	require.NoError(t, ingest(w, message).Err())
	id := model.AssetId("echo-assets", "music/calm/bed.mp3")
	on := true
	require.NoError(t, store.UpdateAsset(ctx, id, model.AssetPatch{Enabled: &on}))

	require.NoError(t, ingest(w, message).Err())
	asset, err := store.GetAsset(ctx, id)
	require.NoError(t, err)
	assert.True(t, asset.Enabled)
	assert.Len(t, store.Assets, 1)
}

func TestAssetIngestionSniffsHeader(t *testing.T) {
	store := test.NewFakeStore(nil, nil)
	// An MP3 uploaded with a generic content type.
	mp3 := append([]byte("ID3"), make([]byte, 32)...)
	w := workflow.NewAssetIngestionWorkflow(store, headerReader{header: mp3})

	chainCtx := ingest(w, test.GetTestAssetMessageText("voice/tense/whisper.mp3", "application/octet-stream"))
	require.NoError(t, chainCtx.Err())

	asset, err := store.GetAsset(ctx, model.AssetId("echo-assets", "voice/tense/whisper.mp3"))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryVoice, asset.Category)
	assert.Equal(t, model.ClimateTense, asset.Climate)
}

func TestAssetIngestionRejects(t *testing.T) {
	store := test.NewFakeStore(nil, nil)
	w := workflow.NewAssetIngestionWorkflow(store, headerReader{err: errors.New("unreachable")})

	for name, message := range map[string]string{
		"folder":      test.GetTestAssetMessageText("video/deep/", "application/x-directory"),
		"unsupported": test.GetTestAssetMessageText("misc/archive.zip", "application/zip"),
		"garbage":     "not json",
	} {
		t.Run(name, func(t *testing.T) {
			chainCtx := ingest(w, message)
			assert.ErrorIs(t, chainCtx.Err(), model.ErrInvalidInput)
			assert.True(t, cloud.IsPoison(chainCtx.GetErrors()))
		})
	}
	assert.Empty(t, store.Assets)
}

func TestPassageInjection(t *testing.T) {
	memory := test.NewFakeMemory()
	w := workflow.NewPassageInjectionWorkflow(memory)

	chainCtx := ingest(w, `{"emojis":["🌊","🔥","🌑"],"count":3}`)
	require.NoError(t, chainCtx.Err())
	assert.Equal(t, int64(3), memory.Symbol("🌊"))
	assert.Equal(t, int64(3), memory.Pair("🔥", "🌑"))

	chainCtx = cor.NewBaseContext(ctx)
	chainCtx.Add(cor.CtxIn, &model.PassageRequest{Emojis: []string{"🌞", "🌞", "⚡"}})
	w.Execute(chainCtx)
	require.NoError(t, chainCtx.Err())
	assert.Equal(t, int64(2), memory.Symbol("🌞"))
	assert.Equal(t, int64(1), memory.Pair("🌞", "🌞"))
}

func TestPassageInjectionErrors(t *testing.T) {
	memory := test.NewFakeMemory()
	w := workflow.NewPassageInjectionWorkflow(memory)

	assert.True(t, errors.Is(ingest(w, `{"emojis":["🌊"],"count":1}`).Err(), model.ErrInvalidInput))
	assert.True(t, errors.Is(ingest(w, `{"emojis":["🌊","🔥","🌑"],"count":5000}`).Err(), model.ErrInvalidInput))

	memory.Fail = true
	assert.True(t, errors.Is(ingest(w, `{"emojis":["🌊","🔥","🌑"]}`).Err(), test.ErrInjected))
}
