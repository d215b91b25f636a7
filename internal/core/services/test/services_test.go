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

package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/services"
	"github.com/echohypno/echohypno/internal/core/workflow"
	"github.com/echohypno/echohypno/internal/store/sqlite"
	test "github.com/echohypno/echohypno/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "echo.db"), nil)
	require.NoError(t, err)
	repo := sqlite.NewRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedCatalog(t *testing.T, repo *sqlite.Repository) {
	t.Helper()
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, a := range test.Catalog() {
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.InsertAsset(context.Background(), a))
	}
}

func TestSceneServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	seedCatalog(t, repo)

	config := test.GetConfig()
	scenes := &services.SceneService{
		Workflow: workflow.NewSceneCreationWorkflow(config, repo, repo, workflow.WithSeeds(func() int64 { return 42 })),
		Scenes:   repo,
	}

	scene, err := scenes.CreateScene(ctx, test.Triad())
	require.NoError(t, err)
	scenes.Workflow.Wait()

	// The seeded palette maps 🌊 🔥 🌑 mostly onto deep.
	assert.Equal(t, model.ClimateDeep, scene.Descriptor.Climate)
	assert.True(t, scene.Descriptor.IsPlayable())

	stored, err := scenes.GetScene(ctx, scene.Id)
	require.NoError(t, err)
	if diff := cmp.Diff(scene.Descriptor, stored.Descriptor); diff != "" {
		t.Fatalf("stored descriptor differs (-created +stored):\n%s", diff)
	}

	symbols, err := repo.SymbolStats(ctx)
	require.NoError(t, err)
	assert.Len(t, symbols, 3)

	_, err = scenes.CreateScene(ctx, []string{"🌊"})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	_, err = scenes.GetScene(ctx, "missing")
	assert.True(t, services.IsNotFound(err))
}

func TestSceneServiceSurfacesCatalogFailure(t *testing.T) {
	repo := openRepo(t)
	scenes := &services.SceneService{
		Workflow: workflow.NewSceneCreationWorkflow(test.GetConfig(), repo, nil),
		Scenes:   repo,
	}
	_, err := scenes.CreateScene(context.Background(), test.Triad())
	assert.True(t, errors.Is(err, model.ErrCatalogUnavailable))
}

func TestGraphService(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	graphs := &services.GraphService{Palette: repo, Memory: repo}

	empty, err := graphs.Graph(ctx)
	require.NoError(t, err)
	require.Len(t, empty.Nodes, 6)
	for _, n := range empty.Nodes {
		assert.Equal(t, int64(services.DefaultNodeSize), n.Size)
		assert.Equal(t, services.DefaultNodeWeight, n.Weight)
	}
	assert.Empty(t, empty.Links)

	passages := &services.PassageService{Workflow: workflow.NewPassageInjectionWorkflow(repo)}
	require.NoError(t, passages.InjectPassages(ctx, &model.PassageRequest{Emojis: []string{"🌊", "🔥", "🌑"}, Count: 4}))
	require.NoError(t, passages.InjectPassages(ctx, &model.PassageRequest{Emojis: []string{"🌊", "🌞", "⚡"}, Count: 2}))

	graph, err := graphs.Graph(ctx)
	require.NoError(t, err)
	nodes := make(map[string]model.GraphNode)
	for _, n := range graph.Nodes {
		nodes[n.Id] = n
	}
	assert.Equal(t, int64(6), nodes["🌊"].Size)
	assert.Equal(t, 1.0, nodes["🌊"].Weight)
	assert.InDelta(t, 4.0/6.0, nodes["🔥"].Weight, 1e-9)
	assert.Equal(t, int64(services.DefaultNodeSize), nodes["🌿"].Size)

	links := make(map[string]float64)
	for _, l := range graph.Links {
		links[l.Source+l.Target] = l.Weight
	}
	assert.Len(t, links, 6)
	assert.Equal(t, 1.0, links["🌊🔥"])
	assert.Equal(t, 0.5, links["🌞⚡"])

	err = passages.InjectPassages(ctx, &model.PassageRequest{Emojis: []string{"🌊"}})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

type fakeSigner struct {
	fail bool
}

func (f fakeSigner) SignedURL(_ context.Context, bucket, object string, ttl time.Duration) (string, error) {
	if f.fail {
		return "", errors.New("signing refused")
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?ttl=" + ttl.String(), nil
}

func TestMediaURLService(t *testing.T) {
	ctx := context.Background()
	store := test.NewFakeStore(nil, nil)
	scene := model.NewScene("t1", model.DefaultClimateVector(), &model.SceneDescriptor{
		Music:  model.MusicSelection{Id: "m1", Path: "music/a.mp3"},
		Videos: []model.VideoSelection{{Id: "v1", Path: "video/b.mp4"}},
		Fx:     []model.FxSpec{{Type: "particles"}},
	})
	require.NoError(t, store.InsertScene(ctx, scene))

	local := &services.MediaURLService{Scenes: store}
	urls, err := local.SceneMedia(ctx, scene.Id)
	require.NoError(t, err)
	assert.Equal(t, []services.MediaURL{{Path: "music/a.mp3", URL: "music/a.mp3"}, {Path: "video/b.mp4", URL: "video/b.mp4"}}, urls)

	signed := &services.MediaURLService{Scenes: store, Signer: fakeSigner{}, Bucket: "echo-assets", TTL: 15 * time.Minute}
	urls, err = signed.SceneMedia(ctx, scene.Id)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "music/a.mp3", urls[0].Path)
	assert.True(t, strings.HasPrefix(urls[0].URL, "https://storage.googleapis.com/echo-assets/music/a.mp3"))

	signed.Signer = fakeSigner{fail: true}
	_, err = signed.SceneMedia(ctx, scene.Id)
	assert.Error(t, err)

	_, err = signed.SceneMedia(ctx, "missing")
	assert.True(t, services.IsNotFound(err))
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	seedCatalog(t, repo)
	admin := &services.AdminService{Store: repo}

	bogus := model.Climate("stormy")
	_, err := admin.UpdateAsset(ctx, "v-deep", model.AssetPatch{Climate: &bogus})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	snapshot, err := admin.SaveConfig(ctx, " opening night ")
	require.NoError(t, err)
	assert.Equal(t, "opening night", snapshot.Name)
	assert.Len(t, snapshot.Snapshot, len(test.Catalog()))

	off := false
	unclassified := model.Climate("")
	updated, err := admin.UpdateAsset(ctx, "v-deep", model.AssetPatch{Enabled: &off, Climate: &unclassified})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, model.Climate(""), updated.Climate)

	_, err = admin.UpdateAsset(ctx, "missing", model.AssetPatch{Enabled: &off})
	assert.True(t, services.IsNotFound(err))

	applied, err := admin.ApplyConfig(ctx, snapshot.Id)
	require.NoError(t, err)
	assert.Equal(t, len(test.Catalog()), applied)
	restored, err := repo.GetAsset(ctx, "v-deep")
	require.NoError(t, err)
	assert.True(t, restored.Enabled)
	assert.Equal(t, model.ClimateDeep, restored.Climate)

	configs, err := admin.ListConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	_, err = admin.SaveConfig(ctx, "  ")
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	_, err = admin.ApplyConfig(ctx, "missing")
	assert.True(t, services.IsNotFound(err))
}

func TestAmbientMusic(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	admin := &services.AdminService{Store: repo}

	none, err := admin.AmbientMusic(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	seedCatalog(t, repo)
	music, err := admin.AmbientMusic(ctx)
	require.NoError(t, err)
	require.NotNil(t, music)
	// m-calm is catalogued first.
	assert.Equal(t, "m-calm", music.Id)
}
