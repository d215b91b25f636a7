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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/echohypno/echohypno/internal/cloud"
	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
	"google.golang.org/api/iterator"
)

var (
	_ repository.Store  = (*BigQueryRepository)(nil)
	_ repository.Memory = (*BigQueryRepository)(nil)
)

// BigQueryRepository implements the data store and the collective-memory
// counters on BigQuery. Triads, scenes and configs are appended with the
// streaming inserter; asset and counter writes are DML so that they can
// upsert.
type BigQueryRepository struct {
	BigqueryClient *bigquery.Client
	Tables         cloud.BigQueryDataSource
}

func NewBigQueryRepository(client *bigquery.Client, tables cloud.BigQueryDataSource) *BigQueryRepository {
	return &BigQueryRepository{BigqueryClient: client, Tables: tables}
}

// Close is a no-op; the client belongs to cloud.ServiceClients.
func (r *BigQueryRepository) Close() error {
	return nil
}

// GetFQN returns the dotted, fully qualified name of table in the dataset.
func (r *BigQueryRepository) GetFQN(table string) string {
	fqn := r.BigqueryClient.Dataset(r.Tables.DatasetName).Table(table).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

func (r *BigQueryRepository) query(queryText string, params ...bigquery.QueryParameter) *bigquery.Query {
	q := r.BigqueryClient.Query(queryText)
	q.Parameters = params
	return q
}

// exec runs a DML statement to completion and returns the affected rows.
func (r *BigQueryRepository) exec(ctx context.Context, queryText string, params ...bigquery.QueryParameter) (int64, error) {
	job, err := r.query(queryText, params...).Run(ctx)
	if err != nil {
		return 0, err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, err
	}
	if err := status.Err(); err != nil {
		return 0, err
	}
	if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return stats.NumDMLAffectedRows, nil
	}
	return 0, nil
}

// readAll loads every row of the query into T.
func readAll[T any](ctx context.Context, q *bigquery.Query) ([]T, error) {
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}
	out := make([]T, 0)
	for {
		var row T
		err := itr.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate results: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}

// readOne loads the first row of the query or returns model.ErrNotFound.
func readOne[T any](ctx context.Context, q *bigquery.Query, what string) (*T, error) {
	rows, err := readAll[T](ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return &rows[0], nil
}

type assetRow struct {
	Id        string               `bigquery:"id"`
	Path      string               `bigquery:"path"`
	Category  string               `bigquery:"category"`
	Climate   string               `bigquery:"climate"`
	Enabled   bool                 `bigquery:"enabled"`
	Duration  bigquery.NullFloat64 `bigquery:"duration"`
	Tags      []string             `bigquery:"tags"`
	Energy    bigquery.NullFloat64 `bigquery:"energy"`
	CreatedAt time.Time            `bigquery:"created_at"`
}

func (a *assetRow) toModel() *model.MediaAsset {
	out := &model.MediaAsset{
		Id:        a.Id,
		Path:      a.Path,
		Category:  model.Category(a.Category),
		Climate:   model.Climate(a.Climate),
		Enabled:   a.Enabled,
		Tags:      a.Tags,
		CreatedAt: a.CreatedAt,
	}
	if out.Tags == nil {
		out.Tags = make([]string, 0)
	}
	if a.Duration.Valid {
		out.Duration = &a.Duration.Float64
	}
	if a.Energy.Valid {
		out.Energy = &a.Energy.Float64
	}
	return out
}

func nullFloat(v *float64) bigquery.NullFloat64 {
	if v == nil {
		return bigquery.NullFloat64{}
	}
	return bigquery.NullFloat64{Float64: *v, Valid: true}
}

func (r *BigQueryRepository) listAssets(ctx context.Context, queryText string) ([]*model.MediaAsset, error) {
	rows, err := readAll[assetRow](ctx, r.query(fmt.Sprintf(queryText, r.GetFQN(r.Tables.AssetTable))))
	if err != nil {
		return nil, err
	}
	out := make([]*model.MediaAsset, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *BigQueryRepository) ListEnabledAssets(ctx context.Context) ([]*model.MediaAsset, error) {
	return r.listAssets(ctx, QryListEnabledAssets)
}

func (r *BigQueryRepository) ListAssets(ctx context.Context) ([]*model.MediaAsset, error) {
	return r.listAssets(ctx, QryListAssets)
}

func (r *BigQueryRepository) GetAsset(ctx context.Context, id string) (*model.MediaAsset, error) {
	q := r.query(fmt.Sprintf(QryGetAsset, r.GetFQN(r.Tables.AssetTable)), bigquery.QueryParameter{Name: "id", Value: id})
	row, err := readOne[assetRow](ctx, q, "asset "+id)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *BigQueryRepository) InsertAsset(ctx context.Context, asset *model.MediaAsset) error {
	tags := asset.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	createdAt := asset.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.exec(ctx, fmt.Sprintf(QryInsertAsset, r.GetFQN(r.Tables.AssetTable)),
		bigquery.QueryParameter{Name: "id", Value: asset.Id},
		bigquery.QueryParameter{Name: "path", Value: asset.Path},
		bigquery.QueryParameter{Name: "category", Value: string(asset.Category)},
		bigquery.QueryParameter{Name: "climate", Value: string(asset.Climate)},
		bigquery.QueryParameter{Name: "enabled", Value: asset.Enabled},
		bigquery.QueryParameter{Name: "duration", Value: nullFloat(asset.Duration)},
		bigquery.QueryParameter{Name: "tags", Value: tags},
		bigquery.QueryParameter{Name: "energy", Value: nullFloat(asset.Energy)},
		bigquery.QueryParameter{Name: "created_at", Value: createdAt},
	)
	return err
}

func (r *BigQueryRepository) UpdateAsset(ctx context.Context, id string, patch model.AssetPatch) error {
	sets := make([]string, 0, 2)
	params := []bigquery.QueryParameter{{Name: "id", Value: id}}
	if patch.Enabled != nil {
		sets = append(sets, "enabled = @enabled")
		params = append(params, bigquery.QueryParameter{Name: "enabled", Value: *patch.Enabled})
	}
	if patch.Climate != nil {
		sets = append(sets, "climate = @climate")
		params = append(params, bigquery.QueryParameter{Name: "climate", Value: string(*patch.Climate)})
	}
	if len(sets) == 0 {
		_, err := r.GetAsset(ctx, id)
		return err
	}

	n, err := r.exec(ctx, fmt.Sprintf(QryUpdateAsset, r.GetFQN(r.Tables.AssetTable), strings.Join(sets, ", ")), params...)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("asset %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func (r *BigQueryRepository) WeightsFor(ctx context.Context, emojis []string) ([]model.ClimateWeight, error) {
	if len(emojis) == 0 {
		return make([]model.ClimateWeight, 0), nil
	}
	return readAll[model.ClimateWeight](ctx, r.query(
		fmt.Sprintf(QryWeightsFor, r.GetFQN(r.Tables.WeightTable)),
		bigquery.QueryParameter{Name: "emojis", Value: emojis}))
}

type triadRow struct {
	Id        string    `bigquery:"id"`
	Emoji1    string    `bigquery:"emoji_1"`
	Emoji2    string    `bigquery:"emoji_2"`
	Emoji3    string    `bigquery:"emoji_3"`
	CreatedAt time.Time `bigquery:"created_at"`
}

func (r *BigQueryRepository) InsertTriad(ctx context.Context, triad *model.Triad) error {
	i := r.BigqueryClient.Dataset(r.Tables.DatasetName).Table(r.Tables.TriadTable).Inserter()
	return i.Put(ctx, &triadRow{
		Id:        triad.Id,
		Emoji1:    triad.Emoji1,
		Emoji2:    triad.Emoji2,
		Emoji3:    triad.Emoji3,
		CreatedAt: triad.CreatedAt,
	})
}

// sceneRow keeps the vector and descriptor as JSON strings; the descriptor is
// read back verbatim by players.
type sceneRow struct {
	Id            string    `bigquery:"id"`
	TriadId       string    `bigquery:"triad_id"`
	ClimateVector string    `bigquery:"climate_vector"`
	Descriptor    string    `bigquery:"scene_descriptor"`
	CreatedAt     time.Time `bigquery:"created_at"`
}

func (r *BigQueryRepository) InsertScene(ctx context.Context, scene *model.Scene) error {
	vector, err := json.Marshal(scene.ClimateVector)
	if err != nil {
		return err
	}
	descriptor, err := json.Marshal(scene.Descriptor)
	if err != nil {
		return err
	}
	i := r.BigqueryClient.Dataset(r.Tables.DatasetName).Table(r.Tables.SceneTable).Inserter()
	return i.Put(ctx, &sceneRow{
		Id:            scene.Id,
		TriadId:       scene.TriadId,
		ClimateVector: string(vector),
		Descriptor:    string(descriptor),
		CreatedAt:     scene.CreatedAt,
	})
}

func (r *BigQueryRepository) GetScene(ctx context.Context, id string) (*model.Scene, error) {
	q := r.query(fmt.Sprintf(QryGetScene, r.GetFQN(r.Tables.SceneTable)), bigquery.QueryParameter{Name: "id", Value: id})
	row, err := readOne[sceneRow](ctx, q, "scene "+id)
	if err != nil {
		return nil, err
	}
	scene := &model.Scene{Id: row.Id, TriadId: row.TriadId, CreatedAt: row.CreatedAt, Descriptor: &model.SceneDescriptor{}}
	if err := json.Unmarshal([]byte(row.ClimateVector), &scene.ClimateVector); err != nil {
		return nil, fmt.Errorf("invalid climate vector for scene %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(row.Descriptor), scene.Descriptor); err != nil {
		return nil, fmt.Errorf("invalid descriptor for scene %s: %w", id, err)
	}
	return scene, nil
}

func (r *BigQueryRepository) ListActivePoles(ctx context.Context) ([]*model.Pole, error) {
	rows, err := readAll[model.Pole](ctx, r.query(fmt.Sprintf(QryListActivePoles, r.GetFQN(r.Tables.PoleTable))))
	if err != nil {
		return nil, err
	}
	out := make([]*model.Pole, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

type configRow struct {
	Id        string    `bigquery:"id"`
	Name      string    `bigquery:"name"`
	Snapshot  string    `bigquery:"snapshot"`
	CreatedAt time.Time `bigquery:"created_at"`
}

func (c *configRow) toModel() (*model.AdminConfig, error) {
	out := &model.AdminConfig{Id: c.Id, Name: c.Name, CreatedAt: c.CreatedAt}
	if err := json.Unmarshal([]byte(c.Snapshot), &out.Snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot for config %s: %w", c.Id, err)
	}
	return out, nil
}

func (r *BigQueryRepository) InsertConfig(ctx context.Context, config *model.AdminConfig) error {
	snapshot := config.Snapshot
	if snapshot == nil {
		snapshot = make([]model.AssetSnapshot, 0)
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	i := r.BigqueryClient.Dataset(r.Tables.DatasetName).Table(r.Tables.ConfigTable).Inserter()
	return i.Put(ctx, &configRow{Id: config.Id, Name: config.Name, Snapshot: string(raw), CreatedAt: config.CreatedAt})
}

func (r *BigQueryRepository) ListConfigs(ctx context.Context) ([]*model.AdminConfig, error) {
	rows, err := readAll[configRow](ctx, r.query(fmt.Sprintf(QryListConfigs, r.GetFQN(r.Tables.ConfigTable))))
	if err != nil {
		return nil, err
	}
	out := make([]*model.AdminConfig, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *BigQueryRepository) GetConfig(ctx context.Context, id string) (*model.AdminConfig, error) {
	q := r.query(fmt.Sprintf(QryGetConfig, r.GetFQN(r.Tables.ConfigTable)), bigquery.QueryParameter{Name: "id", Value: id})
	row, err := readOne[configRow](ctx, q, "config "+id)
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *BigQueryRepository) IncrementSymbol(ctx context.Context, emoji string) error {
	_, err := r.exec(ctx, fmt.Sprintf(QryIncrementSymbol, r.GetFQN(r.Tables.SymbolStatsTable)),
		bigquery.QueryParameter{Name: "emoji", Value: emoji})
	return err
}

func (r *BigQueryRepository) IncrementPair(ctx context.Context, source, target string) error {
	_, err := r.exec(ctx, fmt.Sprintf(QryIncrementPair, r.GetFQN(r.Tables.CooccurrenceTable)),
		bigquery.QueryParameter{Name: "source", Value: source},
		bigquery.QueryParameter{Name: "target", Value: target})
	return err
}

func (r *BigQueryRepository) SymbolStats(ctx context.Context) ([]model.SymbolStat, error) {
	return readAll[model.SymbolStat](ctx, r.query(fmt.Sprintf(QrySymbolStats, r.GetFQN(r.Tables.SymbolStatsTable))))
}

func (r *BigQueryRepository) PairStats(ctx context.Context) ([]model.PairStat, error) {
	return readAll[model.PairStat](ctx, r.query(fmt.Sprintf(QryPairStats, r.GetFQN(r.Tables.CooccurrenceTable))))
}

// IsNotFound reports whether err marks a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
