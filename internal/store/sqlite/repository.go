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

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	_ repository.Store  = (*Repository)(nil)
	_ repository.Memory = (*Repository)(nil)
)

// Repository implements repository.Store and repository.Memory on one
// SQLite database.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

const assetColumns = "id, path, category, climate, enabled, duration, tags, energy, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.MediaAsset, error) {
	var (
		a         model.MediaAsset
		category  string
		climate   string
		enabled   int
		duration  sql.NullFloat64
		tags      string
		energy    sql.NullFloat64
		createdAt string
	)
	if err := row.Scan(&a.Id, &a.Path, &category, &climate, &enabled, &duration, &tags, &energy, &createdAt); err != nil {
		return nil, err
	}
	a.Category = model.Category(category)
	a.Climate = model.Climate(climate)
	a.Enabled = enabled == 1
	if duration.Valid {
		a.Duration = &duration.Float64
	}
	if energy.Valid {
		a.Energy = &energy.Float64
	}
	a.Tags = make([]string, 0)
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
			return nil, fmt.Errorf("invalid tags for asset %s: %w", a.Id, err)
		}
	}
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

func (r *Repository) queryAssets(ctx context.Context, query string, args ...any) ([]*model.MediaAsset, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.MediaAsset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) ListEnabledAssets(ctx context.Context) ([]*model.MediaAsset, error) {
	return r.queryAssets(ctx, "SELECT "+assetColumns+" FROM media_assets WHERE enabled = 1 ORDER BY id")
}

func (r *Repository) ListAssets(ctx context.Context) ([]*model.MediaAsset, error) {
	return r.queryAssets(ctx, "SELECT "+assetColumns+" FROM media_assets ORDER BY category, path")
}

func (r *Repository) GetAsset(ctx context.Context, id string) (*model.MediaAsset, error) {
	row := r.db.conn.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM media_assets WHERE id = ?", id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %s: %w", id, model.ErrNotFound)
	}
	return a, err
}

func (r *Repository) InsertAsset(ctx context.Context, asset *model.MediaAsset) error {
	tags := asset.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	enabled := 0
	if asset.Enabled {
		enabled = 1
	}
	_, err = r.db.conn.ExecContext(ctx,
		`INSERT INTO media_assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		asset.Id, asset.Path, string(asset.Category), string(asset.Climate), enabled,
		asset.Duration, string(raw), asset.Energy, formatTime(asset.CreatedAt))
	return err
}

func (r *Repository) UpdateAsset(ctx context.Context, id string, patch model.AssetPatch) error {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.Enabled != nil {
		enabled := 0
		if *patch.Enabled {
			enabled = 1
		}
		sets = append(sets, "enabled = ?")
		args = append(args, enabled)
	}
	if patch.Climate != nil {
		sets = append(sets, "climate = ?")
		args = append(args, string(*patch.Climate))
	}
	if len(sets) == 0 {
		_, err := r.GetAsset(ctx, id)
		return err
	}
	args = append(args, id)

	res, err := r.db.conn.ExecContext(ctx, "UPDATE media_assets SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("asset %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func (r *Repository) WeightsFor(ctx context.Context, emojis []string) ([]model.ClimateWeight, error) {
	out := make([]model.ClimateWeight, 0)
	if len(emojis) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(emojis)), ",")
	args := make([]any, len(emojis))
	for i, e := range emojis {
		args[i] = e
	}

	rows, err := r.db.conn.QueryContext(ctx,
		"SELECT emoji, climate, weight FROM emoji_climate_weights WHERE emoji IN ("+placeholders+") ORDER BY emoji, climate",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var w model.ClimateWeight
		if err := rows.Scan(&w.Emoji, &w.Climate, &w.Weight); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SetWeight upserts one symbol to climate association.
func (r *Repository) SetWeight(ctx context.Context, w model.ClimateWeight) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO emoji_climate_weights (emoji, climate, weight) VALUES (?, ?, ?)
		 ON CONFLICT(emoji, climate) DO UPDATE SET weight = excluded.weight`,
		w.Emoji, w.Climate, w.Weight)
	return err
}

func (r *Repository) InsertTriad(ctx context.Context, triad *model.Triad) error {
	_, err := r.db.conn.ExecContext(ctx,
		"INSERT INTO triads (id, emoji_1, emoji_2, emoji_3, created_at) VALUES (?, ?, ?, ?, ?)",
		triad.Id, triad.Emoji1, triad.Emoji2, triad.Emoji3, formatTime(triad.CreatedAt))
	return err
}

func (r *Repository) InsertScene(ctx context.Context, scene *model.Scene) error {
	vector, err := json.Marshal(scene.ClimateVector)
	if err != nil {
		return err
	}
	descriptor, err := json.Marshal(scene.Descriptor)
	if err != nil {
		return err
	}
	_, err = r.db.conn.ExecContext(ctx,
		"INSERT INTO scenes (id, triad_id, climate_vector, scene_descriptor, created_at) VALUES (?, ?, ?, ?, ?)",
		scene.Id, scene.TriadId, string(vector), string(descriptor), formatTime(scene.CreatedAt))
	return err
}

func (r *Repository) GetScene(ctx context.Context, id string) (*model.Scene, error) {
	var (
		s          model.Scene
		vector     string
		descriptor string
		createdAt  string
	)
	err := r.db.conn.QueryRowContext(ctx,
		"SELECT id, triad_id, climate_vector, scene_descriptor, created_at FROM scenes WHERE id = ?", id).
		Scan(&s.Id, &s.TriadId, &vector, &descriptor, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scene %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(vector), &s.ClimateVector); err != nil {
		return nil, fmt.Errorf("invalid climate vector for scene %s: %w", id, err)
	}
	s.Descriptor = &model.SceneDescriptor{}
	if err := json.Unmarshal([]byte(descriptor), s.Descriptor); err != nil {
		return nil, fmt.Errorf("invalid descriptor for scene %s: %w", id, err)
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

func (r *Repository) ListActivePoles(ctx context.Context) ([]*model.Pole, error) {
	rows, err := r.db.conn.QueryContext(ctx, "SELECT emoji, domain, active FROM emoji_poles WHERE active = 1 ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Pole, 0)
	for rows.Next() {
		var (
			p      model.Pole
			active int
		)
		if err := rows.Scan(&p.Emoji, &p.Domain, &active); err != nil {
			return nil, err
		}
		p.Active = active == 1
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *Repository) InsertConfig(ctx context.Context, config *model.AdminConfig) error {
	snapshot := config.Snapshot
	if snapshot == nil {
		snapshot = make([]model.AssetSnapshot, 0)
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = r.db.conn.ExecContext(ctx,
		"INSERT INTO admin_configs (id, name, snapshot, created_at) VALUES (?, ?, ?, ?)",
		config.Id, config.Name, string(raw), formatTime(config.CreatedAt))
	return err
}

func scanConfig(row rowScanner) (*model.AdminConfig, error) {
	var (
		c         model.AdminConfig
		snapshot  string
		createdAt string
	)
	if err := row.Scan(&c.Id, &c.Name, &snapshot, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(snapshot), &c.Snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot for config %s: %w", c.Id, err)
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

func (r *Repository) ListConfigs(ctx context.Context) ([]*model.AdminConfig, error) {
	rows, err := r.db.conn.QueryContext(ctx, "SELECT id, name, snapshot, created_at FROM admin_configs ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.AdminConfig, 0)
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetConfig(ctx context.Context, id string) (*model.AdminConfig, error) {
	row := r.db.conn.QueryRowContext(ctx, "SELECT id, name, snapshot, created_at FROM admin_configs WHERE id = ?", id)
	c, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("config %s: %w", id, model.ErrNotFound)
	}
	return c, err
}
