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

	"github.com/echohypno/echohypno/internal/core/model"
)

func (r *Repository) IncrementSymbol(ctx context.Context, emoji string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO emoji_collective_stats (emoji, occurrences) VALUES (?, 1)
		 ON CONFLICT(emoji) DO UPDATE SET occurrences = occurrences + 1`,
		emoji)
	return err
}

func (r *Repository) IncrementPair(ctx context.Context, source, target string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO emoji_cooccurrences (emoji_source, emoji_target, occurrences) VALUES (?, ?, 1)
		 ON CONFLICT(emoji_source, emoji_target) DO UPDATE SET occurrences = occurrences + 1`,
		source, target)
	return err
}

func (r *Repository) SymbolStats(ctx context.Context) ([]model.SymbolStat, error) {
	rows, err := r.db.conn.QueryContext(ctx, "SELECT emoji, occurrences FROM emoji_collective_stats ORDER BY emoji")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SymbolStat, 0)
	for rows.Next() {
		var s model.SymbolStat
		if err := rows.Scan(&s.Emoji, &s.Occurrences); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) PairStats(ctx context.Context) ([]model.PairStat, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		"SELECT emoji_source, emoji_target, occurrences FROM emoji_cooccurrences ORDER BY emoji_source, emoji_target")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PairStat, 0)
	for rows.Next() {
		var p model.PairStat
		if err := rows.Scan(&p.Source, &p.Target, &p.Occurrences); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
