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

// Package memory keeps the collective-memory counters in Redis. Symbol counts
// live in one hash and pair counts in another; HINCRBY is atomic so
// concurrent scene creations never lose an increment.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/core/repository"
)

const pairSeparator = "|"

var _ repository.Memory = (*RedisCounter)(nil)

type RedisCounter struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisCounter connects to addr and verifies the connection.
func NewRedisCounter(ctx context.Context, addr string, prefix string) (*RedisCounter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if prefix == "" {
		prefix = "echo"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCounter{rdb: rdb, prefix: prefix}, nil
}

func (c *RedisCounter) Close() error {
	return c.rdb.Close()
}

func (c *RedisCounter) symbolsKey() string {
	return c.prefix + ":emoji_collective_stats"
}

func (c *RedisCounter) pairsKey() string {
	return c.prefix + ":emoji_cooccurrences"
}

// PairField encodes an ordered pair as a hash field.
func PairField(source, target string) string {
	return source + pairSeparator + target
}

// SplitPairField reverses PairField.
func SplitPairField(field string) (string, string, bool) {
	return strings.Cut(field, pairSeparator)
}

func (c *RedisCounter) IncrementSymbol(ctx context.Context, emoji string) error {
	return c.rdb.HIncrBy(ctx, c.symbolsKey(), emoji, 1).Err()
}

func (c *RedisCounter) IncrementPair(ctx context.Context, source, target string) error {
	return c.rdb.HIncrBy(ctx, c.pairsKey(), PairField(source, target), 1).Err()
}

func (c *RedisCounter) SymbolStats(ctx context.Context) ([]model.SymbolStat, error) {
	raw, err := c.rdb.HGetAll(ctx, c.symbolsKey()).Result()
	if err != nil {
		return nil, err
	}
	return SymbolStatsFromHash(raw)
}

func (c *RedisCounter) PairStats(ctx context.Context) ([]model.PairStat, error) {
	raw, err := c.rdb.HGetAll(ctx, c.pairsKey()).Result()
	if err != nil {
		return nil, err
	}
	return PairStatsFromHash(raw)
}

// SymbolStatsFromHash converts an HGETALL reply into stats ordered by symbol.
func SymbolStatsFromHash(raw map[string]string) ([]model.SymbolStat, error) {
	out := make([]model.SymbolStat, 0, len(raw))
	for emoji, v := range raw {
		n, err := parseCount(v)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", emoji, err)
		}
		out = append(out, model.SymbolStat{Emoji: emoji, Occurrences: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Emoji < out[j].Emoji })
	return out, nil
}

// PairStatsFromHash converts an HGETALL reply into stats ordered by pair.
// Fields that are not encoded pairs are skipped.
func PairStatsFromHash(raw map[string]string) ([]model.PairStat, error) {
	out := make([]model.PairStat, 0, len(raw))
	for field, v := range raw {
		source, target, ok := SplitPairField(field)
		if !ok {
			continue
		}
		n, err := parseCount(v)
		if err != nil {
			return nil, fmt.Errorf("pair %s: %w", field, err)
		}
		out = append(out, model.PairStat{Source: source, Target: target, Occurrences: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}

func parseCount(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %q: %w", v, err)
	}
	return n, nil
}
