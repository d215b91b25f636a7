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

package memory_test

import (
	"context"
	"os"
	"testing"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/echohypno/echohypno/internal/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairFieldRoundTrip(t *testing.T) {
	field := memory.PairField("🌊", "🔥")
	source, target, ok := memory.SplitPairField(field)
	require.True(t, ok)
	assert.Equal(t, "🌊", source)
	assert.Equal(t, "🔥", target)
}

func TestStatsFromHash(t *testing.T) {
	symbols, err := memory.SymbolStatsFromHash(map[string]string{"🔥": "2", "🌊": "5"})
	require.NoError(t, err)
	assert.Equal(t, []model.SymbolStat{{Emoji: "🌊", Occurrences: 5}, {Emoji: "🔥", Occurrences: 2}}, symbols)

	pairs, err := memory.PairStatsFromHash(map[string]string{
		memory.PairField("🔥", "🌑"): "1",
		memory.PairField("🌊", "🔥"): "3",
		"garbage":                  "9",
	})
	require.NoError(t, err)
	assert.Equal(t, []model.PairStat{
		{Source: "🌊", Target: "🔥", Occurrences: 3},
		{Source: "🔥", Target: "🌑", Occurrences: 1},
	}, pairs)

	_, err = memory.SymbolStatsFromHash(map[string]string{"🌊": "lots"})
	assert.Error(t, err)
}

// TestRedisCounter runs against a live server when REDIS_ADDR is set.
func TestRedisCounter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	counter, err := memory.NewRedisCounter(ctx, addr, "echo-test-"+uuid.NewString())
	require.NoError(t, err)
	defer counter.Close()

	require.NoError(t, counter.IncrementSymbol(ctx, "🌊"))
	require.NoError(t, counter.IncrementSymbol(ctx, "🌊"))
	require.NoError(t, counter.IncrementPair(ctx, "🌊", "🔥"))

	symbols, err := counter.SymbolStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.SymbolStat{{Emoji: "🌊", Occurrences: 2}}, symbols)

	pairs, err := counter.PairStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.PairStat{{Source: "🌊", Target: "🔥", Occurrences: 1}}, pairs)
}

func TestNewRedisCounterRequiresAddress(t *testing.T) {
	_, err := memory.NewRedisCounter(context.Background(), " ", "")
	assert.Error(t, err)
}
