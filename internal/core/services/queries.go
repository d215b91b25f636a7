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

// BigQuery statements. Table names are filled with fmt from the configured
// data source; every value is passed as a named query parameter.
const (
	assetColumns = "id, path, category, climate, enabled, duration, tags, energy, created_at"

	QryListEnabledAssets = "SELECT " + assetColumns + " FROM `%s` WHERE enabled ORDER BY id"

	QryListAssets = "SELECT " + assetColumns + " FROM `%s` ORDER BY category, path"

	QryGetAsset = "SELECT " + assetColumns + " FROM `%s` WHERE id = @id"

	QryInsertAsset = "MERGE `%s` t USING (SELECT @id AS id) s ON t.id = s.id " +
		"WHEN NOT MATCHED THEN INSERT (" + assetColumns + ") " +
		"VALUES (@id, @path, @category, @climate, @enabled, @duration, @tags, @energy, @created_at)"

	QryUpdateAsset = "UPDATE `%s` SET %s WHERE id = @id"

	QryWeightsFor = "SELECT emoji, climate, weight FROM `%s` WHERE emoji IN UNNEST(@emojis) ORDER BY emoji, climate"

	QryGetScene = "SELECT id, triad_id, climate_vector, scene_descriptor, created_at FROM `%s` WHERE id = @id"

	QryListActivePoles = "SELECT emoji, domain, active FROM `%s` WHERE active ORDER BY position, emoji"

	QryListConfigs = "SELECT id, name, snapshot, created_at FROM `%s` ORDER BY created_at DESC"

	QryGetConfig = "SELECT id, name, snapshot, created_at FROM `%s` WHERE id = @id"

	QryIncrementSymbol = "MERGE `%s` t USING (SELECT @emoji AS emoji) s ON t.emoji = s.emoji " +
		"WHEN MATCHED THEN UPDATE SET occurrences = t.occurrences + 1 " +
		"WHEN NOT MATCHED THEN INSERT (emoji, occurrences) VALUES (@emoji, 1)"

	QryIncrementPair = "MERGE `%s` t USING (SELECT @source AS emoji_source, @target AS emoji_target) s " +
		"ON t.emoji_source = s.emoji_source AND t.emoji_target = s.emoji_target " +
		"WHEN MATCHED THEN UPDATE SET occurrences = t.occurrences + 1 " +
		"WHEN NOT MATCHED THEN INSERT (emoji_source, emoji_target, occurrences) VALUES (@source, @target, 1)"

	QrySymbolStats = "SELECT emoji, occurrences FROM `%s` ORDER BY emoji"

	QryPairStats = "SELECT emoji_source AS source, emoji_target AS target, occurrences FROM `%s` ORDER BY source, target"
)
