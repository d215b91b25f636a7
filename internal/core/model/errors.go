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

package model

import (
	"errors"
	"fmt"
)

// Error classes of the scene pipeline. Callers test with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrComposerFatal      = errors.New("composer failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrBestEffortMemory   = errors.New("collective memory update failed")
	ErrNotFound           = errors.New("not found")
)

// Composer failure causes.
const (
	CauseNoAssets = "no-assets"
	CauseNoMusic  = "no-music"
	CauseNoVideo  = "no-video"
)

// ComposerError reports why a composition could not produce a playable scene.
type ComposerError struct {
	Cause   string
	Climate Climate
}

func (e *ComposerError) Error() string {
	return fmt.Sprintf("compose scene for climate %q: %s", e.Climate, e.Cause)
}

func (e *ComposerError) Unwrap() error {
	return ErrComposerFatal
}
