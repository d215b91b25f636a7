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

package cor

import (
	"context"
)

// BaseContext is the default Context. It is not safe for concurrent use; a
// chain execution owns its context for its whole lifetime.
type BaseContext struct {
	data    map[string]interface{}
	errors  map[string]error
	order   []string // command names in the order their errors were recorded
	context context.Context
}

// NewBaseContext returns an empty context bound to ctx.
func NewBaseContext(ctx context.Context) Context {
	return &BaseContext{
		data:    make(map[string]interface{}),
		errors:  make(map[string]error),
		order:   make([]string, 0),
		context: ctx,
	}
}

func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

func (c *BaseContext) GetContext() context.Context {
	return c.context
}

func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

// Get returns the value under key, or nil.
func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// AddError records err for key. A later error for the same key replaces the
// value but keeps the key's original position for Err.
func (c *BaseContext) AddError(key string, err error) {
	if _, ok := c.errors[key]; !ok {
		c.order = append(c.order, key)
	}
	c.errors[key] = err
}

func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}

// Err returns the error of the first command that failed.
func (c *BaseContext) Err() error {
	if len(c.order) == 0 {
		return nil
	}
	return c.errors[c.order[0]]
}
