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

// Package cor (Chain of Responsibility) holds the building blocks every
// pipeline in this service is assembled from: commands, chains of commands and
// the shared context they read from and write to.
//
// Scene creation, asset ingestion and passage injection are all chains. Each
// command is one step with its own span and success/error counters, so a
// failed scene can be traced to the exact step that stopped it.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain uses to pipe one command's output
// into the next command's input.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the property bag shared by every command of one chain execution.
type Context interface {
	// SetContext replaces the Go context. Chains use it to nest command spans.
	SetContext(context context.Context)
	GetContext() context.Context

	Add(key string, value interface{}) Context
	Get(key string) interface{}
	Remove(key string)

	// AddError records a failure keyed by the command that produced it.
	AddError(key string, err error)
	GetErrors() map[string]error
	HasErrors() bool
	// Err returns the first recorded error, or nil.
	Err() error
}

// Executable is anything with a unit of work.
type Executable interface {
	Execute(context Context)
}

// Command is one step of a pipeline.
type Command interface {
	Executable

	GetName() string
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is checked by the chain before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command made of Commands, so chains nest.
type Chain interface {
	Command

	// ContinueOnFailure makes the chain run every command even after one of
	// them records an error.
	ContinueOnFailure(bool) Chain
	AddCommand(command Command) Chain
}
