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

// Package api holds the HTTP surface of the service: the visitor endpoints
// (scene creation and playback, the memory graph, passages, ambient music) and
// the admin endpoints over the catalog.
package api

import (
	"github.com/echohypno/echohypno/internal/core/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Services are the use cases the handlers call into.
type Services struct {
	Scenes   *services.SceneService
	Media    *services.MediaURLService
	Graph    *services.GraphService
	Passages *services.PassageService
	Admin    *services.AdminService
}

// RouterOptions configures the middleware around the handlers.
type RouterOptions struct {
	ServiceName    string
	AllowedOrigins []string // empty allows every origin
	SceneLimiter   *ClientRateLimiter
}

// NewRouter builds the gin engine with tracing, CORS and every route under
// /api/v1.
func NewRouter(svc *Services, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if len(opts.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = opts.AllowedOrigins
		r.Use(cors.New(corsConfig))
	} else {
		r.Use(cors.Default())
	}

	apiV1 := r.Group("/api/v1")
	{
		SceneRouter(apiV1, svc, opts.SceneLimiter)
		MemoryRouter(apiV1, svc)
		AdminRouter(apiV1, svc)
	}
	return r
}

// SceneRouter registers scene creation and playback resolution. Creation is
// rate limited per client when limiter is set.
func SceneRouter(r *gin.RouterGroup, svc *Services, limiter *ClientRateLimiter) {
	scenes := r.Group("/scenes")
	{
		create := []gin.HandlerFunc{createScene(svc)}
		if limiter != nil {
			create = append([]gin.HandlerFunc{limiter.Middleware()}, create...)
		}
		scenes.POST("", create...)
		scenes.GET("/:id", getScene(svc))
		scenes.GET("/:id/media", getSceneMedia(svc))
	}
}

// MemoryRouter registers the collective-memory endpoints.
func MemoryRouter(r *gin.RouterGroup, svc *Services) {
	r.GET("/graph", getGraph(svc))
	r.POST("/passages", postPassages(svc))
	r.GET("/palette", getPalette(svc))
	r.GET("/ambient", getAmbient(svc))
}

// AdminRouter registers catalog administration.
func AdminRouter(r *gin.RouterGroup, svc *Services) {
	assets := r.Group("/assets")
	{
		assets.GET("", listAssets(svc))
		assets.PATCH("/:id", patchAsset(svc))
	}
	configs := r.Group("/configs")
	{
		configs.GET("", listConfigs(svc))
		configs.POST("", postConfig(svc))
		configs.POST("/:id/apply", applyConfig(svc))
	}
}
