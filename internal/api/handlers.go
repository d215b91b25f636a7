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

package api

import (
	"fmt"
	"net/http"

	"github.com/echohypno/echohypno/internal/core/model"
	"github.com/gin-gonic/gin"
)

type createSceneRequest struct {
	Emojis []string `json:"emojis"`
}

type sceneMediaResponse struct {
	SceneId string `json:"scene_id"`
	Media   any    `json:"media"`
}

type configRequest struct {
	Name string `json:"name"`
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body: %w", model.ErrInvalidInput, err))
		return false
	}
	return true
}

func createScene(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSceneRequest
		if !bindJSON(c, &req) {
			return
		}
		scene, err := svc.Scenes.CreateScene(c.Request.Context(), req.Emojis)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, scene)
	}
}

func getScene(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		scene, err := svc.Scenes.GetScene(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, scene)
	}
}

func getSceneMedia(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		urls, err := svc.Media.SceneMedia(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, sceneMediaResponse{SceneId: id, Media: urls})
	}
}

func getGraph(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		graph, err := svc.Graph.Graph(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, graph)
	}
}

func postPassages(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.PassageRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.Passages.InjectPassages(c.Request.Context(), &req); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func getPalette(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		poles, err := svc.Admin.Palette(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, poles)
	}
}

func getAmbient(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		music, err := svc.Admin.AmbientMusic(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		if music == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": music.Id, "path": music.Path})
	}
}

func listAssets(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		assets, err := svc.Admin.ListAssets(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, assets)
	}
}

func patchAsset(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch model.AssetPatch
		if !bindJSON(c, &patch) {
			return
		}
		asset, err := svc.Admin.UpdateAsset(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func listConfigs(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := svc.Admin.ListConfigs(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, configs)
	}
}

func postConfig(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req configRequest
		if !bindJSON(c, &req) {
			return
		}
		config, err := svc.Admin.SaveConfig(c.Request.Context(), req.Name)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, config)
	}
}

func applyConfig(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		applied, err := svc.Admin.ApplyConfig(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"applied": applied})
	}
}
