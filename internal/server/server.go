// seehuhn.de/go/loom - a hand-loom weaving preview
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package server provides an HTTP API for editing drafts and rendering
// fabric previews.
package server

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config collects the server settings.
type Config struct {
	Version string

	// MaxDrafts limits the number of drafts kept in memory.
	MaxDrafts int

	// BodyLimit is the largest accepted request body, for example "2M".
	BodyLimit string

	// RequestLog enables logging of every request except health checks.
	RequestLog bool

	Logger *slog.Logger
}

// DefaultBodyLimit is used when Config.BodyLimit is empty.
const DefaultBodyLimit = "2M"

// New returns an echo instance serving the API.
func New(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return !cfg.RequestLog || strings.HasSuffix(c.Request().URL.Path, "/health")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
	}))
	limit := cfg.BodyLimit
	if limit == "" {
		limit = DefaultBodyLimit
	}
	e.Use(middleware.BodyLimit(limit))

	h := NewHandler(NewManager(cfg.MaxDrafts), cfg.Version, cfg.Logger)
	RegisterRoutes(e, h)
	return e
}

// RegisterRoutes adds the API routes to e.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	api := e.Group("/api")
	api.GET("/health", h.HandleHealth)

	drafts := api.Group("/drafts")
	drafts.POST("", h.HandleCreate)
	drafts.GET("/:id", h.HandleGet)
	drafts.PUT("/:id", h.HandleReplace)
	drafts.DELETE("/:id", h.HandleDelete)
	drafts.PUT("/:id/threading", h.HandleThreading)
	drafts.PUT("/:id/denting", h.HandleDenting)
	drafts.GET("/:id/density", h.HandleDensity)
	drafts.GET("/:id/validate", h.HandleValidate)
	drafts.GET("/:id/render", h.HandleRender)
}
