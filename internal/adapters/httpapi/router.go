// Package httpapi exposes the thin query surface over the registry plus the
// websocket upgrade endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/adapters/signal"
	"github.com/avlowe/watchroom/internal/app"
	"github.com/avlowe/watchroom/internal/config"
	"github.com/avlowe/watchroom/internal/domain"
)

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, registry *app.Registry, ctl *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.AllowedOrigin))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.Status(http.StatusMethodNotAllowed)
	})

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello, world!")
	})

	r.GET("/url/:roomCode", func(c *gin.Context) {
		url, err := registry.ActiveURL(c.Param("roomCode"))
		switch {
		case errors.Is(err, domain.ErrInvalidRoomCode):
			c.String(http.StatusBadRequest, "Invalid room code")
		case errors.Is(err, domain.ErrRoomNotFound):
			c.String(http.StatusBadRequest, "Room does not exist")
		default:
			c.String(http.StatusOK, url)
		}
	})

	r.GET("/rooms/data", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.Stats())
	})

	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleSession(ctx, c)
	})

	log.Info().Str("module", "adapters.httpapi").Str("origin", cfg.AllowedOrigin).Msg("router setup")
	return r
}
