// Package server is the HTTP invocation bridge between the panel front end
// and the handler registry.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dt-pm-tools/jsm-panel/internal/handlers"
)

// Invoker runs named handlers; *handlers.Registry implements it.
type Invoker interface {
	Invoke(ctx context.Context, name string, inv handlers.Invocation) (any, error)
	Names() []string
}

// NewRouter wires the bridge routes onto a fresh gin engine.
func NewRouter(invoker Invoker) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery())
	router.Use(Logger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "handlers": invoker.Names()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/invoke/:name", invokeHandler(invoker))

	return router
}

func invokeHandler(invoker Invoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		name := c.Param("name")

		var inv handlers.Invocation
		if err := c.ShouldBindJSON(&inv); err != nil {
			slog.WarnContext(ctx, "invalid invocation body", "handler", name, "error", err)
			c.JSON(http.StatusBadRequest, handlers.Result{Success: false, Error: "invalid request body: " + err.Error()})
			return
		}

		result, err := invoker.Invoke(ctx, name, inv)
		if err != nil {
			if errors.Is(err, handlers.ErrUnknownHandler) {
				c.JSON(http.StatusNotFound, handlers.Fail(err))
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, handlers.Fail(err))
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
