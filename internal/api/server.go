// Package api serves the item store and sharing engine as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hts-group/hts-tasks/internal/app"
)

// maxBodySize caps request bodies; backups are the largest payload.
const maxBodySize = 32 << 20

// Server is the HTTP surface over the container's use cases.
type Server struct {
	container *app.Container
	router    *gin.Engine
}

// NewServer creates a new server with every route registered.
func NewServer(container *app.Container) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), limitBody(maxBodySize))

	s := &Server{
		container: container,
		router:    router,
	}

	items := router.Group("/items")
	{
		items.GET("", s.handleListItems)
		items.DELETE("", s.handleClearAll)
		items.POST("/bulk-delete", s.handleBulkDelete)
		items.POST("/cleanup", s.handleCleanUp)
		items.POST("/:kind", s.handleCreateItem)
		items.GET("/:kind/:id", s.handleGetItem)
		items.PATCH("/:kind/:id", s.handleUpdateItem)
		items.POST("/:kind/:id/toggle", s.handleToggleDone)
		items.PUT("/:kind/:id/reminder", s.handleSetReminder)
		items.DELETE("/:kind/:id", s.handleDeleteItem)
		items.POST("/:kind/:id/share", s.handleShareItem)
		items.GET("/:kind/:id/shares", s.handleListShares)
		items.DELETE("/:kind/:id/shares/:uid", s.handleUnshareItem)
	}

	received := router.Group("/received")
	{
		received.GET("", s.handleListReceived)
		received.POST("/resync", s.handleResync)
		received.PATCH("/:id", s.handleUpdateReceived)
		received.POST("/:id/seen", s.handleMarkAsSeen)
		received.DELETE("/:id", s.handleDeleteReceived)
	}

	router.GET("/export/json", s.handleExportJSON)
	router.POST("/import/json", s.handleImportJSON)
	router.GET("/export/xlsx", s.handleExportXLSX)
	router.GET("/photos/:uid", s.handleGetPhoto)

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
