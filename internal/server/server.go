// Package server exposes the cached settings and the resolution pipeline
// over a small read-only HTTP API, so design tooling can preview presets
// without linking against the CLI.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MurthyAvanithsa/railview/internal/audit"
	"github.com/MurthyAvanithsa/railview/internal/layout"
	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/settings"
	"github.com/MurthyAvanithsa/railview/internal/style"
)

// Server serves the preview API over a settings gateway. All endpoints are
// read-only with respect to the CMS; the only side effect is the gateway's
// TTL-driven cache refresh.
type Server struct {
	gateway *settings.Gateway
	router  *gin.Engine
}

// New builds a Server. Debug selects gin's verbose request logging.
func New(gw *settings.Gateway, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if debug {
		router.Use(gin.Logger())
	}
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	s := &Server{gateway: gw, router: router}

	router.GET("/health", s.health)

	api := router.Group("/api")
	api.GET("/presets", s.listPresets)
	api.GET("/styles", s.listStyles)
	api.GET("/styles/:preset", s.getStyle)
	api.POST("/resolve", s.resolve)
	api.GET("/layout", s.projectLayout)
	api.GET("/audit", s.auditSettings)

	return s
}

// Handler exposes the router for httptest and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

func (s *Server) health(c *gin.Context) {
	state, err := s.gateway.State()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": state.String()})
}

func (s *Server) listPresets(c *gin.Context) {
	cached, ok := s.ensure(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fetched_at": cached.FetchedAt,
		"presets":    cached.ListSettings,
	})
}

func (s *Server) listStyles(c *gin.Context) {
	cached, ok := s.ensure(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fetched_at": cached.FetchedAt,
		"styles":     style.NormalizeAll(cached.CardStyles),
	})
}

func (s *Server) getStyle(c *gin.Context) {
	cached, ok := s.ensure(c)
	if !ok {
		return
	}
	name := c.Param("preset")
	st, found := style.FindStyleForPreset(name, cached.CardStyles)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no style matches preset " + name})
		return
	}
	c.JSON(http.StatusOK, st)
}

// resolveRequest is the POST /api/resolve body: a preset name plus the
// content items to resolve against it.
type resolveRequest struct {
	Preset string              `json:"preset" binding:"required"`
	Items  []model.ContentItem `json:"items" binding:"required"`
}

func (s *Server) resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cached, ok := s.ensure(c)
	if !ok {
		return
	}
	st, found := style.FindStyleForPreset(req.Preset, cached.CardStyles)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no style matches preset " + req.Preset})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preset": st.PresetName,
		"cards":  style.ResolveCards(st, req.Items),
	})
}

func (s *Server) projectLayout(c *gin.Context) {
	name := c.Query("preset")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preset query parameter is required"})
		return
	}

	vp := layout.Viewport{
		Width:   queryInt(c, "width", 390),
		Columns: queryInt(c, "columns", 2),
		Gap:     queryInt(c, "gap", 12),
		Padding: queryInt(c, "padding", 16),
	}

	cached, ok := s.ensure(c)
	if !ok {
		return
	}
	st, found := style.FindStyleForPreset(name, cached.CardStyles)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no style matches preset " + name})
		return
	}

	proj, err := layout.Project(st, vp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"viewport": vp, "projection": proj}
	if count := queryInt(c, "count", 0); count > 0 {
		resp["rows"] = proj.Rows(count)
		resp["content_height"] = proj.ContentHeight(count)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) auditSettings(c *gin.Context) {
	cached, ok := s.ensure(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, audit.Run(cached))
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// ensure runs the TTL-aware settings path and converts failures into a 502.
// A false return means the response has already been written.
func (s *Server) ensure(c *gin.Context) (model.CachedSettings, bool) {
	cached, _, err := s.gateway.Ensure(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "settings unavailable: " + err.Error()})
		return model.CachedSettings{}, false
	}
	return cached, true
}

func queryInt(c *gin.Context, key string, def int) int {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
