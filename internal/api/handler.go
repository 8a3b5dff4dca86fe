package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"printer_dashboard/internal/dashboard"
	"printer_dashboard/internal/logger"
)

// defaultEventLimit caps /api/events responses unless the caller asks for
// fewer.
const defaultEventLimit = 50

// Handler exposes the read-only introspection API: what the panels are
// showing and why. There is nothing to write and nothing to protect, so
// there is no auth layer.
type Handler struct {
	board   *dashboard.Board
	journal *dashboard.Journal
	log     *logger.Logger
}

// NewHandler constructs the HTTP handler with its read-only sources.
func NewHandler(board *dashboard.Board, journal *dashboard.Journal, log *logger.Logger) *Handler {
	return &Handler{board: board, journal: journal, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/healthz", h.healthz)

	api := router.Group("/api")
	{
		api.GET("/state", h.getState)
		api.GET("/events", h.getEvents)
		api.GET("/ws", h.wsState)
	}
	return router
}

// healthz reports liveness and whether the loop has completed a tick yet.
func (h *Handler) healthz(c *gin.Context) {
	_, ticked := h.board.Latest()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ticked": ticked})
}

// getState returns the latest published tick snapshot.
func (h *Handler) getState(c *gin.Context) {
	snap, ok := h.board.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no tick completed yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// getEvents returns journal entries newest-first, with optional ?type=
// and ?limit= filters.
func (h *Handler) getEvents(c *gin.Context) {
	limit := defaultEventLimit
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}
	c.JSON(http.StatusOK, gin.H{"events": h.journal.List(c.Query("type"), limit)})
}
