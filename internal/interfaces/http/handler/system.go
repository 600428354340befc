package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeops/backend/internal/infrastructure/persistence"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// SystemHandler handles liveness and system info endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse reports service and database health
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health handles GET /health with a database ping
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.db.Ping(c.Request.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    "up",
		Database:  dbStatus,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	if status == http.StatusOK {
		c.JSON(status, dto.NewSuccessResponse(response))
		return
	}
	c.JSON(status, dto.Response{Success: false, Data: response})
}
