package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler 健康检查
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags System
// @Produce  json
// @Success 200 {object} map[string]interface{} "服务正常"
// @Failure 503 {object} map[string]interface{} "数据库不可用"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := gin.H{"status": "healthy", "timestamp": time.Now()}
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}
	c.JSON(http.StatusOK, status)
}
