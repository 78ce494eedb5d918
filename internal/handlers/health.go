package handlers

import (
	"net/http"

	"blogreact/internal/db"
	"blogreact/internal/errs"
	"blogreact/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(conn *gorm.DB) *HealthHandler {
	return &HealthHandler{db: conn}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), h.db); err != nil {
		utils.Error(c, errs.Internal("database unavailable", err))
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
}
