package handlers

import (
	"net/http"
	"time"

	"github.com/securefold/server/internal/utils"
)

// GET /api/v1/
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	utils.JSONObject(w, http.StatusOK, map[string]string{
		"message": "Securefold API",
		"status":  "running",
	})
}

// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSONObject(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
