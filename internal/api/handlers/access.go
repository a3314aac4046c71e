package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/securefold/server/internal/repositories"
	"github.com/securefold/server/internal/utils"
	"gorm.io/gorm"
)

// POST /api/v1/access-log
// LogAccess godoc
// @Summary Record an officer access event
// @Description Appends an immutable ledger entry for an officer viewing a user's documents
// @Tags AccessLog
// @Accept json
// @Produce json
// @Success 200 {object} models.OfficerAccess
// @Failure 400 {object} utils.Payload
// @Router /api/v1/access-log [post]
func (h *Handler) LogAccess(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID          string   `json:"user_id"`
		OfficerName     string   `json:"officer_name"`
		BadgeNumber     string   `json:"badge_number"`
		Latitude        *float64 `json:"latitude"`
		Longitude       *float64 `json:"longitude"`
		Address         *string  `json:"address"`
		DocumentsViewed []string `json:"documents_viewed"`
	}

	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}
	if input.UserID == "" || input.OfficerName == "" || input.BadgeNumber == "" {
		badRequest(w, "Invalid input")
		return
	}
	userID, ok := parseID(input.UserID)
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	rec, err := h.Access.LogAccess(r.Context(), repositories.AccessEntry{
		UserID:          userID,
		OfficerName:     input.OfficerName,
		BadgeNumber:     input.BadgeNumber,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Address:         input.Address,
		DocumentsViewed: input.DocumentsViewed,
	})
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}
	utils.JSONObject(w, http.StatusOK, rec)
}

// GET /api/v1/access-log/{user_id}
func (h *Handler) ListAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(r.PathValue("user_id"))
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	logs, err := h.Access.ListAccess(r.Context(), userID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}
	utils.JSONObject(w, http.StatusOK, logs)
}

type exportedAccess struct {
	OfficerName     string   `json:"officer_name"`
	BadgeNumber     string   `json:"badge_number"`
	Timestamp       string   `json:"timestamp"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Address         *string  `json:"address"`
	DocumentsViewed []string `json:"documents_viewed"`
}

type accessExport struct {
	UserEmail     string           `json:"user_email"`
	ExportDate    string           `json:"export_date"`
	TotalAccesses int              `json:"total_accesses"`
	Logs          []exportedAccess `json:"logs"`
}

// GET /api/v1/access-log/{user_id}/export
// Read-only projection of the ledger with every timestamp normalized to
// RFC 3339 UTC. Nothing is stored.
func (h *Handler) ExportAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(r.PathValue("user_id"))
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	logs, err := h.Access.ListAccess(r.Context(), userID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	userEmail := "Unknown"
	user, err := h.Users.GetByID(r.Context(), userID)
	switch {
	case err == nil:
		userEmail = user.Email
	case errors.Is(err, gorm.ErrRecordNotFound):
		// owner no longer exists, export proceeds with the sentinel
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	export := accessExport{
		UserEmail:     userEmail,
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
		TotalAccesses: len(logs),
		Logs:          make([]exportedAccess, 0, len(logs)),
	}
	for _, entry := range logs {
		export.Logs = append(export.Logs, exportedAccess{
			OfficerName:     entry.OfficerName,
			BadgeNumber:     entry.BadgeNumber,
			Timestamp:       entry.Timestamp.UTC().Format(time.RFC3339),
			Latitude:        entry.Latitude,
			Longitude:       entry.Longitude,
			Address:         entry.Address,
			DocumentsViewed: entry.DocumentsViewed,
		})
	}

	utils.JSONObject(w, http.StatusOK, export)
}
