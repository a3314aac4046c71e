package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/securefold/server/internal/repositories"
	"github.com/securefold/server/internal/utils"
	"gorm.io/gorm"
)

// AlertSender dispatches a security-alert notification. Satisfied by
// services.Mailer; tests substitute a stub.
type AlertSender interface {
	SendAlert(ctx context.Context, email string, latitude, longitude *float64, photoBase64 string) bool
}

// Handler owns the request-handling surface. Stores are injected at startup
// so there is no package-level database state.
type Handler struct {
	Users     *repositories.UserStore
	Documents *repositories.DocumentStore
	Access    *repositories.AccessStore
	Alerts    AlertSender
}

func New(users *repositories.UserStore, documents *repositories.DocumentStore, access *repositories.AccessStore, alerts AlertSender) *Handler {
	return &Handler{
		Users:     users,
		Documents: documents,
		Access:    access,
		Alerts:    alerts,
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, message string) {
	utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
		Success: false,
		Message: message,
	})
}

func notFound(w http.ResponseWriter, message string) {
	utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
		Success: false,
		Message: message,
	})
}

// storeError maps a store failure onto the response: missing records become
// 404, anything else a 500.
func storeError(w http.ResponseWriter, err error, notFoundMessage string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, notFoundMessage)
		return
	}
	utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
		Success: false,
		Message: "Database error",
	})
}

func parseID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}
