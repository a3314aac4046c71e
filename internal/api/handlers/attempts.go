package handlers

import (
	"log"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/securefold/server/internal/utils"
)

// POST /api/v1/failed-attempt
func (h *Handler) LogFailedAttempt(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID    string   `json:"user_id"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}

	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}
	userID, ok := parseID(input.UserID)
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	if _, err := h.Access.LogFailedAttempt(r.Context(), userID, input.Latitude, input.Longitude, false); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Failed attempt logged",
	})
}

// POST /api/v1/failed-attempt/alert
// Persists the attempt (and photo, when captured) and then dispatches the
// email. The two steps are independent: a dispatch failure never rolls back
// or suppresses the write, and is reported only through the success flag.
func (h *Handler) SendFailedAlert(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID        string   `json:"user_id"`
		Email         string   `json:"email"`
		Latitude      *float64 `json:"latitude"`
		Longitude     *float64 `json:"longitude"`
		IntruderPhoto string   `json:"intruder_photo"`
	}

	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}
	userID, ok := parseID(input.UserID)
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		badRequest(w, "Invalid email address")
		return
	}

	hasPhoto := input.IntruderPhoto != ""
	attempt, err := h.Access.LogFailedAttempt(r.Context(), userID, input.Latitude, input.Longitude, hasPhoto)
	if err != nil {
		log.Printf("Failed to persist attempt for user %s: %v", userID, err)
	}
	if hasPhoto {
		attemptID := uuid.Nil
		if attempt != nil {
			attemptID = attempt.ID
		}
		if _, err := h.Access.SavePhoto(r.Context(), attemptID, userID, input.IntruderPhoto); err != nil {
			log.Printf("Failed to persist intruder photo for user %s: %v", userID, err)
		}
	}

	sent := h.Alerts.SendAlert(r.Context(), input.Email, input.Latitude, input.Longitude, input.IntruderPhoto)

	message := "Security alert sent"
	if !sent {
		message = "Failed to send alert (check SendGrid API key)"
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: sent,
		Message: message,
	})
}

type attemptView struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

// GET /api/v1/failed-attempts/{user_id}
// Returns the reduced projection: id, timestamp and coordinates only.
func (h *Handler) ListFailedAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(r.PathValue("user_id"))
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	attempts, err := h.Access.ListFailedAttempts(r.Context(), userID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	views := make([]attemptView, 0, len(attempts))
	for _, a := range attempts {
		views = append(views, attemptView{
			ID:        a.ID,
			Timestamp: a.Timestamp,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
		})
	}
	utils.JSONObject(w, http.StatusOK, views)
}
