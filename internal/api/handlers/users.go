package handlers

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/securefold/server/internal/repositories"
	"github.com/securefold/server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// POST /api/v1/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
		Pin   string `json:"pin"`
	}

	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}
	if input.Email == "" || input.Pin == "" {
		badRequest(w, "Invalid input")
		return
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		badRequest(w, "Invalid email address")
		return
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to hash PIN",
		})
		return
	}

	user, err := h.Users.Create(r.Context(), input.Email, string(pinHash))
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			badRequest(w, "User already exists")
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONObject(w, http.StatusOK, user)
}

// GET /api/v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		notFound(w, "User not found")
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	utils.JSONObject(w, http.StatusOK, user)
}

// GET /api/v1/users/by-email/{email}
func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	utils.JSONObject(w, http.StatusOK, user)
}

// POST /api/v1/users/verify-pin
func (h *Handler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID string `json:"user_id"`
		Pin    string `json:"pin"`
	}

	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}
	id, ok := parseID(input.UserID)
	if !ok {
		notFound(w, "User not found")
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(input.Pin)) != nil {
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: false,
			Message: "Invalid PIN",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "PIN verified",
	})
}

// PUT /api/v1/users/{id}/pin
// old_pin and new_pin arrive as query or form values.
func (h *Handler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		notFound(w, "User not found")
		return
	}

	oldPin := r.FormValue("old_pin")
	newPin := r.FormValue("new_pin")
	if oldPin == "" || newPin == "" {
		badRequest(w, "Invalid input")
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(oldPin)) != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid current PIN",
		})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPin), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to hash PIN",
		})
		return
	}

	if err := h.Users.UpdatePinHash(r.Context(), id, string(newHash)); err != nil {
		storeError(w, err, "User not found")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "PIN updated",
	})
}
